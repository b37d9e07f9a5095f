package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTaskStatus_Valid(t *testing.T) {
	for _, s := range []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusBlocked, TaskStatusDone} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, TaskStatus("ARCHIVED").Valid())
	assert.False(t, TaskStatus("todo").Valid(), "enum values are uppercase only")
	assert.False(t, TaskStatus("").Valid())
}

func TestNotificationType_Valid(t *testing.T) {
	for _, n := range []NotificationType{
		NotificationTypeTaskAssigned,
		NotificationTypeJobAssigned,
		NotificationTypeTaskCompleted,
		NotificationTypeCommentMention,
	} {
		assert.True(t, n.Valid(), n)
	}
	assert.False(t, NotificationType("DIGEST").Valid())
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, UserRoleAdmin.Valid())
	assert.True(t, UserRoleOwner.Valid())
	assert.True(t, UserRoleUser.Valid())
	assert.False(t, UserRole("SUPERADMIN").Valid())
}

func TestCollaboratorRole_Valid(t *testing.T) {
	assert.True(t, CollaboratorRoleOwner.Valid())
	assert.True(t, CollaboratorRoleCollaborator.Valid())
	assert.True(t, CollaboratorRoleViewer.Valid())
	assert.False(t, CollaboratorRole("GUEST").Valid())
}

func TestUser_DisplayName(t *testing.T) {
	u := &User{Email: "alice@example.com", Name: strPtr("Alice Chen")}
	assert.Equal(t, "Alice Chen", u.DisplayName())

	u.Name = nil
	assert.Equal(t, "alice@example.com", u.DisplayName())

	u.Name = strPtr("   ")
	assert.Equal(t, "alice@example.com", u.DisplayName())

	var nilUser *User
	assert.Equal(t, "", nilUser.DisplayName())
}

func TestJob_Reference(t *testing.T) {
	j := &Job{Number: 142, Title: "Spring campaign"}
	assert.Equal(t, "#142 Spring campaign", j.Reference())

	var nilJob *Job
	assert.Equal(t, "", nilJob.Reference())
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	t.Run("title required", func(t *testing.T) {
		req := &CreateTaskRequest{Title: "  "}
		assert.Error(t, req.Validate())
	})

	t.Run("priority defaults to medium", func(t *testing.T) {
		req := &CreateTaskRequest{Title: "t"}
		require.NoError(t, req.Validate())
		assert.Equal(t, TaskPriorityMedium, req.Priority)
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		req := &CreateTaskRequest{Title: "t", Priority: TaskPriority("ASAP")}
		assert.Error(t, req.Validate())
	})
}

func TestCreateCommentRequest_Validate(t *testing.T) {
	taskID := "task-1"

	t.Run("valid", func(t *testing.T) {
		req := &CreateCommentRequest{TaskID: &taskID, AuthorID: "u1", Body: "hi"}
		assert.NoError(t, req.Validate())
	})

	t.Run("needs a task or job", func(t *testing.T) {
		req := &CreateCommentRequest{AuthorID: "u1", Body: "hi"}
		assert.Error(t, req.Validate())
	})

	t.Run("body required", func(t *testing.T) {
		req := &CreateCommentRequest{TaskID: &taskID, AuthorID: "u1", Body: "  "}
		assert.Error(t, req.Validate())
	})

	t.Run("author required", func(t *testing.T) {
		req := &CreateCommentRequest{TaskID: &taskID, Body: "hi"}
		assert.Error(t, req.Validate())
	})
}

func TestCreateAttachmentRequest_Validate(t *testing.T) {
	taskID := "task-1"

	t.Run("valid", func(t *testing.T) {
		req := &CreateAttachmentRequest{TaskID: &taskID, FileName: "f.png", URL: "https://files/f.png"}
		assert.NoError(t, req.Validate())
	})

	t.Run("needs a task or job", func(t *testing.T) {
		req := &CreateAttachmentRequest{FileName: "f.png", URL: "https://files/f.png"}
		assert.Error(t, req.Validate())
	})

	t.Run("file name and url required", func(t *testing.T) {
		assert.Error(t, (&CreateAttachmentRequest{TaskID: &taskID, URL: "u"}).Validate())
		assert.Error(t, (&CreateAttachmentRequest{TaskID: &taskID, FileName: "f"}).Validate())
	})
}

func TestCreateUserRequest_Validate(t *testing.T) {
	t.Run("role defaults to USER", func(t *testing.T) {
		req := &CreateUserRequest{Email: "a@example.com"}
		require.NoError(t, req.Validate())
		assert.Equal(t, UserRoleUser, req.Role)
	})

	t.Run("email required and must look like one", func(t *testing.T) {
		assert.Error(t, (&CreateUserRequest{}).Validate())
		assert.Error(t, (&CreateUserRequest{Email: "not-an-email"}).Validate())
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		req := &CreateUserRequest{Email: "a@example.com", Role: UserRole("ROOT")}
		assert.Error(t, req.Validate())
	})
}
