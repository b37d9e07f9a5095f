// Package testutil provides testing utilities and helpers for the jobdeck system.
package testutil

import (
	"time"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// TaskRequestBuilder provides a fluent interface for building CreateTaskRequest objects for testing.
type TaskRequestBuilder struct {
	req *model.CreateTaskRequest
}

// NewTaskRequest creates a new TaskRequestBuilder with sensible defaults.
func NewTaskRequest() *TaskRequestBuilder {
	return &TaskRequestBuilder{
		req: &model.CreateTaskRequest{
			Title:    "Review launch checklist",
			Priority: model.TaskPriorityMedium,
		},
	}
}

// WithTitle sets the task title.
func (b *TaskRequestBuilder) WithTitle(title string) *TaskRequestBuilder {
	b.req.Title = title
	return b
}

// WithJobID attaches the task to a job.
func (b *TaskRequestBuilder) WithJobID(jobID string) *TaskRequestBuilder {
	b.req.JobID = &jobID
	return b
}

// WithPriority sets the task priority.
func (b *TaskRequestBuilder) WithPriority(priority model.TaskPriority) *TaskRequestBuilder {
	b.req.Priority = priority
	return b
}

// WithDueDate sets the due date.
func (b *TaskRequestBuilder) WithDueDate(dueDate time.Time) *TaskRequestBuilder {
	b.req.DueDate = &dueDate
	return b
}

// WithCreatedBy sets the creating user.
func (b *TaskRequestBuilder) WithCreatedBy(userID string) *TaskRequestBuilder {
	b.req.CreatedBy = &userID
	return b
}

// WithAssignees sets the initial assignee list.
func (b *TaskRequestBuilder) WithAssignees(userIDs ...string) *TaskRequestBuilder {
	b.req.AssigneeIDs = userIDs
	return b
}

// Build returns the built CreateTaskRequest.
func (b *TaskRequestBuilder) Build() *model.CreateTaskRequest {
	return b.req
}

// CommentRequestBuilder provides a fluent interface for building CreateCommentRequest objects for testing.
type CommentRequestBuilder struct {
	req *model.CreateCommentRequest
}

// NewCommentRequest creates a new CommentRequestBuilder with sensible defaults.
func NewCommentRequest() *CommentRequestBuilder {
	taskID := "task-1"
	return &CommentRequestBuilder{
		req: &model.CreateCommentRequest{
			TaskID:   &taskID,
			AuthorID: "user-1",
			Body:     "Looks good to me.",
		},
	}
}

// WithTaskID scopes the comment to a task.
func (b *CommentRequestBuilder) WithTaskID(taskID string) *CommentRequestBuilder {
	b.req.TaskID = &taskID
	return b
}

// WithJobID scopes the comment to a job instead of a task.
func (b *CommentRequestBuilder) WithJobID(jobID string) *CommentRequestBuilder {
	b.req.TaskID = nil
	b.req.JobID = &jobID
	return b
}

// WithAuthorID sets the comment author.
func (b *CommentRequestBuilder) WithAuthorID(authorID string) *CommentRequestBuilder {
	b.req.AuthorID = authorID
	return b
}

// WithBody sets the comment body.
func (b *CommentRequestBuilder) WithBody(body string) *CommentRequestBuilder {
	b.req.Body = body
	return b
}

// Build returns the built CreateCommentRequest.
func (b *CommentRequestBuilder) Build() *model.CreateCommentRequest {
	return b.req
}

// UserBuilder provides a fluent interface for building User objects for testing.
type UserBuilder struct {
	user *model.User
}

// NewUser creates a new UserBuilder with sensible defaults.
func NewUser(id string) *UserBuilder {
	return &UserBuilder{
		user: &model.User{
			ID:        id,
			Email:     id + "@example.com",
			Role:      model.UserRoleUser,
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

// WithEmail sets the user email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// WithName sets the user's display name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = &name
	return b
}

// WithRole sets the workspace role.
func (b *UserBuilder) WithRole(role model.UserRole) *UserBuilder {
	b.user.Role = role
	return b
}

// Build returns the built User.
func (b *UserBuilder) Build() *model.User {
	return b.user
}

// Collaborator builds a CollaboratorWithUser row for the given user.
func Collaborator(jobID string, u *model.User, role model.CollaboratorRole) *model.CollaboratorWithUser {
	return &model.CollaboratorWithUser{
		JobCollaborator: model.JobCollaborator{
			ID:     "collab-" + u.ID,
			JobID:  jobID,
			UserID: u.ID,
			Role:   role,
		},
		User: *u,
	}
}
