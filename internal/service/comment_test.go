package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/testutil"
)

func newCommentService(
	comments *mockCommentRepository,
	users *mockUserRepository,
	notifications *mockNotificationRepository,
) *CommentService {
	notifier := NewNotifierService(NotifierServiceOptions{
		Users:         users,
		Jobs:          &mockJobRepository{},
		Tasks:         &mockTaskRepository{},
		Comments:      comments,
		Notifications: notifications,
	})
	return NewCommentService(CommentServiceOptions{
		Comments: comments,
		Users:    users,
		Notifier: notifier,
	})
}

func TestCommentService_Create_NotifiesMentions(t *testing.T) {
	alice := testutil.NewUser("alice").WithName("Alice Chen").Build()
	bob := testutil.NewUser("bob").WithName("Bob Ortiz").Build()
	users := usersByID(alice, bob)

	taskID := "task-1"
	stored := &model.Comment{ID: "c1", TaskID: &taskID, AuthorID: "alice", Body: "over to you @bob"}
	comments := &mockCommentRepository{
		createFunc: func(_ context.Context, req *model.CreateCommentRequest) (*model.Comment, error) {
			return stored, nil
		},
		listRecentContextFunc: func(context.Context, *model.Comment, int) ([]*model.Comment, error) {
			return nil, nil
		},
	}
	notifications := &mockNotificationRepository{}

	svc := newCommentService(comments, users, notifications)

	got, err := svc.Create(context.Background(), testutil.NewCommentRequest().
		WithTaskID(taskID).
		WithAuthorID("alice").
		WithBody("over to you @bob").
		Build())
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)

	created := notifications.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "bob", created[0].UserID)
	assert.Equal(t, model.NotificationTypeCommentMention, created[0].Type)
	assert.Contains(t, created[0].Message, "Alice Chen")
}

func TestCommentService_Create_NoMentionsNoNotifications(t *testing.T) {
	alice := testutil.NewUser("alice").Build()
	users := usersByID(alice)

	taskID := "task-1"
	comments := &mockCommentRepository{
		createFunc: func(_ context.Context, req *model.CreateCommentRequest) (*model.Comment, error) {
			return &model.Comment{ID: "c1", TaskID: &taskID, AuthorID: "alice", Body: "no mentions here"}, nil
		},
	}
	notifications := &mockNotificationRepository{}

	svc := newCommentService(comments, users, notifications)

	_, err := svc.Create(context.Background(), testutil.NewCommentRequest().WithAuthorID("alice").Build())
	require.NoError(t, err)
	assert.Empty(t, notifications.Created())
}

func TestCommentService_Create_InsertFailureSkipsPipeline(t *testing.T) {
	comments := &mockCommentRepository{
		createFunc: func(context.Context, *model.CreateCommentRequest) (*model.Comment, error) {
			return nil, errors.New("insert failed")
		},
	}
	notifications := &mockNotificationRepository{}

	svc := newCommentService(comments, usersByID(), notifications)

	_, err := svc.Create(context.Background(), testutil.NewCommentRequest().Build())
	require.Error(t, err)
	assert.Empty(t, notifications.Created())
}
