package core

import (
	"context"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// JobRepository defines the interface for job and collaborator data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	// AddCollaborator inserts a (job, user, role) row unless one already
	// exists; existing rows are never modified. Returns true on insert.
	AddCollaborator(ctx context.Context, jobID, userID string, role model.CollaboratorRole) (bool, error)
	ListCollaborators(ctx context.Context, jobID string) ([]*model.CollaboratorWithUser, error)
}

// TaskRepository defines the interface for task and assignee data operations.
type TaskRepository interface {
	Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error)
	GetByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, opts *model.TaskListOptions) ([]*model.Task, error)
	SetStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error)
	// AddAssignee inserts a (task, user) row unless one already exists.
	// Returns true on insert.
	AddAssignee(ctx context.Context, taskID, userID string) (bool, error)
	ListAssignees(ctx context.Context, taskID string) ([]*model.TaskAssignee, error)
}

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error)
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]*model.Comment, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Comment, error)
	// ListRecentContext returns up to limit sibling comments (same task
	// or job, excluding the given one), newest first.
	ListRecentContext(ctx context.Context, comment *model.Comment, limit int) ([]*model.Comment, error)
}

// AttachmentRepository defines the interface for attachment metadata operations.
type AttachmentRepository interface {
	Create(ctx context.Context, req *model.CreateAttachmentRequest) (*model.Attachment, error)
	ListByTask(ctx context.Context, taskID string) ([]*model.Attachment, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Attachment, error)
}

// NotificationRepository defines the interface for notification data operations.
type NotificationRepository interface {
	Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
	List(ctx context.Context, opts *model.NotificationListOptions) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

// UnreadCountCache defines the interface for the per-user unread count cache.
type UnreadCountCache interface {
	Get(ctx context.Context, userID string) (count int, found bool, err error)
	Set(ctx context.Context, userID string, count int) error
	Invalidate(ctx context.Context, userID string) error
}
