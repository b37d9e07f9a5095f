//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Notification is an in-app notification created by the side-effect
// pipeline. Rows are created once and only ever mutated by the
// recipient marking them read.
type Notification struct {
	ID        string           `json:"id"         db:"id"`
	UserID    string           `json:"user_id"    db:"user_id"`
	Type      NotificationType `json:"type"       db:"type"`
	Title     string           `json:"title"      db:"title"`
	Message   string           `json:"message"    db:"message"`
	TaskID    *string          `json:"task_id,omitempty"    db:"task_id"`
	JobID     *string          `json:"job_id,omitempty"     db:"job_id"`
	CommentID *string          `json:"comment_id,omitempty" db:"comment_id"`
	ActorID   *string          `json:"actor_id,omitempty"   db:"actor_id"`
	Read      bool             `json:"read"       db:"read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// NotificationType represents the kind of event a notification records.
type NotificationType string

const (
	NotificationTypeTaskAssigned   NotificationType = "TASK_ASSIGNED"
	NotificationTypeJobAssigned    NotificationType = "JOB_ASSIGNED"
	NotificationTypeTaskCompleted  NotificationType = "TASK_COMPLETED"
	NotificationTypeCommentMention NotificationType = "COMMENT_MENTION"
)

// Valid returns true if the notification type is valid.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeTaskAssigned, NotificationTypeJobAssigned,
		NotificationTypeTaskCompleted, NotificationTypeCommentMention:
		return true
	default:
		return false
	}
}

// String returns the string representation of the notification type.
func (t NotificationType) String() string {
	return string(t)
}

// CreateNotificationRequest carries the fields needed to persist one
// notification row for one recipient.
type CreateNotificationRequest struct {
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	TaskID    *string          `json:"task_id,omitempty"`
	JobID     *string          `json:"job_id,omitempty"`
	CommentID *string          `json:"comment_id,omitempty"`
	ActorID   *string          `json:"actor_id,omitempty"`
}

// Validate checks the request for required fields and valid values.
func (r *CreateNotificationRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if !r.Type.Valid() {
		return errors.New("invalid notification type")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}

// NotificationListOptions controls filtering and pagination of
// notification listings.
type NotificationListOptions struct {
	UserID     string
	UnreadOnly bool
	Type       *NotificationType
	Limit      int
	Offset     int
}
