//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Comment is free text attached to a task and/or job. The body may
// contain @name or @email mention markers; mention resolution happens
// in the service layer, not here.
type Comment struct {
	ID        string    `json:"id"         db:"id"`
	TaskID    *string   `json:"task_id,omitempty" db:"task_id"`
	JobID     *string   `json:"job_id,omitempty"  db:"job_id"`
	AuthorID  string    `json:"author_id"  db:"author_id"`
	Body      string    `json:"body"       db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCommentRequest carries the fields needed to create a comment.
type CreateCommentRequest struct {
	TaskID   *string `json:"task_id,omitempty"`
	JobID    *string `json:"job_id,omitempty"`
	AuthorID string  `json:"author_id"`
	Body     string  `json:"body"`
}

// Validate checks the request for required fields.
func (r *CreateCommentRequest) Validate() error {
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("body is required")
	}
	if strings.TrimSpace(r.AuthorID) == "" {
		return errors.New("author_id is required")
	}
	if r.TaskID == nil && r.JobID == nil {
		return errors.New("comment must reference a task or a job")
	}
	return nil
}
