//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Job represents a client job (project) grouping tasks, attachments and
// collaborators.
type Job struct {
	ID        string    `json:"id"         db:"id"`
	Number    int       `json:"number"     db:"number"`
	Title     string    `json:"title"      db:"title"`
	CreatedBy *string   `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Reference returns the human-facing job reference, e.g. "#142 Spring campaign".
func (j *Job) Reference() string {
	if j == nil {
		return ""
	}
	return fmt.Sprintf("#%d %s", j.Number, j.Title)
}

// CollaboratorRole represents a user's role on a specific job.
type CollaboratorRole string

const (
	CollaboratorRoleOwner        CollaboratorRole = "OWNER"
	CollaboratorRoleCollaborator CollaboratorRole = "COLLABORATOR"
	CollaboratorRoleViewer       CollaboratorRole = "VIEWER"
)

// Valid returns true if the collaborator role is valid.
func (r CollaboratorRole) Valid() bool {
	switch r {
	case CollaboratorRoleOwner, CollaboratorRoleCollaborator, CollaboratorRoleViewer:
		return true
	default:
		return false
	}
}

// String returns the string representation of the collaborator role.
func (r CollaboratorRole) String() string {
	return string(r)
}

// JobCollaborator joins a user to a job with a role. At most one row
// exists per (job, user) pair; the table carries a UNIQUE constraint.
type JobCollaborator struct {
	ID        string           `json:"id"         db:"id"`
	JobID     string           `json:"job_id"     db:"job_id"`
	UserID    string           `json:"user_id"    db:"user_id"`
	Role      CollaboratorRole `json:"role"       db:"role"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// CollaboratorWithUser is a collaborator row joined with its user record,
// used by recipient resolution to filter on workspace role.
type CollaboratorWithUser struct {
	JobCollaborator
	User User `json:"user"`
}

// CreateJobRequest carries the fields needed to create a job.
type CreateJobRequest struct {
	Title     string  `json:"title"`
	CreatedBy *string `json:"created_by,omitempty"`
}

// Validate checks the request for required fields.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	return nil
}
