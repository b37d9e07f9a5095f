//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Attachment is an uploaded file on a job and/or task. The data model
// does not link attachments to comments directly; that association is
// inferred at read time (see service.CorrelateAttachments).
type Attachment struct {
	ID         string    `json:"id"          db:"id"`
	JobID      *string   `json:"job_id,omitempty"  db:"job_id"`
	TaskID     *string   `json:"task_id,omitempty" db:"task_id"`
	FileName   string    `json:"file_name"   db:"file_name"`
	URL        string    `json:"url"         db:"url"`
	MimeType   string    `json:"mime_type"   db:"mime_type"`
	UploadedBy *string   `json:"uploaded_by,omitempty" db:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}

// CreateAttachmentRequest carries the fields needed to record an upload.
// File storage itself happens elsewhere; this only records metadata.
type CreateAttachmentRequest struct {
	JobID      *string `json:"job_id,omitempty"`
	TaskID     *string `json:"task_id,omitempty"`
	FileName   string  `json:"file_name"`
	URL        string  `json:"url"`
	MimeType   string  `json:"mime_type"`
	UploadedBy *string `json:"uploaded_by,omitempty"`
}

// Validate checks the request for required fields.
func (r *CreateAttachmentRequest) Validate() error {
	if strings.TrimSpace(r.FileName) == "" {
		return errors.New("file_name is required")
	}
	if strings.TrimSpace(r.URL) == "" {
		return errors.New("url is required")
	}
	if r.JobID == nil && r.TaskID == nil {
		return errors.New("attachment must reference a task or a job")
	}
	return nil
}
