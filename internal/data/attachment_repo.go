package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jobdeck/jobdeck/internal/data/pgxutil"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	apperrors "github.com/jobdeck/jobdeck/internal/errors"
)

// AttachmentRepo provides database operations for attachment metadata.
type AttachmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAttachmentRepo creates a new AttachmentRepo with real time provider.
func NewAttachmentRepo(db *sql.DB) *AttachmentRepo {
	return &AttachmentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAttachmentRepoWithTimeProvider creates a new AttachmentRepo with a custom time provider (useful for tests).
func NewAttachmentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AttachmentRepo {
	return &AttachmentRepo{DB: db, timeProvider: tp}
}

const attachmentColumns = "id, job_id, task_id, file_name, url, mime_type, uploaded_by, created_at"

// Create records an uploaded file's metadata.
func (r *AttachmentRepo) Create(ctx context.Context, req *model.CreateAttachmentRequest) (*model.Attachment, error) {
	if req == nil {
		return nil, errors.New("create attachment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	mimeType := strings.TrimSpace(req.MimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var out model.Attachment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO attachments (id, job_id, task_id, file_name, url, mime_type, uploaded_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+attachmentColumns,
			uuid.NewString(),
			req.JobID,
			req.TaskID,
			strings.TrimSpace(req.FileName),
			strings.TrimSpace(req.URL),
			mimeType,
			req.UploadedBy,
			r.timeProvider.Now().UTC(),
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Attachment])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}
	return &out, nil
}

// ListByTask returns a task's attachments in upload order.
func (r *AttachmentRepo) ListByTask(ctx context.Context, taskID string) ([]*model.Attachment, error) {
	return r.list(ctx, "task_id = $1", taskID)
}

// ListByJob returns a job's attachments in upload order.
func (r *AttachmentRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Attachment, error) {
	return r.list(ctx, "job_id = $1", jobID)
}

func (r *AttachmentRepo) list(ctx context.Context, where, arg string) ([]*model.Attachment, error) {
	var out []model.Attachment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+attachmentColumns+" FROM attachments WHERE "+where+" ORDER BY created_at ASC", arg)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Attachment])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	result := make([]*model.Attachment, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}
