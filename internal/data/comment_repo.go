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

// CommentRepo provides database operations for comments.
type CommentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCommentRepo creates a new CommentRepo with real time provider.
func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewCommentRepoWithTimeProvider creates a new CommentRepo with a custom time provider (useful for tests).
func NewCommentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CommentRepo {
	return &CommentRepo{DB: db, timeProvider: tp}
}

const commentColumns = "id, task_id, job_id, author_id, body, created_at, updated_at"

// Create inserts a new comment.
func (r *CommentRepo) Create(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error) {
	if req == nil {
		return nil, errors.New("create comment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO comments (id, task_id, job_id, author_id, body, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			RETURNING `+commentColumns,
			uuid.NewString(),
			req.TaskID,
			req.JobID,
			req.AuthorID,
			strings.TrimSpace(req.Body),
			now,
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Comment])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a comment by ID.
func (r *CommentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var out model.Comment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+commentColumns+" FROM comments WHERE id = $1", id)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Comment])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &out, nil
}

// ListByTask returns a task's comments, oldest first.
func (r *CommentRepo) ListByTask(ctx context.Context, taskID string) ([]*model.Comment, error) {
	return r.list(ctx, "task_id = $1", taskID)
}

// ListByJob returns a job's comments, oldest first.
func (r *CommentRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Comment, error) {
	return r.list(ctx, "job_id = $1", jobID)
}

func (r *CommentRepo) list(ctx context.Context, where, arg string) ([]*model.Comment, error) {
	var out []model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+commentColumns+" FROM comments WHERE "+where+" ORDER BY created_at ASC", arg)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	result := make([]*model.Comment, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}

// ListRecentContext returns up to limit comments on the same task or
// job as the given comment, excluding the comment itself, newest
// first. Used to give mention emails surrounding conversation.
func (r *CommentRepo) ListRecentContext(
	ctx context.Context,
	comment *model.Comment,
	limit int,
) ([]*model.Comment, error) {
	if comment == nil {
		return nil, errors.New("comment is required")
	}
	if limit <= 0 {
		limit = 3
	}

	where := "job_id = $2"
	var scope any = comment.JobID
	if comment.TaskID != nil {
		where = "task_id = $2"
		scope = comment.TaskID
	}

	var out []model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+commentColumns+" FROM comments WHERE id <> $1 AND "+where+
				" ORDER BY created_at DESC LIMIT $3",
			comment.ID, scope, limit)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list context comments: %w", err)
	}

	result := make([]*model.Comment, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}
