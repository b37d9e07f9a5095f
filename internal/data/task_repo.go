package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jobdeck/jobdeck/internal/data/pgxutil"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	apperrors "github.com/jobdeck/jobdeck/internal/errors"
)

// TaskRepo provides database operations for tasks and their assignee set.
type TaskRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTaskRepo creates a new TaskRepo with real time provider.
func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTaskRepoWithTimeProvider creates a new TaskRepo with a custom time provider (useful for tests).
func NewTaskRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TaskRepo {
	return &TaskRepo{DB: db, timeProvider: tp}
}

const taskColumns = "id, job_id, title, status, priority, due_date, created_by, completed_at, created_at, updated_at"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Create inserts a new task. Assignees are not written here; the
// service layer adds them after the task row commits so that
// notification side effects never precede the primary mutation.
func (r *TaskRepo) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	if req == nil {
		return nil, errors.New("create task request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Task
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO tasks (id, job_id, title, status, priority, due_date, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+taskColumns,
			uuid.NewString(),
			req.JobID,
			strings.TrimSpace(req.Title),
			model.TaskStatusTodo,
			req.Priority,
			req.DueDate,
			req.CreatedBy,
			now,
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*model.Task, error) {
	var out model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+taskColumns+" FROM tasks WHERE id = $1", id)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &out, nil
}

// List retrieves tasks matching the given options, newest first.
func (r *TaskRepo) List(ctx context.Context, opts *model.TaskListOptions) ([]*model.Task, error) {
	limit := 50
	offset := 0
	builder := psql.Select(strings.Split(taskColumns, ", ")...).
		From("tasks").
		OrderBy("created_at DESC")

	if opts != nil {
		if opts.JobID != nil {
			builder = builder.Where(sq.Eq{"job_id": *opts.JobID})
		}
		if opts.Status != nil {
			builder = builder.Where(sq.Eq{"status": *opts.Status})
		}
		if opts.AssigneeID != nil {
			builder = builder.Where(
				"id IN (SELECT task_id FROM task_assignees WHERE user_id = ?)",
				*opts.AssigneeID,
			)
		}
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		if opts.Offset > 0 {
			offset = opts.Offset
		}
	}
	builder = builder.Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build task list query: %w", err)
	}

	var out []model.Task
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Task])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	result := make([]*model.Task, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}

// SetStatus updates a task's status. When the new status is DONE the
// completion timestamp is set; moving out of DONE clears it.
func (r *TaskRepo) SetStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid task status: %q", status)
	}

	now := r.timeProvider.Now().UTC()
	var completedAt any
	if status == model.TaskStatusDone {
		completedAt = now
	}

	var out model.Task
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			UPDATE tasks
			SET status = $2, completed_at = $3, updated_at = $4
			WHERE id = $1
			RETURNING `+taskColumns,
			id, status, completedAt, now)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Task])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to set task status: %w", err)
	}
	return &out, nil
}

// AddAssignee inserts an assignee row for (taskID, userID) unless one
// already exists. Backed by a UNIQUE constraint plus ON CONFLICT DO
// NOTHING, so concurrent duplicate assignment requests cannot produce
// two rows. Returns true when a row was inserted.
func (r *TaskRepo) AddAssignee(ctx context.Context, taskID, userID string) (bool, error) {
	inserted := false
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, qErr := conn.Exec(ctx, `
			INSERT INTO task_assignees (id, task_id, user_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (task_id, user_id) DO NOTHING`,
			uuid.NewString(),
			taskID,
			userID,
			r.timeProvider.Now().UTC(),
		)
		if qErr != nil {
			return qErr
		}
		inserted = tag.RowsAffected() > 0
		return nil
	}); err != nil {
		return false, fmt.Errorf("failed to add assignee: %w", err)
	}
	return inserted, nil
}

// ListAssignees returns the assignee rows for a task in insertion order.
func (r *TaskRepo) ListAssignees(ctx context.Context, taskID string) ([]*model.TaskAssignee, error) {
	var out []model.TaskAssignee
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			SELECT id, task_id, user_id, created_at
			FROM task_assignees
			WHERE task_id = $1
			ORDER BY created_at ASC`, taskID)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.TaskAssignee])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}

	result := make([]*model.TaskAssignee, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}
