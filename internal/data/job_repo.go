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

// JobRepo provides database operations for jobs and their collaborator set.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo with real time provider.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobRepoWithTimeProvider creates a new JobRepo with a custom time provider (useful for tests).
func NewJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: tp}
}

const jobColumns = "id, number, title, created_by, created_at, updated_at"

// Create inserts a new job. The job number is assigned by the database.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO jobs (id, title, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			RETURNING `+jobColumns,
			uuid.NewString(),
			strings.TrimSpace(req.Title),
			req.CreatedBy,
			now,
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+jobColumns+" FROM jobs WHERE id = $1", id)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &out, nil
}

// AddCollaborator inserts a collaborator row for (jobID, userID) unless
// one already exists. The UNIQUE constraint plus ON CONFLICT DO NOTHING
// makes this safe under concurrent duplicate requests; an existing
// row's role is never changed. Returns true when a row was inserted.
func (r *JobRepo) AddCollaborator(
	ctx context.Context,
	jobID, userID string,
	role model.CollaboratorRole,
) (bool, error) {
	if !role.Valid() {
		return false, fmt.Errorf("invalid collaborator role: %q", role)
	}

	inserted := false
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, qErr := conn.Exec(ctx, `
			INSERT INTO job_collaborators (id, job_id, user_id, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (job_id, user_id) DO NOTHING`,
			uuid.NewString(),
			jobID,
			userID,
			role,
			r.timeProvider.Now().UTC(),
		)
		if qErr != nil {
			return qErr
		}
		inserted = tag.RowsAffected() > 0
		return nil
	}); err != nil {
		return false, fmt.Errorf("failed to add collaborator: %w", err)
	}
	return inserted, nil
}

// ListCollaborators returns the collaborator rows for a job joined with
// their user records, ordered by enrollment time.
func (r *JobRepo) ListCollaborators(ctx context.Context, jobID string) ([]*model.CollaboratorWithUser, error) {
	var out []*model.CollaboratorWithUser
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			SELECT
				c.id, c.job_id, c.user_id, c.role, c.created_at,
				u.id AS u_id, u.email AS u_email, u.name AS u_name,
				u.role AS u_role, u.created_at AS u_created_at
			FROM job_collaborators c
			JOIN users u ON u.id = c.user_id
			WHERE c.job_id = $1
			ORDER BY c.created_at ASC`, jobID)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		for rows.Next() {
			var cw model.CollaboratorWithUser
			if scanErr := rows.Scan(
				&cw.ID, &cw.JobID, &cw.UserID, &cw.Role, &cw.CreatedAt,
				&cw.User.ID, &cw.User.Email, &cw.User.Name,
				&cw.User.Role, &cw.User.CreatedAt,
			); scanErr != nil {
				return scanErr
			}
			out = append(out, &cw)
		}
		return rows.Err()
	}); err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	return out, nil
}
