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

// UserRepo provides database operations for users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const userColumns = "id, email, name, role, created_at"

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (id, email, name, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			uuid.NewString(),
			strings.ToLower(strings.TrimSpace(req.Email)),
			req.Name,
			req.Role,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "lower(email) = lower($1)", email)
}

func (r *UserRepo) getBy(ctx context.Context, where, arg string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+userColumns+" FROM users WHERE "+where, arg)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return qErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &out, nil
}

// GetByIDs retrieves users for the given IDs. Missing IDs are silently
// skipped; callers that care about completeness compare lengths.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var out []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+userColumns+" FROM users WHERE id = ANY($1)", ids)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}

	result := make([]*model.User, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}

// List retrieves all users ordered by creation time. Used by mention
// resolution, which matches tokens against every known user.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	var out []model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx,
			"SELECT "+userColumns+" FROM users ORDER BY created_at ASC")
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]*model.User, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}
