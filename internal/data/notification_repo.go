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

// NotificationRepo provides database operations for notifications.
type NotificationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNotificationRepo creates a new NotificationRepo with real time provider.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNotificationRepoWithTimeProvider creates a new NotificationRepo with a custom time provider (useful for tests).
func NewNotificationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NotificationRepo {
	return &NotificationRepo{DB: db, timeProvider: tp}
}

const notificationColumns = "id, user_id, type, title, message, task_id, job_id, comment_id, actor_id, read, read_at, created_at"

// Create persists exactly one notification row. Idempotency is not
// enforced; callers invoke this once per event per recipient.
func (r *NotificationRepo) Create(
	ctx context.Context,
	req *model.CreateNotificationRequest,
) (*model.Notification, error) {
	if req == nil {
		return nil, errors.New("create notification request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, `
			INSERT INTO notifications (id, user_id, type, title, message, task_id, job_id, comment_id, actor_id, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10)
			RETURNING `+notificationColumns,
			uuid.NewString(),
			req.UserID,
			req.Type,
			strings.TrimSpace(req.Title),
			req.Message,
			req.TaskID,
			req.JobID,
			req.CommentID,
			req.ActorID,
			r.timeProvider.Now().UTC(),
		)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Notification])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &out, nil
}

// List retrieves a user's notifications matching the given options, newest first.
func (r *NotificationRepo) List(
	ctx context.Context,
	opts *model.NotificationListOptions,
) ([]*model.Notification, error) {
	if opts == nil || strings.TrimSpace(opts.UserID) == "" {
		return nil, errors.New("user_id is required")
	}

	builder := psql.Select(strings.Split(notificationColumns, ", ")...).
		From("notifications").
		Where(sq.Eq{"user_id": opts.UserID}).
		OrderBy("created_at DESC")

	if opts.UnreadOnly {
		builder = builder.Where(sq.Eq{"read": false})
	}
	if opts.Type != nil {
		builder = builder.Where(sq.Eq{"type": *opts.Type})
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	builder = builder.Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notification list query: %w", err)
	}

	var out []model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		out, qErr = pgx.CollectRows(rows, pgx.RowToStructByName[model.Notification])
		return qErr
	}); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	result := make([]*model.Notification, len(out))
	for i := range out {
		result[i] = &out[i]
	}
	return result, nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	count := 0
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT count(*) FROM notifications WHERE user_id = $1 AND read = false`,
			userID).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification read, scoped to its recipient so a
// user cannot mark another user's notification. Returns true when the
// row was updated.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	updated := false
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, qErr := conn.Exec(ctx, `
			UPDATE notifications
			SET read = true, read_at = $3
			WHERE id = $1 AND user_id = $2 AND read = false`,
			id, userID, r.timeProvider.Now().UTC())
		if qErr != nil {
			return qErr
		}
		updated = tag.RowsAffected() > 0
		return nil
	}); err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return updated, nil
}

// MarkAllRead marks every unread notification for a user as read and
// returns how many rows were updated.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	updated := 0
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, qErr := conn.Exec(ctx, `
			UPDATE notifications
			SET read = true, read_at = $2
			WHERE user_id = $1 AND read = false`,
			userID, r.timeProvider.Now().UTC())
		if qErr != nil {
			return qErr
		}
		updated = int(tag.RowsAffected())
		return nil
	}); err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}
