package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// NotificationService serves a user's notification feed and read-state
// mutations. The unread badge count is cached in Redis and recounted
// from Postgres on a miss; the cache is optional.
type NotificationService struct {
	notifications core.NotificationRepository
	unread        core.UnreadCountCache
	logger        *slog.Logger
}

// NotificationServiceOptions configures the notification service.
type NotificationServiceOptions struct {
	Notifications core.NotificationRepository
	Unread        core.UnreadCountCache
	Logger        *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(opts NotificationServiceOptions) *NotificationService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		notifications: opts.Notifications,
		unread:        opts.Unread,
		logger:        logger,
	}
}

// List retrieves a user's notifications matching the given options.
func (s *NotificationService) List(
	ctx context.Context,
	opts *model.NotificationListOptions,
) ([]*model.Notification, error) {
	return s.notifications.List(ctx, opts)
}

// UnreadCount returns a user's unread notification count, preferring
// the cache. Cache failures degrade to a database count.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.New("user id is required")
	}

	if s.unread != nil {
		count, found, err := s.unread.Get(ctx, userID)
		if err != nil {
			s.logger.WarnContext(ctx, "unread cache read failed",
				"user_id", userID, "error", err)
		} else if found {
			return count, nil
		}
	}

	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	if s.unread != nil {
		if err := s.unread.Set(ctx, userID, count); err != nil {
			s.logger.DebugContext(ctx, "unread cache write failed",
				"user_id", userID, "error", err)
		}
	}
	return count, nil
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	updated, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	if updated {
		s.invalidate(ctx, userID)
	}
	return updated, nil
}

// MarkAllRead marks all of the user's unread notifications read and
// returns how many were updated.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	updated, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	if updated > 0 {
		s.invalidate(ctx, userID)
	}
	return updated, nil
}

func (s *NotificationService) invalidate(ctx context.Context, userID string) {
	if s.unread == nil {
		return
	}
	if err := s.unread.Invalidate(ctx, userID); err != nil {
		s.logger.DebugContext(ctx, "unread cache invalidation failed",
			"user_id", userID, "error", err)
	}
}
