package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/service"
)

// stubNotificationRepo is a minimal in-memory notification repository
// for exercising handlers through a real service.
type stubNotificationRepo struct {
	notifications []*model.Notification
	listOpts      *model.NotificationListOptions
	markedRead    []string
}

func (s *stubNotificationRepo) Create(_ context.Context, _ *model.CreateNotificationRequest) (*model.Notification, error) {
	return nil, nil
}

func (s *stubNotificationRepo) List(_ context.Context, opts *model.NotificationListOptions) ([]*model.Notification, error) {
	s.listOpts = opts
	var out []*model.Notification
	for _, n := range s.notifications {
		if n.UserID != opts.UserID {
			continue
		}
		if opts.UnreadOnly && n.ReadAt != nil {
			continue
		}
		if opts.Type != nil && n.Type != *opts.Type {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *stubNotificationRepo) MarkRead(_ context.Context, id, userID string) (bool, error) {
	for _, n := range s.notifications {
		if n.ID == id && n.UserID == userID && n.ReadAt == nil {
			now := time.Now()
			n.Read = true
			n.ReadAt = &now
			s.markedRead = append(s.markedRead, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	updated := 0
	now := time.Now()
	for _, n := range s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			n.Read = true
			n.ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

func notificationFixtures() []*model.Notification {
	read := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Notification{
		{ID: "n1", UserID: "u1", Type: model.NotificationTypeTaskAssigned, Message: "Bob assigned you a task"},
		{ID: "n2", UserID: "u1", Type: model.NotificationTypeCommentMention, Message: "Bob mentioned you", Read: true, ReadAt: &read},
		{ID: "n3", UserID: "u2", Type: model.NotificationTypeTaskAssigned, Message: "not yours"},
	}
}

func newNotificationHandlers(repo *stubNotificationRepo) *NotificationHandlers {
	return &NotificationHandlers{
		Svc: service.NewNotificationService(service.NotificationServiceOptions{Notifications: repo}),
	}
}

func TestNotificationHandlers_List(t *testing.T) {
	repo := &stubNotificationRepo{notifications: notificationFixtures()}
	h := newNotificationHandlers(repo)

	t.Run("requires user_id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("lists with unread count", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?user_id=u1", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Notifications []*model.Notification `json:"notifications"`
			UnreadCount   int                   `json:"unread_count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.Notifications, 2)
		assert.Equal(t, 1, body.UnreadCount)
	})

	t.Run("unread filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?user_id=u1&unread=true", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, repo.listOpts.UnreadOnly)
	})

	t.Run("invalid type rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?user_id=u1&type=DIGEST", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("type filter passed through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/notifications?user_id=u1&type=TASK_ASSIGNED", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, repo.listOpts.Type)
		assert.Equal(t, model.NotificationTypeTaskAssigned, *repo.listOpts.Type)
	})
}

func TestNotificationHandlers_UnreadCount(t *testing.T) {
	h := newNotificationHandlers(&stubNotificationRepo{notifications: notificationFixtures()})

	rec := httptest.NewRecorder()
	h.UnreadCount(rec, httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count?user_id=u1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread_count":1}`, rec.Body.String())
}

func TestNotificationHandlers_MarkRead(t *testing.T) {
	repo := &stubNotificationRepo{notifications: notificationFixtures()}
	h := newNotificationHandlers(repo)

	markRead := func(id, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/notifications/"+id+"/read", strings.NewReader(body))
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.MarkRead(rec, req)
		return rec
	}

	t.Run("marks unread notification", func(t *testing.T) {
		rec := markRead("n1", `{"user_id":"u1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"updated":true}`, rec.Body.String())
		assert.Equal(t, []string{"n1"}, repo.markedRead)
	})

	t.Run("second mark is a no-op", func(t *testing.T) {
		rec := markRead("n1", `{"user_id":"u1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"updated":false}`, rec.Body.String())
	})

	t.Run("other user's notification untouched", func(t *testing.T) {
		rec := markRead("n3", `{"user_id":"u1"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"updated":false}`, rec.Body.String())
	})

	t.Run("user_id required", func(t *testing.T) {
		rec := markRead("n1", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotificationHandlers_MarkAllRead(t *testing.T) {
	repo := &stubNotificationRepo{notifications: notificationFixtures()}
	h := newNotificationHandlers(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/read-all", strings.NewReader(`{"user_id":"u1"}`))
	rec := httptest.NewRecorder()
	h.MarkAllRead(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())
}
