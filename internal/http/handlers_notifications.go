package httpx

import (
	"errors"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/service"
)

// NotificationHandlers provides HTTP handlers for notification operations.
//
// The acting user is taken from the user_id query param (or the
// request body for mutations); session plumbing is out of scope here
// and sits in front of the API.
type NotificationHandlers struct {
	Svc *service.NotificationService
}

// ListNotifications handles HTTP requests to list a user's notifications.
func (h *NotificationHandlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("user_id is required")})
		return
	}

	opts := &model.NotificationListOptions{UserID: userID}
	opts.Limit, opts.Offset = ParseLimitOffset(r, defaultListLimit, maxListLimit)
	opts.UnreadOnly = r.URL.Query().Get("unread") == "true"
	if v := r.URL.Query().Get("type"); v != "" {
		t := model.NotificationType(v)
		if !t.Valid() {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("invalid notification type")})
			return
		}
		opts.Type = &t
	}

	notifications, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	unread, err := h.Svc.UnreadCount(r.Context(), userID)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// UnreadCount handles HTTP requests for a user's unread notification count.
func (h *NotificationHandlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("user_id is required")})
		return
	}

	count, err := h.Svc.UnreadCount(r.Context(), userID)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"unread_count": count})
}

type markReadRequest struct {
	UserID string `json:"user_id"`
}

// MarkRead handles HTTP requests to mark one notification read. Marking
// an already-read notification is a no-op.
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("notification id is required")})
		return
	}

	var req markReadRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("user_id is required")})
		return
	}

	updated, err := h.Svc.MarkRead(r.Context(), id, req.UserID)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// MarkAllRead handles HTTP requests to mark all of a user's
// notifications read.
func (h *NotificationHandlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: errors.New("user_id is required")})
		return
	}

	updated, err := h.Svc.MarkAllRead(r.Context(), req.UserID)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
