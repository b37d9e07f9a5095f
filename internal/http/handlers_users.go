package httpx

import (
	"errors"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/service"
)

// UserHandlers provides HTTP handlers for user operations.
type UserHandlers struct {
	Svc *service.UserService
}

// CreateUser handles HTTP requests to create a user.
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, user)
}

// LookupUser handles HTTP requests to fetch a user by email.
func (h *UserHandlers) LookupUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_query", Err: errors.New("email is required")})
		return
	}

	user, err := h.Svc.GetByEmail(r.Context(), email)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// GetUser handles HTTP requests to fetch a user by ID.
func (h *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("user id is required")})
		return
	}

	user, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		RenderServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
