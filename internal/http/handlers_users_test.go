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

	"github.com/jobdeck/jobdeck/internal/data"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/service"
)

// stubUserRepo is a minimal in-memory user repository for exercising
// handlers through a real service.
type stubUserRepo struct {
	users []*model.User
}

func (s *stubUserRepo) Create(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
	u := &model.User{
		ID:        "user-new",
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, data.ErrUserNotFound
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, data.ErrUserNotFound
}

func (s *stubUserRepo) GetByIDs(_ context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, err := s.GetByID(context.Background(), id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) List(_ context.Context) ([]*model.User, error) {
	return s.users, nil
}

func newUserHandlers(repo *stubUserRepo) *UserHandlers {
	return &UserHandlers{Svc: service.NewUserService(repo)}
}

func TestUserHandlers_CreateUser(t *testing.T) {
	h := newUserHandlers(&stubUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"alice@example.com"}`))
	rec := httptest.NewRecorder()
	h.CreateUser(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.UserRoleUser, user.Role, "role defaults to USER")
}

func TestUserHandlers_LookupUser(t *testing.T) {
	repo := &stubUserRepo{users: []*model.User{
		{ID: "u1", Email: "alice@example.com"},
	}}
	h := newUserHandlers(repo)

	t.Run("by email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.LookupUser(rec, httptest.NewRequest(http.MethodGet, "/api/users?email=alice@example.com", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var user model.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("email required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.LookupUser(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown email is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.LookupUser(rec, httptest.NewRequest(http.MethodGet, "/api/users?email=nobody@example.com", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
