package service

import (
	"context"
	"fmt"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// UserService owns user lookups and creation. Authentication lives
// outside this service; callers arrive with an already-established
// identity.
type UserService struct {
	users core.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(users core.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create inserts a user.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	user, err := s.users.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}
