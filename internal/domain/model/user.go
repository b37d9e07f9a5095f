//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// User represents a workspace member.
type User struct {
	ID        string    `json:"id"         db:"id"`
	Email     string    `json:"email"      db:"email"`
	Name      *string   `json:"name,omitempty" db:"name"`
	Role      UserRole  `json:"role"       db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DisplayName returns the user's name, falling back to the email
// address when no name is set.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		return *u.Name
	}
	return u.Email
}

// UserRole represents the workspace-level role of a user.
type UserRole string

const (
	UserRoleOwner UserRole = "OWNER"
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

// Valid returns true if the user role is valid.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleOwner, UserRoleAdmin, UserRoleUser:
		return true
	default:
		return false
	}
}

// String returns the string representation of the user role.
func (r UserRole) String() string {
	return string(r)
}

// CreateUserRequest carries the fields needed to create a user.
type CreateUserRequest struct {
	Email string   `json:"email"`
	Name  *string  `json:"name,omitempty"`
	Role  UserRole `json:"role,omitempty"`
}

// Validate checks the request for required fields and valid values.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("email is invalid")
	}
	if r.Role == "" {
		r.Role = UserRoleUser
	}
	if !r.Role.Valid() {
		return errors.New("invalid user role")
	}
	return nil
}
