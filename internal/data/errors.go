package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")

	ErrJobNotFound = errors.New("job not found")

	ErrTaskNotFound = errors.New("task not found")

	ErrCommentNotFound = errors.New("comment not found")

	ErrNotificationNotFound = errors.New("notification not found")
)
