// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	m := mailer.NewMockMailer(ctrl)
//	m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for the Mailer interface from internal/notify.
//go:generate go run go.uber.org/mock/mockgen -package=mailer -destination=mailer/mailer.go github.com/jobdeck/jobdeck/internal/notify Mailer
