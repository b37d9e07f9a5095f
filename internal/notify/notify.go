// Package notify defines the outbound email port used by the
// notification pipeline and the canonical payloads rendered into
// messages. Transports live in the httpmail and smtpmail subpackages.
package notify

import (
	"context"
	"time"
)

// Message is a fully rendered outbound email.
type Message struct {
	FromAddress string
	FromName    string
	ToAddress   string
	ToName      string
	Subject     string
	HTMLBody    string
	TextBody    string
}

// Mailer describes a transport capable of delivering one rendered message.
// Delivery is best-effort; callers log and swallow errors.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to the Mailer interface (useful for tests).
type MailerFunc func(ctx context.Context, msg Message) error

// Send implements the Mailer interface.
func (f MailerFunc) Send(ctx context.Context, msg Message) error {
	if f == nil {
		return nil
	}
	return f(ctx, msg)
}

// CommentContext is one surrounding comment included in mention emails.
type CommentContext struct {
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// AssignmentEmail captures the data rendered into a task/job assignment email.
type AssignmentEmail struct {
	RecipientName string
	ActorName     string
	TaskTitle     string
	JobReference  string // empty for standalone tasks
	DueDate       *time.Time
	TargetURL     string
}

// CompletionEmail captures the data rendered into a task completion email.
type CompletionEmail struct {
	RecipientName string
	ActorName     string
	TaskTitle     string
	JobReference  string
	TargetURL     string
}

// MentionEmail captures the data rendered into a comment mention email.
// Context holds up to three most-recent other comments on the same
// task or job, newest first.
type MentionEmail struct {
	RecipientName string
	ActorName     string
	TaskTitle     string // empty for job-level comments
	JobReference  string
	CommentBody   string
	Context       []CommentContext
	TargetURL     string
}
