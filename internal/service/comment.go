package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// CommentService owns comment creation and the mention side effects
// that follow it.
type CommentService struct {
	comments core.CommentRepository
	users    core.UserRepository
	notifier *NotifierService
	logger   *slog.Logger
}

// CommentServiceOptions configures the comment service.
type CommentServiceOptions struct {
	Comments core.CommentRepository
	Users    core.UserRepository
	Notifier *NotifierService
	Logger   *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(opts CommentServiceOptions) *CommentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentService{
		comments: opts.Comments,
		users:    opts.Users,
		notifier: opts.Notifier,
		logger:   logger,
	}
}

// Create inserts a comment, then resolves @mentions in its body and
// notifies the mentioned users. The comment row is the primary
// mutation; a mention pipeline failure never surfaces here.
func (s *CommentService) Create(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error) {
	if req == nil {
		return nil, errors.New("create comment request is required")
	}

	comment, err := s.comments.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if s.notifier != nil {
		author, aerr := s.users.GetByID(ctx, comment.AuthorID)
		if aerr != nil {
			s.logger.WarnContext(ctx, "failed to load comment author for mentions",
				"comment_id", comment.ID, "error", aerr)
		}
		s.notifier.NotifyCommentMentions(ctx, comment, author)
	}

	return comment, nil
}

// ListForTask returns a task's comments, oldest first.
func (s *CommentService) ListForTask(ctx context.Context, taskID string) ([]*model.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

// ListForJob returns a job's comments, oldest first.
func (s *CommentService) ListForJob(ctx context.Context, jobID string) ([]*model.Comment, error) {
	return s.comments.ListByJob(ctx, jobID)
}
