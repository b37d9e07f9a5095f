package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// CommentAttachmentWindow is the maximum distance between a comment's
// creation time and an attachment's upload time for the two to be
// associated. The schema stores no direct link, so the association is
// recomputed from this window on every read.
const CommentAttachmentWindow = 30 * time.Second

// CorrelateAttachments associates attachments with the comments they
// were most plausibly uploaded alongside: same uploader as the
// comment's author, upload time within CommentAttachmentWindow of the
// comment's creation time. The result maps comment ID to attachments
// in input order.
//
// This is a pure function of its inputs. It is a heuristic: two
// comments by the same user inside the window both claim the same
// attachment, and an attachment uploaded outside any window matches
// nothing.
func CorrelateAttachments(
	comments []*model.Comment,
	attachments []*model.Attachment,
) map[string][]*model.Attachment {
	if len(comments) == 0 || len(attachments) == 0 {
		return nil
	}

	out := make(map[string][]*model.Attachment)
	for _, c := range comments {
		if c == nil {
			continue
		}
		for _, a := range attachments {
			if a == nil || a.UploadedBy == nil || *a.UploadedBy != c.AuthorID {
				continue
			}
			delta := a.CreatedAt.Sub(c.CreatedAt)
			if delta < 0 {
				delta = -delta
			}
			if delta < CommentAttachmentWindow {
				out[c.ID] = append(out[c.ID], a)
			}
		}
	}
	return out
}

// AttachmentService records upload metadata and serves read-time
// attachment views with comment correlation applied.
type AttachmentService struct {
	attachments core.AttachmentRepository
	comments    core.CommentRepository
	logger      *slog.Logger
}

// AttachmentServiceOptions configures the attachment service.
type AttachmentServiceOptions struct {
	Attachments core.AttachmentRepository
	Comments    core.CommentRepository
	Logger      *slog.Logger
}

// NewAttachmentService creates a new attachment service.
func NewAttachmentService(opts AttachmentServiceOptions) *AttachmentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AttachmentService{
		attachments: opts.Attachments,
		comments:    opts.Comments,
		logger:      logger,
	}
}

// Record stores metadata for an uploaded file.
func (s *AttachmentService) Record(
	ctx context.Context,
	req *model.CreateAttachmentRequest,
) (*model.Attachment, error) {
	att, err := s.attachments.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("record attachment: %w", err)
	}
	return att, nil
}

// AttachmentView is a listing of attachments plus the inferred
// comment association.
type AttachmentView struct {
	Attachments []*model.Attachment            `json:"attachments"`
	ByComment   map[string][]*model.Attachment `json:"by_comment,omitempty"`
}

// ListForTask returns a task's attachments with comment correlation.
func (s *AttachmentService) ListForTask(ctx context.Context, taskID string) (*AttachmentView, error) {
	attachments, err := s.attachments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task attachments: %w", err)
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task comments: %w", err)
	}

	return &AttachmentView{
		Attachments: attachments,
		ByComment:   CorrelateAttachments(comments, attachments),
	}, nil
}

// ListForJob returns a job's attachments with comment correlation.
func (s *AttachmentService) ListForJob(ctx context.Context, jobID string) (*AttachmentView, error) {
	attachments, err := s.attachments.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job attachments: %w", err)
	}

	comments, err := s.comments.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job comments: %w", err)
	}

	return &AttachmentView{
		Attachments: attachments,
		ByComment:   CorrelateAttachments(comments, attachments),
	}, nil
}
