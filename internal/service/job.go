package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// JobService owns job creation and direct collaborator management.
type JobService struct {
	jobs     core.JobRepository
	notifier *NotifierService
	logger   *slog.Logger
}

// JobServiceOptions configures the job service.
type JobServiceOptions struct {
	Jobs     core.JobRepository
	Notifier *NotifierService
	Logger   *slog.Logger
}

// NewJobService creates a new job service.
func NewJobService(opts JobServiceOptions) *JobService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{
		jobs:     opts.Jobs,
		notifier: opts.Notifier,
		logger:   logger,
	}
}

// Create inserts a job. The creator is enrolled as its OWNER
// collaborator.
func (s *JobService) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	job, err := s.jobs.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if req.CreatedBy != nil {
		if _, err := s.jobs.AddCollaborator(ctx, job.ID, *req.CreatedBy, model.CollaboratorRoleOwner); err != nil {
			s.logger.ErrorContext(ctx, "failed to enroll job owner",
				"job_id", job.ID, "user_id", *req.CreatedBy, "error", err)
		}
	}
	return job, nil
}

// Get retrieves a job by ID.
func (s *JobService) Get(ctx context.Context, jobID string) (*model.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// Collaborators lists a job's collaborators with their user records.
func (s *JobService) Collaborators(ctx context.Context, jobID string) ([]*model.CollaboratorWithUser, error) {
	return s.jobs.ListCollaborators(ctx, jobID)
}

// AddCollaborators adds users to a job with the given role and notifies
// the ones that were actually new. Existing collaborators keep their
// role and receive nothing.
func (s *JobService) AddCollaborators(
	ctx context.Context,
	jobID string,
	actorID *string,
	userIDs []string,
	role model.CollaboratorRole,
) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("add collaborators: %w", err)
	}

	var added []string
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		inserted, err := s.jobs.AddCollaborator(ctx, jobID, userID, role)
		if err != nil {
			return fmt.Errorf("add collaborator %s: %w", userID, err)
		}
		if inserted {
			added = append(added, userID)
		}
	}

	if len(added) > 0 && s.notifier != nil {
		s.notifier.NotifyJobAssigned(ctx, job, actorID, added)
	}
	return nil
}
