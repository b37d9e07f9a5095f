package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// EnrollmentService adds task assignees as job collaborators so later
// access-control checks on the job succeed.
type EnrollmentService struct {
	jobs   core.JobRepository
	logger *slog.Logger
}

// EnrollmentServiceOptions configures the enrollment service.
type EnrollmentServiceOptions struct {
	Jobs   core.JobRepository
	Logger *slog.Logger
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(opts EnrollmentServiceOptions) *EnrollmentService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentService{
		jobs:   opts.Jobs,
		logger: logger,
	}
}

// EnsureCollaborators enrolls each user as a COLLABORATOR on the job
// unless a collaborator row already exists. Existing rows keep their
// role; an OWNER or VIEWER reassigned to a task stays OWNER or VIEWER.
// Returns the IDs that were newly enrolled.
func (s *EnrollmentService) EnsureCollaborators(
	ctx context.Context,
	jobID string,
	userIDs []string,
) ([]string, error) {
	if jobID == "" || len(userIDs) == 0 {
		return nil, nil
	}

	var enrolled []string
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		inserted, err := s.jobs.AddCollaborator(ctx, jobID, userID, model.CollaboratorRoleCollaborator)
		if err != nil {
			return enrolled, fmt.Errorf("enroll collaborator %s on job %s: %w", userID, jobID, err)
		}
		if inserted {
			s.logger.InfoContext(ctx, "auto-enrolled job collaborator",
				"job_id", jobID,
				"user_id", userID)
			enrolled = append(enrolled, userID)
		}
	}
	return enrolled, nil
}
