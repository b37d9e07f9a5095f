package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// TaskService owns task mutations. Each mutation commits its primary
// change first and only then hands off to the notifier; a side-effect
// failure can never surface as a failed task operation.
type TaskService struct {
	tasks      core.TaskRepository
	enrollment *EnrollmentService
	notifier   *NotifierService
	logger     *slog.Logger
}

// TaskServiceOptions configures the task service.
type TaskServiceOptions struct {
	Tasks      core.TaskRepository
	Enrollment *EnrollmentService
	Notifier   *NotifierService
	Logger     *slog.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(opts TaskServiceOptions) *TaskService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		tasks:      opts.Tasks,
		enrollment: opts.Enrollment,
		notifier:   opts.Notifier,
		logger:     logger,
	}
}

// Create inserts a task and applies any initial assignees. The task row
// is the primary mutation; assignee rows, collaborator enrollment and
// notifications follow it.
func (s *TaskService) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	if req == nil {
		return nil, errors.New("create task request is required")
	}

	task, err := s.tasks.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if len(req.AssigneeIDs) > 0 {
		s.applyAssignment(ctx, task, req.CreatedBy, req.AssigneeIDs)
	}

	return task, nil
}

// Assign adds users to a task's assignee set. Already-assigned users
// are skipped silently and receive no notification.
func (s *TaskService) Assign(
	ctx context.Context,
	taskID string,
	actorID *string,
	userIDs []string,
) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}

	s.applyAssignment(ctx, task, actorID, userIDs)
	return task, nil
}

// applyAssignment inserts assignee rows, then runs the downstream side
// effects for the users that were actually new: collaborator
// enrollment (when the task has a job) and assignment notifications.
func (s *TaskService) applyAssignment(
	ctx context.Context,
	task *model.Task,
	actorID *string,
	userIDs []string,
) {
	var newlyAssigned []string
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		inserted, err := s.tasks.AddAssignee(ctx, task.ID, userID)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to add assignee",
				"task_id", task.ID, "user_id", userID, "error", err)
			continue
		}
		if inserted {
			newlyAssigned = append(newlyAssigned, userID)
		}
	}
	if len(newlyAssigned) == 0 {
		return
	}

	if task.JobID != nil && s.enrollment != nil {
		if _, err := s.enrollment.EnsureCollaborators(ctx, *task.JobID, newlyAssigned); err != nil {
			// Enrollment failure is logged but does not stop
			// notifications; the assignment itself already committed.
			s.logger.ErrorContext(ctx, "collaborator auto-enrollment failed",
				"task_id", task.ID, "job_id", *task.JobID, "error", err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyTaskAssigned(ctx, task, actorID, newlyAssigned)
	}
}

// Complete marks a task DONE and notifies the job's admin collaborators.
func (s *TaskService) Complete(ctx context.Context, taskID string, actorID *string) (*model.Task, error) {
	task, err := s.tasks.SetStatus(ctx, taskID, model.TaskStatusDone)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyTaskCompleted(ctx, task, actorID)
	}
	return task, nil
}

// SetStatus updates a task's status without completion side effects.
// Moving to DONE goes through Complete so notifications fire.
func (s *TaskService) SetStatus(
	ctx context.Context,
	taskID string,
	actorID *string,
	status model.TaskStatus,
) (*model.Task, error) {
	if status == model.TaskStatusDone {
		return s.Complete(ctx, taskID, actorID)
	}
	task, err := s.tasks.SetStatus(ctx, taskID, status)
	if err != nil {
		return nil, fmt.Errorf("set task status: %w", err)
	}
	return task, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, taskID string) (*model.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

// List retrieves tasks matching the given options.
func (s *TaskService) List(ctx context.Context, opts *model.TaskListOptions) ([]*model.Task, error) {
	return s.tasks.List(ctx, opts)
}

// Assignees lists a task's assignee rows.
func (s *TaskService) Assignees(ctx context.Context, taskID string) ([]*model.TaskAssignee, error) {
	return s.tasks.ListAssignees(ctx, taskID)
}
