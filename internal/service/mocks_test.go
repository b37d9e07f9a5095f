package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/notify"
)

// Hand-written test doubles for the repository ports, in the same
// func-field style used across the codebase. Methods without a
// configured func return "not implemented" so tests fail loudly when
// they exercise an unexpected path.

type mockUserRepository struct {
	createFunc     func(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	getByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	getByIDsFunc   func(ctx context.Context, ids []string) ([]*model.User, error)
	listFunc       func(ctx context.Context) ([]*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if m.getByIDsFunc != nil {
		return m.getByIDsFunc(ctx, ids)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) List(ctx context.Context) ([]*model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

type mockJobRepository struct {
	createFunc            func(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	getByIDFunc           func(ctx context.Context, id string) (*model.Job, error)
	addCollaboratorFunc   func(ctx context.Context, jobID, userID string, role model.CollaboratorRole) (bool, error)
	listCollaboratorsFunc func(ctx context.Context, jobID string) ([]*model.CollaboratorWithUser, error)
}

func (m *mockJobRepository) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockJobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockJobRepository) AddCollaborator(
	ctx context.Context,
	jobID, userID string,
	role model.CollaboratorRole,
) (bool, error) {
	if m.addCollaboratorFunc != nil {
		return m.addCollaboratorFunc(ctx, jobID, userID, role)
	}
	return false, errors.New("not implemented")
}

func (m *mockJobRepository) ListCollaborators(
	ctx context.Context,
	jobID string,
) ([]*model.CollaboratorWithUser, error) {
	if m.listCollaboratorsFunc != nil {
		return m.listCollaboratorsFunc(ctx, jobID)
	}
	return nil, errors.New("not implemented")
}

type mockTaskRepository struct {
	createFunc        func(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.Task, error)
	listFunc          func(ctx context.Context, opts *model.TaskListOptions) ([]*model.Task, error)
	setStatusFunc     func(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error)
	addAssigneeFunc   func(ctx context.Context, taskID, userID string) (bool, error)
	listAssigneesFunc func(ctx context.Context, taskID string) ([]*model.TaskAssignee, error)
}

func (m *mockTaskRepository) Create(ctx context.Context, req *model.CreateTaskRequest) (*model.Task, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) List(ctx context.Context, opts *model.TaskListOptions) ([]*model.Task, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) SetStatus(
	ctx context.Context,
	id string,
	status model.TaskStatus,
) (*model.Task, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskRepository) AddAssignee(ctx context.Context, taskID, userID string) (bool, error) {
	if m.addAssigneeFunc != nil {
		return m.addAssigneeFunc(ctx, taskID, userID)
	}
	return false, errors.New("not implemented")
}

func (m *mockTaskRepository) ListAssignees(ctx context.Context, taskID string) ([]*model.TaskAssignee, error) {
	if m.listAssigneesFunc != nil {
		return m.listAssigneesFunc(ctx, taskID)
	}
	return nil, errors.New("not implemented")
}

type mockCommentRepository struct {
	createFunc            func(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error)
	getByIDFunc           func(ctx context.Context, id string) (*model.Comment, error)
	listByTaskFunc        func(ctx context.Context, taskID string) ([]*model.Comment, error)
	listByJobFunc         func(ctx context.Context, jobID string) ([]*model.Comment, error)
	listRecentContextFunc func(ctx context.Context, comment *model.Comment, limit int) ([]*model.Comment, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCommentRepository) ListByTask(ctx context.Context, taskID string) ([]*model.Comment, error) {
	if m.listByTaskFunc != nil {
		return m.listByTaskFunc(ctx, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCommentRepository) ListByJob(ctx context.Context, jobID string) ([]*model.Comment, error) {
	if m.listByJobFunc != nil {
		return m.listByJobFunc(ctx, jobID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCommentRepository) ListRecentContext(
	ctx context.Context,
	comment *model.Comment,
	limit int,
) ([]*model.Comment, error) {
	if m.listRecentContextFunc != nil {
		return m.listRecentContextFunc(ctx, comment, limit)
	}
	return nil, errors.New("not implemented")
}

type mockAttachmentRepository struct {
	createFunc     func(ctx context.Context, req *model.CreateAttachmentRequest) (*model.Attachment, error)
	listByTaskFunc func(ctx context.Context, taskID string) ([]*model.Attachment, error)
	listByJobFunc  func(ctx context.Context, jobID string) ([]*model.Attachment, error)
}

func (m *mockAttachmentRepository) Create(
	ctx context.Context,
	req *model.CreateAttachmentRequest,
) (*model.Attachment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAttachmentRepository) ListByTask(ctx context.Context, taskID string) ([]*model.Attachment, error) {
	if m.listByTaskFunc != nil {
		return m.listByTaskFunc(ctx, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAttachmentRepository) ListByJob(ctx context.Context, jobID string) ([]*model.Attachment, error) {
	if m.listByJobFunc != nil {
		return m.listByJobFunc(ctx, jobID)
	}
	return nil, errors.New("not implemented")
}

// mockNotificationRepository records created notifications. Create is
// safe for concurrent use because dispatch fans out across goroutines.
type mockNotificationRepository struct {
	mu      sync.Mutex
	created []*model.CreateNotificationRequest

	createFunc      func(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
	listFunc        func(ctx context.Context, opts *model.NotificationListOptions) ([]*model.Notification, error)
	countUnreadFunc func(ctx context.Context, userID string) (int, error)
	markReadFunc    func(ctx context.Context, id, userID string) (bool, error)
	markAllReadFunc func(ctx context.Context, userID string) (int, error)
}

func (m *mockNotificationRepository) Create(
	ctx context.Context,
	req *model.CreateNotificationRequest,
) (*model.Notification, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	m.mu.Lock()
	m.created = append(m.created, req)
	m.mu.Unlock()
	return &model.Notification{
		ID:      "n-" + req.UserID,
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}, nil
}

func (m *mockNotificationRepository) Created() []*model.CreateNotificationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.CreateNotificationRequest, len(m.created))
	copy(out, m.created)
	return out
}

func (m *mockNotificationRepository) List(
	ctx context.Context,
	opts *model.NotificationListOptions,
) ([]*model.Notification, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	if m.countUnreadFunc != nil {
		return m.countUnreadFunc(ctx, userID)
	}
	return 0, errors.New("not implemented")
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id, userID)
	}
	return false, errors.New("not implemented")
}

func (m *mockNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if m.markAllReadFunc != nil {
		return m.markAllReadFunc(ctx, userID)
	}
	return 0, errors.New("not implemented")
}

type mockUnreadCache struct {
	mu          sync.Mutex
	invalidated []string

	getFunc func(ctx context.Context, userID string) (int, bool, error)
	setFunc func(ctx context.Context, userID string, count int) error
}

func (m *mockUnreadCache) Get(ctx context.Context, userID string) (int, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return 0, false, nil
}

func (m *mockUnreadCache) Set(ctx context.Context, userID string, count int) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, userID, count)
	}
	return nil
}

func (m *mockUnreadCache) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	m.invalidated = append(m.invalidated, userID)
	m.mu.Unlock()
	return nil
}

func (m *mockUnreadCache) Invalidated() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.invalidated))
	copy(out, m.invalidated)
	return out
}

// recordingMailer captures every send. Concurrency-safe for the same
// reason as mockNotificationRepository.
type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message

	sendFunc func(ctx context.Context, msg notify.Message) error
}

func (m *recordingMailer) Send(ctx context.Context, msg notify.Message) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

func (m *recordingMailer) Sent() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func strPtr(s string) *string { return &s }
