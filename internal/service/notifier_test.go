package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jobdeck/jobdeck/internal/domain/model"
	mailermock "github.com/jobdeck/jobdeck/internal/mocks/mailer"
	"github.com/jobdeck/jobdeck/internal/notify"
	"github.com/jobdeck/jobdeck/internal/testutil"
)

func usersByID(users ...*model.User) *mockUserRepository {
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mockUserRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.User, error) {
			if u, ok := byID[id]; ok {
				return u, nil
			}
			return nil, errors.New("user not found")
		},
		getByIDsFunc: func(_ context.Context, ids []string) ([]*model.User, error) {
			out := make([]*model.User, 0, len(ids))
			for _, id := range ids {
				if u, ok := byID[id]; ok {
					out = append(out, u)
				}
			}
			return out, nil
		},
		listFunc: func(context.Context) ([]*model.User, error) {
			return users, nil
		},
	}
}

func TestNotifierService_NotifyTaskAssigned_WritesAndSends(t *testing.T) {
	actor := testutil.NewUser("actor").WithName("Dana Kim").Build()
	assignee := testutil.NewUser("u1").WithName("Alice Chen").Build()

	notifications := &mockNotificationRepository{}
	mailer := &recordingMailer{}
	cache := &mockUnreadCache{}

	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(actor, assignee),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
		Unread:        cache,
		Mailer:        mailer,
		FromAddress:   "noreply@jobdeck.example",
		FromName:      "Jobdeck",
		BaseURL:       "https://app.jobdeck.example",
	})

	task := &model.Task{ID: "task-1", Title: "Draft proposal"}
	svc.NotifyTaskAssigned(context.Background(), task, &actor.ID, []string{"u1"})

	created := notifications.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "u1", created[0].UserID)
	assert.Equal(t, model.NotificationTypeTaskAssigned, created[0].Type)
	assert.Contains(t, created[0].Message, "Dana Kim")
	assert.Contains(t, created[0].Message, `"Draft proposal"`)
	require.NotNil(t, created[0].TaskID)
	assert.Equal(t, "task-1", *created[0].TaskID)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, assignee.Email, sent[0].ToAddress)
	assert.Equal(t, "noreply@jobdeck.example", sent[0].FromAddress)
	assert.Contains(t, sent[0].Subject, "Draft proposal")
	assert.Contains(t, sent[0].HTMLBody, "https://app.jobdeck.example/tasks/task-1")

	// Unread badge cache is invalidated for the recipient.
	assert.Equal(t, []string{"u1"}, cache.Invalidated())
}

func TestNotifierService_NotifyTaskAssigned_ActorNeverNotified(t *testing.T) {
	actor := testutil.NewUser("actor").Build()
	notifications := &mockNotificationRepository{}

	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(actor),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
	})

	task := &model.Task{ID: "task-1", Title: "Self-assigned"}
	svc.NotifyTaskAssigned(context.Background(), task, &actor.ID, []string{"actor"})

	assert.Empty(t, notifications.Created())
}

func TestNotifierService_NotifyJobAssigned_SendsThroughMailerPort(t *testing.T) {
	ctrl := gomock.NewController(t)

	actor := testutil.NewUser("actor").WithName("Dana Kim").Build()
	collab := testutil.NewUser("u1").WithName("Alice Chen").Build()

	sender := mailermock.NewMockMailer(ctrl)
	sender.EXPECT().
		Send(gomock.Any(), gomock.Cond(func(msg notify.Message) bool {
			return msg.ToAddress == collab.Email &&
				strings.Contains(msg.Subject, "#142 Spring campaign") &&
				strings.Contains(msg.HTMLBody, "https://app.jobdeck.example/jobs/job-1")
		})).
		Return(nil)

	notifications := &mockNotificationRepository{}
	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(actor, collab),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
		Mailer:        sender,
		FromAddress:   "noreply@jobdeck.example",
		BaseURL:       "https://app.jobdeck.example",
	})

	job := &model.Job{ID: "job-1", Number: 142, Title: "Spring campaign"}
	svc.NotifyJobAssigned(context.Background(), job, &actor.ID, []string{"u1"})

	created := notifications.Created()
	require.Len(t, created, 1)
	assert.Equal(t, model.NotificationTypeJobAssigned, created[0].Type)
}

func TestNotifierService_EmailFailureKeepsNotificationRow(t *testing.T) {
	assignee := testutil.NewUser("u1").Build()
	notifications := &mockNotificationRepository{}
	mailer := &recordingMailer{
		sendFunc: func(context.Context, notify.Message) error {
			return errors.New("provider is down")
		},
	}

	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(assignee),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
		Mailer:        mailer,
	})

	task := &model.Task{ID: "task-1", Title: "Resilient"}
	svc.NotifyTaskAssigned(context.Background(), task, nil, []string{"u1"})

	// The in-app write survives the email failure.
	assert.Len(t, notifications.Created(), 1)
	assert.Empty(t, mailer.Sent())
}

func TestNotifierService_NotificationWriteFailureStillAttemptsEmail(t *testing.T) {
	assignee := testutil.NewUser("u1").Build()
	notifications := &mockNotificationRepository{
		createFunc: func(context.Context, *model.CreateNotificationRequest) (*model.Notification, error) {
			return nil, errors.New("insert failed")
		},
	}
	mailer := &recordingMailer{}

	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(assignee),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
		Mailer:        mailer,
	})

	task := &model.Task{ID: "task-1", Title: "Independent effects"}
	svc.NotifyTaskAssigned(context.Background(), task, nil, []string{"u1"})

	assert.Len(t, mailer.Sent(), 1)
}

func TestNotifierService_OneRecipientFailureDoesNotBlockOthers(t *testing.T) {
	users := []*model.User{
		testutil.NewUser("u1").Build(),
		testutil.NewUser("u2").Build(),
		testutil.NewUser("u3").Build(),
	}

	var mu sync.Mutex
	written := map[string]bool{}
	notifications := &mockNotificationRepository{
		createFunc: func(_ context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
			if req.UserID == "u2" {
				return nil, errors.New("write failed for u2")
			}
			mu.Lock()
			written[req.UserID] = true
			mu.Unlock()
			return &model.Notification{ID: "n-" + req.UserID}, nil
		},
	}
	mailer := &recordingMailer{
		sendFunc: func(_ context.Context, msg notify.Message) error {
			if msg.ToAddress == "u2@example.com" {
				return errors.New("send failed for u2")
			}
			return nil
		},
	}

	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(users...),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
		Mailer:        mailer,
	})

	task := &model.Task{ID: "task-1", Title: "Batch isolation"}
	svc.NotifyTaskAssigned(context.Background(), task, nil, []string{"u1", "u2", "u3"})

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, written["u1"])
	assert.True(t, written["u3"])
	assert.False(t, written["u2"])
	assert.Len(t, mailer.Sent(), 2)
}

func TestNotifierService_DispatchDetachedFromCallerCancellation(t *testing.T) {
	assignee := testutil.NewUser("u1").Build()
	notifications := &mockNotificationRepository{}

	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(assignee),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
		Timeout:       5 * time.Second,
	})

	// The request context is already canceled; the fan-out must still run
	// because the primary mutation has committed.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := &model.Task{ID: "task-1", Title: "Detached"}
	svc.NotifyTaskAssigned(ctx, task, nil, []string{"u1"})

	assert.Len(t, notifications.Created(), 1)
}

func TestNotifierService_NotifyTaskCompleted(t *testing.T) {
	admin := testutil.NewUser("admin-1").WithName("Maya Ruiz").WithRole(model.UserRoleAdmin).Build()
	regular := testutil.NewUser("user-1").Build()
	actor := testutil.NewUser("actor").Build()

	jobID := "job-1"
	job := &model.Job{ID: jobID, Number: 142, Title: "Spring campaign"}

	jobs := &mockJobRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Job, error) {
			return job, nil
		},
		listCollaboratorsFunc: func(_ context.Context, id string) ([]*model.CollaboratorWithUser, error) {
			return []*model.CollaboratorWithUser{
				testutil.Collaborator(jobID, admin, model.CollaboratorRoleCollaborator),
				testutil.Collaborator(jobID, regular, model.CollaboratorRoleCollaborator),
			}, nil
		},
	}

	notifications := &mockNotificationRepository{}
	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(admin, regular, actor),
		Jobs:          jobs,
		Notifications: notifications,
	})

	task := &model.Task{ID: "task-1", JobID: &jobID, Title: "Ship it"}
	svc.NotifyTaskCompleted(context.Background(), task, &actor.ID)

	created := notifications.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "admin-1", created[0].UserID)
	assert.Equal(t, model.NotificationTypeTaskCompleted, created[0].Type)
	assert.Contains(t, created[0].Message, "#142 Spring campaign")
}

func TestNotifierService_NotifyTaskCompleted_StandaloneTaskIsSilent(t *testing.T) {
	notifications := &mockNotificationRepository{}
	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
	})

	task := &model.Task{ID: "task-1", Title: "No job"}
	svc.NotifyTaskCompleted(context.Background(), task, nil)

	assert.Empty(t, notifications.Created())
}

func TestNotifierService_NotifyCommentMentions(t *testing.T) {
	alice := testutil.NewUser("alice").WithName("Alice Chen").Build()
	bob := testutil.NewUser("bob").WithName("Bob Ortiz").Build()

	notifications := &mockNotificationRepository{}
	mailer := &recordingMailer{}
	taskID := "task-1"

	comments := &mockCommentRepository{
		listRecentContextFunc: func(_ context.Context, _ *model.Comment, limit int) ([]*model.Comment, error) {
			require.Equal(t, mentionContextLimit, limit)
			return []*model.Comment{
				{ID: "c0", AuthorID: "alice", Body: "earlier context"},
			}, nil
		},
	}
	tasks := &mockTaskRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Task, error) {
			return &model.Task{ID: taskID, Title: "Mention target"}, nil
		},
	}

	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(alice, bob),
		Jobs:          &mockJobRepository{},
		Tasks:         tasks,
		Comments:      comments,
		Notifications: notifications,
		Mailer:        mailer,
	})

	comment := &model.Comment{
		ID:       "c1",
		TaskID:   &taskID,
		AuthorID: "alice",
		Body:     "what do you think @bob?",
	}
	svc.NotifyCommentMentions(context.Background(), comment, alice)

	created := notifications.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "bob", created[0].UserID)
	assert.Equal(t, model.NotificationTypeCommentMention, created[0].Type)
	require.NotNil(t, created[0].CommentID)
	assert.Equal(t, "c1", *created[0].CommentID)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTMLBody, "earlier context")
	assert.Contains(t, sent[0].TextBody, "what do you think @bob?")
}

func TestNotifierService_LargeFanOutDeliversEveryone(t *testing.T) {
	const n = 40
	users := make([]*model.User, 0, n)
	ids := make([]string, 0, n)
	for i := range n {
		id := fmt.Sprintf("u%02d", i)
		users = append(users, testutil.NewUser(id).Build())
		ids = append(ids, id)
	}

	notifications := &mockNotificationRepository{}
	svc := NewNotifierService(NotifierServiceOptions{
		Users:         usersByID(users...),
		Jobs:          &mockJobRepository{},
		Notifications: notifications,
		MaxConcurrent: 4,
	})

	task := &model.Task{ID: "task-1", Title: "Wide"}
	svc.NotifyTaskAssigned(context.Background(), task, nil, ids)

	created := notifications.Created()
	require.Len(t, created, n)
	seen := make(map[string]bool, n)
	for _, c := range created {
		assert.False(t, seen[c.UserID], "duplicate delivery for %s", c.UserID)
		seen[c.UserID] = true
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("  short  ", 140))

	long := ""
	for range 30 {
		long += "workspace "
	}
	got := excerpt(long, 140)
	assert.LessOrEqual(t, len(got), 141+len("…"))
	assert.Contains(t, got, "…")
}

func TestExcerpt_NeverSplitsRunes(t *testing.T) {
	body := strings.Repeat("é", 100)
	for limit := 1; limit < 12; limit++ {
		got := excerpt(body, limit)
		assert.True(t, utf8.ValidString(got), "limit %d produced invalid UTF-8: %q", limit, got)
		assert.True(t, strings.HasSuffix(got, "…"))
	}

	// A body of emoji (4-byte runes) truncated mid-rune.
	got := excerpt(strings.Repeat("🚀", 50), 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("🚀", 2)+"…", got)
}
