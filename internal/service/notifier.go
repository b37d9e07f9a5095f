package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/domain/model"
	"github.com/jobdeck/jobdeck/internal/notify"
)

// mentionContextLimit is how many surrounding comments a mention email carries.
const mentionContextLimit = 3

// NotifierService runs the side-effect pipeline after a primary
// mutation has committed: it resolves recipients, writes one in-app
// notification per recipient, and sends one best-effort email per
// recipient. Nothing here can fail the mutation that triggered it;
// every error is logged and swallowed, and a failure for one recipient
// never blocks the others.
type NotifierService struct {
	users         core.UserRepository
	jobs          core.JobRepository
	tasks         core.TaskRepository
	comments      core.CommentRepository
	notifications core.NotificationRepository
	unread        core.UnreadCountCache
	mailer        notify.Mailer
	baseURL       string
	fromAddress   string
	fromName      string
	maxConcurrent int
	timeout       time.Duration
	logger        *slog.Logger
}

// NotifierServiceOptions configures the notifier service. Mailer and
// Unread are optional; a nil Mailer disables email entirely.
type NotifierServiceOptions struct {
	Users         core.UserRepository
	Jobs          core.JobRepository
	Tasks         core.TaskRepository
	Comments      core.CommentRepository
	Notifications core.NotificationRepository
	Unread        core.UnreadCountCache
	Mailer        notify.Mailer
	BaseURL       string
	FromAddress   string
	FromName      string
	MaxConcurrent int
	Timeout       time.Duration
	Logger        *slog.Logger
}

// NewNotifierService creates a new notifier service.
// If BaseURL is empty, it defaults to "http://localhost:8080" to ensure
// a consistent default with the HTTPConfig.
func NewNotifierService(opts NotifierServiceOptions) *NotifierService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 8
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &NotifierService{
		users:         opts.Users,
		jobs:          opts.Jobs,
		tasks:         opts.Tasks,
		comments:      opts.Comments,
		notifications: opts.Notifications,
		unread:        opts.Unread,
		mailer:        opts.Mailer,
		baseURL:       baseURL,
		fromAddress:   opts.FromAddress,
		fromName:      opts.FromName,
		maxConcurrent: maxConcurrent,
		timeout:       timeout,
		logger:        logger,
	}
}

// delivery pairs one recipient with the notification row and optional
// email prepared for them.
type delivery struct {
	recipient    *model.User
	notification *model.CreateNotificationRequest
	email        *notify.Message
}

// NotifyTaskAssigned notifies the newly assigned users of a task. Only
// the new assignees are notified, never existing ones, and never the
// actor.
func (s *NotifierService) NotifyTaskAssigned(
	ctx context.Context,
	task *model.Task,
	actorID *string,
	assignedIDs []string,
) {
	if task == nil {
		return
	}

	recipients := ResolveRecipients(Event{
		Kind:            EventTaskAssigned,
		ActorID:         actorID,
		AssignedUserIDs: assignedIDs,
	})
	if len(recipients) == 0 {
		return
	}

	job := s.loadJob(ctx, task.JobID)
	actorName := s.actorName(ctx, actorID)

	users, err := s.users.GetByIDs(ctx, recipients)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load assignment recipients",
			"task_id", task.ID, "error", err)
		return
	}

	deliveries := make([]delivery, 0, len(users))
	for _, u := range users {
		message := fmt.Sprintf("%s assigned you %q", actorName, task.Title)
		if job != nil {
			message += " on " + job.Reference()
		}

		d := delivery{
			recipient: u,
			notification: &model.CreateNotificationRequest{
				UserID:  u.ID,
				Type:    model.NotificationTypeTaskAssigned,
				Title:   "New task assigned",
				Message: message,
				TaskID:  &task.ID,
				JobID:   task.JobID,
				ActorID: actorID,
			},
		}

		if s.mailer != nil {
			subject, html, text, rerr := notify.RenderAssignment(notify.AssignmentEmail{
				RecipientName: u.DisplayName(),
				ActorName:     actorName,
				TaskTitle:     task.Title,
				JobReference:  job.Reference(),
				DueDate:       task.DueDate,
				TargetURL:     s.taskURL(task.ID),
			})
			if rerr != nil {
				s.logger.ErrorContext(ctx, "failed to render assignment email",
					"task_id", task.ID, "user_id", u.ID, "error", rerr)
			} else {
				d.email = s.message(u, subject, html, text)
			}
		}

		deliveries = append(deliveries, d)
	}

	s.dispatch(ctx, model.NotificationTypeTaskAssigned, deliveries)
}

// NotifyJobAssigned notifies users who were just added to a job's
// collaborator set directly (not via task assignment).
func (s *NotifierService) NotifyJobAssigned(
	ctx context.Context,
	job *model.Job,
	actorID *string,
	addedIDs []string,
) {
	if job == nil {
		return
	}

	recipients := ResolveRecipients(Event{
		Kind:            EventJobAssigned,
		ActorID:         actorID,
		AssignedUserIDs: addedIDs,
	})
	if len(recipients) == 0 {
		return
	}

	actorName := s.actorName(ctx, actorID)

	users, err := s.users.GetByIDs(ctx, recipients)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load job assignment recipients",
			"job_id", job.ID, "error", err)
		return
	}

	deliveries := make([]delivery, 0, len(users))
	for _, u := range users {
		d := delivery{
			recipient: u,
			notification: &model.CreateNotificationRequest{
				UserID:  u.ID,
				Type:    model.NotificationTypeJobAssigned,
				Title:   "Added to a job",
				Message: fmt.Sprintf("%s added you to %s", actorName, job.Reference()),
				JobID:   &job.ID,
				ActorID: actorID,
			},
		}

		if s.mailer != nil {
			subject, html, text, rerr := notify.RenderAssignment(notify.AssignmentEmail{
				RecipientName: u.DisplayName(),
				ActorName:     actorName,
				TaskTitle:     job.Title,
				JobReference:  job.Reference(),
				TargetURL:     s.jobURL(job.ID),
			})
			if rerr != nil {
				s.logger.ErrorContext(ctx, "failed to render job assignment email",
					"job_id", job.ID, "user_id", u.ID, "error", rerr)
			} else {
				d.email = s.message(u, subject, html, text)
			}
		}

		deliveries = append(deliveries, d)
	}

	s.dispatch(ctx, model.NotificationTypeJobAssigned, deliveries)
}

// NotifyTaskCompleted notifies the admin collaborators of the task's
// job that the task is done. A standalone task has no collaborators to
// notify; that is a valid empty result, not an error.
func (s *NotifierService) NotifyTaskCompleted(
	ctx context.Context,
	task *model.Task,
	actorID *string,
) {
	if task == nil {
		return
	}
	if task.JobID == nil {
		s.logger.DebugContext(ctx, "task has no job, skipping completion notifications",
			"task_id", task.ID)
		return
	}

	collaborators, err := s.jobs.ListCollaborators(ctx, *task.JobID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load collaborators for completion",
			"task_id", task.ID, "job_id", *task.JobID, "error", err)
		return
	}

	recipients := ResolveRecipients(Event{
		Kind:          EventTaskCompleted,
		ActorID:       actorID,
		Collaborators: collaborators,
	})
	if len(recipients) == 0 {
		return
	}

	byID := make(map[string]*model.User, len(collaborators))
	for _, c := range collaborators {
		u := c.User
		byID[c.UserID] = &u
	}

	job := s.loadJob(ctx, task.JobID)
	actorName := s.actorName(ctx, actorID)

	deliveries := make([]delivery, 0, len(recipients))
	for _, id := range recipients {
		u := byID[id]
		if u == nil {
			continue
		}

		message := fmt.Sprintf("%s completed %q", actorName, task.Title)
		if job != nil {
			message += " on " + job.Reference()
		}

		d := delivery{
			recipient: u,
			notification: &model.CreateNotificationRequest{
				UserID:  u.ID,
				Type:    model.NotificationTypeTaskCompleted,
				Title:   "Task completed",
				Message: message,
				TaskID:  &task.ID,
				JobID:   task.JobID,
				ActorID: actorID,
			},
		}

		if s.mailer != nil {
			subject, html, text, rerr := notify.RenderCompletion(notify.CompletionEmail{
				RecipientName: u.DisplayName(),
				ActorName:     actorName,
				TaskTitle:     task.Title,
				JobReference:  job.Reference(),
				TargetURL:     s.taskURL(task.ID),
			})
			if rerr != nil {
				s.logger.ErrorContext(ctx, "failed to render completion email",
					"task_id", task.ID, "user_id", u.ID, "error", rerr)
			} else {
				d.email = s.message(u, subject, html, text)
			}
		}

		deliveries = append(deliveries, d)
	}

	s.dispatch(ctx, model.NotificationTypeTaskCompleted, deliveries)
}

// NotifyCommentMentions notifies every user mentioned in a comment
// body. The author is never notified, even when the body matches them.
func (s *NotifierService) NotifyCommentMentions(
	ctx context.Context,
	comment *model.Comment,
	author *model.User,
) {
	if comment == nil {
		return
	}

	candidates, err := s.users.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load users for mention resolution",
			"comment_id", comment.ID, "error", err)
		return
	}

	mentioned := MentionedUsers(comment, candidates)
	if len(mentioned) == 0 {
		return
	}

	actorName := "Someone"
	if author != nil {
		actorName = author.DisplayName()
	}

	var task *model.Task
	if comment.TaskID != nil {
		if task, err = s.tasks.GetByID(ctx, *comment.TaskID); err != nil {
			s.logger.WarnContext(ctx, "failed to load task for mention email",
				"comment_id", comment.ID, "error", err)
			task = nil
		}
	}
	job := s.loadJob(ctx, comment.JobID)

	context3 := s.mentionContext(ctx, comment)
	targetURL := s.commentURL(comment)

	taskTitle := ""
	if task != nil {
		taskTitle = task.Title
	}

	deliveries := make([]delivery, 0, len(mentioned))
	for _, u := range mentioned {
		d := delivery{
			recipient: u,
			notification: &model.CreateNotificationRequest{
				UserID:    u.ID,
				Type:      model.NotificationTypeCommentMention,
				Title:     "You were mentioned",
				Message:   fmt.Sprintf("%s mentioned you: %s", actorName, excerpt(comment.Body, 140)),
				TaskID:    comment.TaskID,
				JobID:     comment.JobID,
				CommentID: &comment.ID,
				ActorID:   &comment.AuthorID,
			},
		}

		if s.mailer != nil {
			subject, html, text, rerr := notify.RenderMention(notify.MentionEmail{
				RecipientName: u.DisplayName(),
				ActorName:     actorName,
				TaskTitle:     taskTitle,
				JobReference:  job.Reference(),
				CommentBody:   comment.Body,
				Context:       context3,
				TargetURL:     targetURL,
			})
			if rerr != nil {
				s.logger.ErrorContext(ctx, "failed to render mention email",
					"comment_id", comment.ID, "user_id", u.ID, "error", rerr)
			} else {
				d.email = s.message(u, subject, html, text)
			}
		}

		deliveries = append(deliveries, d)
	}

	s.dispatch(ctx, model.NotificationTypeCommentMention, deliveries)
}

// dispatch fans deliveries out across recipients with bounded
// concurrency. The notification write and the email send for one
// recipient are independent best-effort side effects: a failed write
// does not stop the email attempt, a failed email never removes the
// written row, and neither affects any other recipient. The fan-out is
// detached from the caller's cancellation because the primary mutation
// has already committed, and bounded by the configured timeout instead.
func (s *NotifierService) dispatch(
	ctx context.Context,
	eventType model.NotificationType,
	deliveries []delivery,
) {
	if len(deliveries) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)
	for _, d := range deliveries {
		g.Go(func() error {
			s.deliverOne(ctx, eventType, d)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.InfoContext(ctx, "dispatched notifications",
		"type", eventType,
		"recipients", len(deliveries))
}

func (s *NotifierService) deliverOne(
	ctx context.Context,
	eventType model.NotificationType,
	d delivery,
) {
	if _, err := s.notifications.Create(ctx, d.notification); err != nil {
		s.logger.ErrorContext(ctx, "failed to write notification",
			"type", eventType,
			"user_id", d.recipient.ID,
			"error", err)
	} else if s.unread != nil {
		if err := s.unread.Invalidate(ctx, d.recipient.ID); err != nil {
			s.logger.DebugContext(ctx, "failed to invalidate unread cache",
				"user_id", d.recipient.ID, "error", err)
		}
	}

	if s.mailer == nil || d.email == nil {
		return
	}
	if err := s.mailer.Send(ctx, *d.email); err != nil {
		s.logger.ErrorContext(ctx, "failed to send notification email",
			"type", eventType,
			"user_id", d.recipient.ID,
			"to", d.email.ToAddress,
			"error", err)
	}
}

func (s *NotifierService) message(u *model.User, subject, html, text string) *notify.Message {
	return &notify.Message{
		FromAddress: s.fromAddress,
		FromName:    s.fromName,
		ToAddress:   u.Email,
		ToName:      u.DisplayName(),
		Subject:     subject,
		HTMLBody:    html,
		TextBody:    text,
	}
}

func (s *NotifierService) mentionContext(
	ctx context.Context,
	comment *model.Comment,
) []notify.CommentContext {
	siblings, err := s.comments.ListRecentContext(ctx, comment, mentionContextLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load context comments for mention email",
			"comment_id", comment.ID, "error", err)
		return nil
	}
	if len(siblings) == 0 {
		return nil
	}

	authorIDs := make([]string, 0, len(siblings))
	for _, c := range siblings {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load context comment authors",
			"comment_id", comment.ID, "error", err)
	}
	names := make(map[string]string, len(authors))
	for _, a := range authors {
		names[a.ID] = a.DisplayName()
	}

	out := make([]notify.CommentContext, 0, len(siblings))
	for _, c := range siblings {
		name := names[c.AuthorID]
		if name == "" {
			name = "Unknown"
		}
		out = append(out, notify.CommentContext{
			AuthorName: name,
			Body:       c.Body,
			CreatedAt:  c.CreatedAt,
		})
	}
	return out
}

// loadJob fetches a job for display purposes. A nil result is fine;
// callers render without the job reference.
func (s *NotifierService) loadJob(ctx context.Context, jobID *string) *model.Job {
	if jobID == nil {
		return nil
	}
	job, err := s.jobs.GetByID(ctx, *jobID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load job for notification",
			"job_id", *jobID, "error", err)
		return nil
	}
	return job
}

func (s *NotifierService) actorName(ctx context.Context, actorID *string) string {
	if actorID == nil {
		return "Someone"
	}
	actor, err := s.users.GetByID(ctx, *actorID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load actor for notification",
			"actor_id", *actorID, "error", err)
		return "Someone"
	}
	return actor.DisplayName()
}

func (s *NotifierService) taskURL(taskID string) string {
	return strings.TrimRight(s.baseURL, "/") + "/tasks/" + taskID
}

func (s *NotifierService) jobURL(jobID string) string {
	return strings.TrimRight(s.baseURL, "/") + "/jobs/" + jobID
}

func (s *NotifierService) commentURL(comment *model.Comment) string {
	if comment.TaskID != nil {
		return s.taskURL(*comment.TaskID)
	}
	if comment.JobID != nil {
		return s.jobURL(*comment.JobID)
	}
	return strings.TrimRight(s.baseURL, "/")
}

// excerpt truncates a comment body for the in-app notification message.
func excerpt(body string, limit int) string {
	body = strings.TrimSpace(body)
	if len(body) <= limit {
		return body
	}
	// Back off to a rune boundary so the cut never splits a multibyte
	// character.
	end := limit
	for end > 0 && !utf8.RuneStart(body[end]) {
		end--
	}
	cut := body[:end]
	if idx := strings.LastIndexByte(cut, ' '); idx > limit/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
