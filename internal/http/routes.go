package httpx

import (
	"log/slog"
	"net/http"

	"github.com/jobdeck/jobdeck/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Users         *service.UserService
	Jobs          *service.JobService
	Tasks         *service.TaskService
	Comments      *service.CommentService
	Attachments   *service.AttachmentService
	Notifications *service.NotificationService
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	userHandlers := &UserHandlers{Svc: services.Users}
	jobHandlers := &JobHandlers{
		Svc:         services.Jobs,
		Comments:    services.Comments,
		Attachments: services.Attachments,
	}
	taskHandlers := &TaskHandlers{
		Svc:         services.Tasks,
		Attachments: services.Attachments,
		Comments:    services.Comments,
	}
	commentHandlers := &CommentHandlers{Svc: services.Comments, Attachments: services.Attachments}
	notificationHandlers := &NotificationHandlers{Svc: services.Notifications}

	registerUserRoutes(mux, userHandlers)
	registerJobRoutes(mux, jobHandlers)
	registerTaskRoutes(mux, taskHandlers)
	registerCommentRoutes(mux, commentHandlers)
	registerNotificationRoutes(mux, notificationHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerUserRoutes(mux *http.ServeMux, h *UserHandlers) {
	mux.HandleFunc("POST /api/users", h.CreateUser)
	mux.HandleFunc("GET /api/users", h.LookupUser)
	mux.HandleFunc("GET /api/users/{id}", h.GetUser)
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("POST /api/jobs", h.CreateJob)
	mux.HandleFunc("GET /api/jobs/{id}", h.GetJob)
	mux.HandleFunc("GET /api/jobs/{id}/collaborators", h.ListJobCollaborators)
	mux.HandleFunc("POST /api/jobs/{id}/collaborators", h.AddJobCollaborators)
	mux.HandleFunc("GET /api/jobs/{id}/comments", h.ListJobComments)
	mux.HandleFunc("GET /api/jobs/{id}/attachments", h.ListJobAttachments)
}

func registerTaskRoutes(mux *http.ServeMux, h *TaskHandlers) {
	mux.HandleFunc("POST /api/tasks", h.CreateTask)
	mux.HandleFunc("GET /api/tasks", h.ListTasks)
	mux.HandleFunc("GET /api/tasks/{id}", h.GetTask)
	mux.HandleFunc("POST /api/tasks/{id}/assign", h.AssignTask)
	mux.HandleFunc("POST /api/tasks/{id}/complete", h.CompleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/status", h.SetTaskStatus)
	mux.HandleFunc("GET /api/tasks/{id}/assignees", h.ListTaskAssignees)
	mux.HandleFunc("GET /api/tasks/{id}/comments", h.ListTaskComments)
	mux.HandleFunc("GET /api/tasks/{id}/attachments", h.ListTaskAttachments)
}

func registerCommentRoutes(mux *http.ServeMux, h *CommentHandlers) {
	mux.HandleFunc("POST /api/comments", h.CreateComment)
	mux.HandleFunc("POST /api/attachments", h.CreateAttachment)
}

func registerNotificationRoutes(mux *http.ServeMux, h *NotificationHandlers) {
	mux.HandleFunc("GET /api/notifications", h.ListNotifications)
	mux.HandleFunc("GET /api/notifications/unread-count", h.UnreadCount)
	mux.HandleFunc("POST /api/notifications/{id}/read", h.MarkRead)
	mux.HandleFunc("POST /api/notifications/read-all", h.MarkAllRead)
}
