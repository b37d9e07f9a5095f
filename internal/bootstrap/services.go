package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jobdeck/jobdeck/config"
	"github.com/jobdeck/jobdeck/internal/core"
	"github.com/jobdeck/jobdeck/internal/data"
	"github.com/jobdeck/jobdeck/internal/notify"
	"github.com/jobdeck/jobdeck/internal/notify/httpmail"
	"github.com/jobdeck/jobdeck/internal/notify/smtpmail"
	"github.com/jobdeck/jobdeck/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Users         *service.UserService
	Jobs          *service.JobService
	Tasks         *service.TaskService
	Comments      *service.CommentService
	Attachments   *service.AttachmentService
	Notifications *service.NotificationService
	Notifier      *service.NotifierService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	UserRepo         *data.UserRepo
	JobRepo          *data.JobRepo
	TaskRepo         *data.TaskRepo
	CommentRepo      *data.CommentRepo
	AttachmentRepo   *data.AttachmentRepo
	NotificationRepo *data.NotificationRepo
	UnreadCache      core.UnreadCountCache
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(deps ServiceDeps) *serviceRepositories {
	repos := &serviceRepositories{
		UserRepo:         data.NewUserRepo(deps.DB),
		JobRepo:          data.NewJobRepo(deps.DB),
		TaskRepo:         data.NewTaskRepo(deps.DB),
		CommentRepo:      data.NewCommentRepo(deps.DB),
		AttachmentRepo:   data.NewAttachmentRepo(deps.DB),
		NotificationRepo: data.NewNotificationRepo(deps.DB),
	}
	if deps.RedisClient != nil {
		repos.UnreadCache = data.NewRedisUnreadCountRepo(deps.RedisClient, deps.Config.Redis.UnreadTTL)
	}
	return repos
}

// BuildMailer constructs the outbound email transport selected by
// config. A nil return with nil error means email is disabled.
//
//nolint:ireturn // the driver switch is the point; callers only see notify.Mailer.
func BuildMailer(cfg config.EmailConfig, logger *slog.Logger) (notify.Mailer, error) {
	switch cfg.Driver {
	case config.EmailDriverHTTP:
		client, err := httpmail.NewClient(httpmail.Config{
			Endpoint:   cfg.HTTP.Endpoint,
			APIKey:     cfg.HTTP.APIKey,
			Timeout:    cfg.HTTP.Timeout,
			RetryLimit: cfg.HTTP.RetryLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("build http mailer: %w", err)
		}
		return client, nil
	case config.EmailDriverSMTP:
		client, err := smtpmail.NewClient(smtpmail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("build smtp mailer: %w", err)
		}
		return client, nil
	case config.EmailDriverNone:
		if logger != nil {
			logger.Info("outbound email disabled; notifications are in-app only")
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown email driver %q", cfg.Driver)
	}
}

// BuildServices wires repositories and services from their dependencies.
func BuildServices(deps ServiceDeps) (*ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos := buildRepositories(deps)

	mailer, err := BuildMailer(deps.Config.Email, logger)
	if err != nil {
		return nil, err
	}

	notifier := service.NewNotifierService(service.NotifierServiceOptions{
		Users:         repos.UserRepo,
		Jobs:          repos.JobRepo,
		Tasks:         repos.TaskRepo,
		Comments:      repos.CommentRepo,
		Notifications: repos.NotificationRepo,
		Unread:        repos.UnreadCache,
		Mailer:        mailer,
		BaseURL:       deps.Config.HTTP.BaseURL,
		FromAddress:   deps.Config.Email.FromAddress,
		FromName:      deps.Config.Email.FromName,
		MaxConcurrent: deps.Config.Notify.MaxConcurrent,
		Timeout:       deps.Config.Notify.DispatchTimeout,
		Logger:        logger,
	})

	enrollment := service.NewEnrollmentService(service.EnrollmentServiceOptions{
		Jobs:   repos.JobRepo,
		Logger: logger,
	})

	return &ServiceContainer{
		Users: service.NewUserService(repos.UserRepo),
		Jobs: service.NewJobService(service.JobServiceOptions{
			Jobs:     repos.JobRepo,
			Notifier: notifier,
			Logger:   logger,
		}),
		Tasks: service.NewTaskService(service.TaskServiceOptions{
			Tasks:      repos.TaskRepo,
			Enrollment: enrollment,
			Notifier:   notifier,
			Logger:     logger,
		}),
		Comments: service.NewCommentService(service.CommentServiceOptions{
			Comments: repos.CommentRepo,
			Users:    repos.UserRepo,
			Notifier: notifier,
			Logger:   logger,
		}),
		Attachments: service.NewAttachmentService(service.AttachmentServiceOptions{
			Attachments: repos.AttachmentRepo,
			Comments:    repos.CommentRepo,
			Logger:      logger,
		}),
		Notifications: service.NewNotificationService(service.NotificationServiceOptions{
			Notifications: repos.NotificationRepo,
			Unread:        repos.UnreadCache,
			Logger:        logger,
		}),
		Notifier: notifier,
	}, nil
}
