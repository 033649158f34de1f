package main

import (
	"context"

	"github.com/tmatias/planwise/backend/internal/config"
	"github.com/tmatias/planwise/backend/internal/handlers"
	"github.com/tmatias/planwise/backend/internal/models"
	"github.com/tmatias/planwise/backend/internal/services"
	"github.com/tmatias/planwise/backend/internal/utils"
	"github.com/tmatias/planwise/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	notifyQueue     services.NotifyQueue
	worker          *services.Worker
	reminderService *services.ReminderService

	authHandler        *handlers.AuthHandler
	userHandler        *handlers.UserHandler
	projectHandler     *handlers.ProjectHandler
	taskHandler        *handlers.TaskHandler
	memberHandler      *handlers.MemberHandler
	activityLogHandler *handlers.ActivityLogHandler
	healthHandler      *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	db := models.GetDB()

	// Initialize activity logger
	services.InitActivityLogger(db)

	// Start activity log cleanup scheduler
	services.StartLogCleanupScheduler(db)

	// Notification delivery via email
	emailService := services.NewEmailService(db)

	// Initialize notify queue (uses Redis if enabled, otherwise sync mode)
	notifyQueue := services.InitNotifyQueue(cfg)
	if syncQueue, ok := notifyQueue.(*services.SyncQueue); ok {
		syncQueue.SetInviteProcessor(func(_ context.Context, n *services.InviteNotification) error {
			return emailService.SendInvitation(n)
		})
		syncQueue.SetReminderProcessor(func(_ context.Context, r *services.DueReminder) error {
			return emailService.SendDueReminder(r)
		})
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetInviteProcessor(func(_ context.Context, n *services.InviteNotification) error {
				return emailService.SendInvitation(n)
			})
			worker.SetReminderProcessor(func(_ context.Context, r *services.DueReminder) error {
				return emailService.SendDueReminder(r)
			})
			worker.Start()
		}
	}

	// Core services
	membership := services.NewMembershipService(db)
	projectService := services.NewProjectService(db, membership)
	taskService := services.NewTaskService(db, membership)
	memberService := services.NewMemberService(db, membership, notifyQueue)
	authService := services.NewAuthService(db, &cfg.JWT)

	// Due-date reminder scheduler
	workCalendar := services.NewWorkCalendarService()
	reminderService := services.NewReminderService(db, workCalendar, notifyQueue)
	reminderService.StartScheduler()

	return &appServices{
		notifyQueue:     notifyQueue,
		worker:          worker,
		reminderService: reminderService,

		authHandler:        handlers.NewAuthHandler(db, &cfg.JWT),
		userHandler:        handlers.NewUserHandler(db, authService, memberService),
		projectHandler:     handlers.NewProjectHandler(projectService),
		taskHandler:        handlers.NewTaskHandler(taskService),
		memberHandler:      handlers.NewMemberHandler(memberService),
		activityLogHandler: handlers.NewActivityLogHandler(db),
		healthHandler:      handlers.NewHealthHandler(),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.reminderService.StopScheduler()
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.notifyQueue != nil {
		s.notifyQueue.Close()
	}
}
