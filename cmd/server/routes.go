package main

import (
	"github.com/gin-gonic/gin"
	"github.com/tmatias/planwise/backend/internal/middleware"
	"github.com/tmatias/planwise/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/signup", svc.authHandler.SignUp)
			auth.POST("/signin", svc.authHandler.SignIn)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		protected.Use(middleware.AuditLog())
		{
			// Auth
			protected.POST("/auth/signout", svc.authHandler.SignOut)

			// Users
			protected.GET("/users", svc.userHandler.Me)
			protected.GET("/users/projects", svc.userHandler.Projects)
			protected.PATCH("/users", svc.userHandler.UpdatePassword)
			protected.POST("/users/invitations/:projectId", svc.userHandler.AcceptInvitation)

			// Projects
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects/:projectId", svc.projectHandler.GetByID)
			protected.POST("/projects/:projectId/start", svc.projectHandler.Start)
			protected.PATCH("/projects/:projectId", svc.projectHandler.Update)
			protected.DELETE("/projects/:projectId", svc.projectHandler.Delete)

			// Tasks
			protected.POST("/projects/:projectId/tasks", svc.taskHandler.Add)
			protected.GET("/projects/:projectId/tasks", svc.taskHandler.List)
			protected.PATCH("/projects/:projectId/tasks/:taskId", svc.taskHandler.Update)
			protected.POST("/projects/:projectId/tasks/:taskId/start", svc.taskHandler.Start)
			protected.POST("/projects/:projectId/tasks/:taskId/complete", svc.taskHandler.Complete)
			protected.DELETE("/projects/:projectId/tasks/:taskId", svc.taskHandler.Delete)

			// Members
			protected.POST("/projects/:projectId/invite", svc.memberHandler.Invite)
			protected.GET("/projects/:projectId/members", svc.memberHandler.List)
			protected.PATCH("/projects/:projectId/members", svc.memberHandler.UpdateRole)
			protected.DELETE("/projects/:projectId/members/:memberId", svc.memberHandler.Remove)

			// Activity logs
			protected.GET("/activity-logs", svc.activityLogHandler.List)
		}
	}
}
