package routes

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/kmutai/sms-dispatch-service/environments"
	"github.com/kmutai/sms-dispatch-service/handlers"
	"github.com/kmutai/sms-dispatch-service/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	messageHandler *handlers.MessageHandler,
	taskHandler *handlers.TaskHandler,
	reconcilerHandler *handlers.ReconcilerHandler,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 base group
	v1 := e.Group("/api/v1")

	// Message and task routes share the messages API key
	messages := v1.Group("/messages", middlewares.APIKeyAuth(cfg.Auth.MessagesAPIKey))

	messages.POST("/bulk", messageHandler.SendBulkMessages)
	messages.GET("", messageHandler.ListMessages)
	messages.GET("/stats", messageHandler.GetStats)
	messages.GET("/cached", messageHandler.GetCachedOutcomes)

	tasks := v1.Group("/tasks", middlewares.APIKeyAuth(cfg.Auth.MessagesAPIKey))

	tasks.GET("/:taskId", taskHandler.GetTaskStatus)

	// Reconciler routes with their own API key
	reconcilerGroup := v1.Group("/reconciler", middlewares.APIKeyAuth(cfg.Auth.ReconcilerAPIKey))

	reconcilerGroup.POST("/start", reconcilerHandler.StartReconciler)
	reconcilerGroup.POST("/stop", reconcilerHandler.StopReconciler)
	reconcilerGroup.GET("/status", reconcilerHandler.GetReconcilerStatus)
}
