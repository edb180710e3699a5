package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kmutai/sms-dispatch-service/environments"
	"github.com/kmutai/sms-dispatch-service/handlers"
	"github.com/kmutai/sms-dispatch-service/internal/reconciler"
	"github.com/kmutai/sms-dispatch-service/internal/repository"
	"github.com/kmutai/sms-dispatch-service/internal/service"
	"github.com/kmutai/sms-dispatch-service/internal/taskqueue"
	"github.com/kmutai/sms-dispatch-service/pkg/database"
	"github.com/kmutai/sms-dispatch-service/pkg/logger"
	"github.com/kmutai/sms-dispatch-service/pkg/provider"
	"github.com/kmutai/sms-dispatch-service/pkg/redis"
	"github.com/kmutai/sms-dispatch-service/pkg/validator"
	"github.com/kmutai/sms-dispatch-service/routes"

	_ "github.com/kmutai/sms-dispatch-service/docs" // swagger docs
)

// @title SMS Dispatch Service API
// @version 1.0
// @description Bulk SMS dispatch with asynchronous delivery and per-task status tracking

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Auth.MessagesAPIKey == "" {
		logger.Fatalf("MESSAGES_API_KEY is required but not set")
	}
	if cfg.Auth.ReconcilerAPIKey == "" {
		logger.Fatalf("RECONCILER_API_KEY is required but not set")
	}

	logger.Infof("Starting SMS Dispatch Service...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed data
	if os.Getenv("SEED_DATA") == "true" {
		if err := database.SeedTestData(db); err != nil {
			logger.Warnf("Failed to seed test data: %v", err)
		}
	}

	// Init redis
	var redisClient *redis.Client
	redisClient, err = redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, outcome caching disabled: %v", err)
		redisClient = nil
	}

	// Initialize provider client. A missing endpoint is not fatal: dispatches
	// short-circuit into failed records until one is configured.
	providerClient := provider.NewClient(cfg.Provider)
	if providerClient.Endpoint() == "" {
		logger.Warnf("SMS_API_ENDPOINT not set; every dispatch will fail until configured")
	} else {
		logger.Infof("Provider configured: %s", providerClient.Endpoint())
	}

	// Initialize repository
	messageRepo := repository.NewMessageRepository(db)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize task queue
	queue := taskqueue.New(cfg.Dispatch.Workers, cfg.Dispatch.QueueSize)
	queue.Start(ctx)

	// Initialize service. The cache argument must be an untyped nil when Redis
	// is unavailable, otherwise the interface value would wrap a nil pointer.
	var dispatchService *service.DispatchService
	if redisClient != nil {
		dispatchService = service.NewDispatchService(messageRepo, providerClient, queue, redisClient, cfg.Dispatch)
	} else {
		dispatchService = service.NewDispatchService(messageRepo, providerClient, queue, nil, cfg.Dispatch)
	}

	// Initialize reconciler
	recon := reconciler.New(dispatchService, cfg.Reconciler)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisClient, queue)
	messageHandler := handlers.NewMessageHandler(dispatchService)
	taskHandler := handlers.NewTaskHandler(dispatchService)
	reconcilerHandler := handlers.NewReconcilerHandler(recon, ctx)

	// The reconciler is opt-in: resubmitting stale tasks trades the baseline
	// single-attempt semantics for at-least-once delivery.
	if environments.GetEnvAsBool("AUTO_START_RECONCILER", false) {
		logger.Infof("Auto-starting reconciler...")
		if err := recon.Start(ctx); err != nil {
			logger.Warnf("Failed to auto-start reconciler: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			"x-api-key",
		},
	}))

	// Setup routes
	routes.RegisterRoutes(e, healthHandler, messageHandler, taskHandler, reconcilerHandler, cfg)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Stop reconciler first (with timeout)
	if recon.IsRunning() {
		logger.Infof("Stopping reconciler...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- recon.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping reconciler: %v", err)
			} else {
				logger.Infof("Reconciler stopped successfully")
			}
		case <-stopCtx.Done():
			logger.Warnf("Reconciler stop timeout, forcing shutdown")
		}
	}

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Workers finish their current task before exiting, so in-flight
	// dispatches still get their terminal write.
	logger.Infof("Stopping task queue...")
	queue.Stop()

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		logger.Infof("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			logger.Errorf("Error closing Redis: %v", err)
		}
	}

	logger.Infof("Graceful shutdown completed")
}
