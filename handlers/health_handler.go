package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"github.com/kmutai/sms-dispatch-service/pkg/redis"
)

// taskCounter reports in-process dispatch activity for the health payload.
type taskCounter interface {
	Counts() (pending, success, failure int)
}

// HealthHandler handles health checks.
type HealthHandler struct {
	db           *sqlx.DB
	redis        *redis.Client
	queue        taskCounter
	checkTimeout time.Duration
}

func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client, queue taskCounter) *HealthHandler {
	return &HealthHandler{
		db:           db,
		redis:        redisClient,
		queue:        queue,
		checkTimeout: 2 * time.Second,
	}
}

// Health returns overall status plus component statuses for the database,
// the outcome cache, and the in-process dispatch queue.
// @Summary Health check
// @Description Returns overall status with DB, Redis and dispatch queue state
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	overallStatus := "ok"

	dbStatus := "up"
	if h.db == nil {
		dbStatus = "down"
		overallStatus = "down"
	} else if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "down"
		overallStatus = "down"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "down"
			overallStatus = "degraded"
		} else {
			redisStatus = "up"
		}
	}

	components := map[string]any{
		"database": map[string]any{
			"status": dbStatus,
		},
		"redis": map[string]any{
			"status": redisStatus,
		},
	}

	if h.queue != nil {
		pending, success, failure := h.queue.Counts()
		components["dispatch_queue"] = map[string]any{
			"status":  "up",
			"pending": pending,
			"success": success,
			"failure": failure,
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":     overallStatus,
		"timestamp":  time.Now().Format(time.RFC3339),
		"components": components,
	})
}
