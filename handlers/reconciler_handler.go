package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmutai/sms-dispatch-service/internal/reconciler"
	"github.com/kmutai/sms-dispatch-service/pkg/response"
	"github.com/kmutai/sms-dispatch-service/pkg/validator"
)

type ReconcilerHandler struct {
	reconciler *reconciler.Reconciler
	ctx        context.Context
}

type StartReconcilerRequest struct {
	IntervalMinutes   *int `json:"intervalMinutes,omitempty" validate:"omitempty,min=1"`
	StaleAfterMinutes *int `json:"staleAfterMinutes,omitempty" validate:"omitempty,min=1"`
}

func NewReconcilerHandler(r *reconciler.Reconciler, ctx context.Context) *ReconcilerHandler {
	return &ReconcilerHandler{
		reconciler: r,
		ctx:        ctx,
	}
}

// StartReconciler godoc
// @Summary Start the stale-task reconciler
// @Description Starts the loop that resubmits delivery records stuck in queued state
// @Tags reconciler
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for reconciler"
// @Param request body StartReconcilerRequest false "Reconciler parameters (optional)"
// @Success 200 {object} response.SuccessResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/reconciler/start [post]
func (h *ReconcilerHandler) StartReconciler(c echo.Context) error {
	if h.reconciler.IsRunning() {
		return response.OkWithMessage(c, "Reconciler is already running", h.reconciler.GetStatus())
	}

	var req StartReconcilerRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	var interval, staleAfter time.Duration
	if req.IntervalMinutes != nil {
		interval = time.Duration(*req.IntervalMinutes) * time.Minute
	}
	if req.StaleAfterMinutes != nil {
		staleAfter = time.Duration(*req.StaleAfterMinutes) * time.Minute
	}

	if err := h.reconciler.StartWithParams(h.ctx, interval, staleAfter); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Reconciler started successfully", h.reconciler.GetStatus())
}

// StopReconciler godoc
// @Summary Stop the stale-task reconciler
// @Tags reconciler
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for reconciler"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/reconciler/stop [post]
func (h *ReconcilerHandler) StopReconciler(c echo.Context) error {
	if !h.reconciler.IsRunning() {
		return response.OkWithMessage(c, "Reconciler is already stopped", h.reconciler.GetStatus())
	}

	if err := h.reconciler.Stop(); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Reconciler stopped successfully", h.reconciler.GetStatus())
}

// GetReconcilerStatus godoc
// @Summary Get reconciler status
// @Tags reconciler
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for reconciler"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/reconciler/status [get]
func (h *ReconcilerHandler) GetReconcilerStatus(c echo.Context) error {
	return response.Ok(c, h.reconciler.GetStatus())
}
