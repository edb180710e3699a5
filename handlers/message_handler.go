package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kmutai/sms-dispatch-service/internal/domain"
	"github.com/kmutai/sms-dispatch-service/internal/service"
	"github.com/kmutai/sms-dispatch-service/pkg/response"
	"github.com/kmutai/sms-dispatch-service/pkg/validator"
)

type MessageHandler struct {
	service *service.DispatchService
}

func NewMessageHandler(service *service.DispatchService) *MessageHandler {
	return &MessageHandler{service: service}
}

type SendBulkRequest struct {
	PhoneNumbers []string `json:"phoneNumbers" validate:"required,min=1,dive,required"`
	Message      string   `json:"message" validate:"required,max=1000"`
}

// SendBulkMessages godoc
// @Summary Send the same message to multiple recipients
// @Description Queues one dispatch task per recipient and returns the task ids without waiting for delivery
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param request body SendBulkRequest true "Recipients and message body"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/bulk [post]
func (h *MessageHandler) SendBulkMessages(c echo.Context) error {
	var req SendBulkRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	receipt, err := h.service.SubmitBatch(c.Request().Context(), req.PhoneNumbers, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRecipient) {
			return response.UnprocessableEntity(c, err)
		}
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(
		c,
		fmt.Sprintf("Bulk SMS queued for %d recipients", receipt.AcceptedCount),
		receipt,
	)
}

// ListMessages godoc
// @Summary List delivery records
// @Description Returns delivery records newest first, with optional status and phone filters
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param status query string false "Filter by status (queued, sent, failed)"
// @Param phone query string false "Filter by normalized phone number"
// @Param limit query int false "Page size (default: 100)"
// @Param offset query int false "Page offset (default: 0)"
// @Success 200 {object} response.ListResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages [get]
func (h *MessageHandler) ListMessages(c echo.Context) error {
	filters, err := parseListFilters(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	messages, count, err := h.service.ListMessages(c.Request().Context(), filters)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.List(c, messages, count, filters.Limit, filters.Offset)
}

// GetStats godoc
// @Summary Get delivery record statistics
// @Description Returns count of delivery records by status
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/stats [get]
func (h *MessageHandler) GetStats(c echo.Context) error {
	queued, sent, failed, err := h.service.GetStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"queued": queued,
		"sent":   sent,
		"failed": failed,
		"total":  queued + sent + failed,
	})
}

// GetCachedOutcomes godoc
// @Summary Get cached dispatch outcomes from Redis
// @Description Returns all terminal dispatch outcomes currently cached
// @Tags messages
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/messages/cached [get]
func (h *MessageHandler) GetCachedOutcomes(c echo.Context) error {
	cached, err := h.service.GetCachedOutcomes(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, cached)
}

func parseListFilters(c echo.Context) (domain.ListFilters, error) {
	const (
		defaultLimit = 100
		maxLimit     = 1000
	)

	filters := domain.ListFilters{
		Limit:       defaultLimit,
		PhoneNumber: c.QueryParam("phone"),
	}

	if statusStr := c.QueryParam("status"); statusStr != "" {
		status := domain.MessageStatus(statusStr)
		switch status {
		case domain.StatusQueued, domain.StatusSent, domain.StatusFailed:
			filters.Status = &status
		default:
			return filters, fmt.Errorf("status must be one of queued, sent, failed")
		}
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > maxLimit {
			return filters, fmt.Errorf("limit must be between 1 and %d", maxLimit)
		}
		filters.Limit = limit
	}

	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return filters, fmt.Errorf("offset must be a non-negative integer")
		}
		filters.Offset = offset
	}

	return filters, nil
}
