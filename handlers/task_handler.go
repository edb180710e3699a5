package handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/kmutai/sms-dispatch-service/internal/domain"
	"github.com/kmutai/sms-dispatch-service/internal/service"
	"github.com/kmutai/sms-dispatch-service/pkg/response"
)

type TaskHandler struct {
	service *service.DispatchService
}

func NewTaskHandler(service *service.DispatchService) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetTaskStatus godoc
// @Summary Get the status of a dispatch task
// @Description Returns the task's current state (pending, success, failure) and the delivery record when available
// @Tags tasks
// @Accept json
// @Produce json
// @Param x-api-key header string true "API key for messages"
// @Param taskId path string true "Task id issued at submission"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/tasks/{taskId} [get]
func (h *TaskHandler) GetTaskStatus(c echo.Context) error {
	taskID := c.Param("taskId")
	if taskID == "" {
		return response.BadRequestWithMessage(c, "task id is required")
	}

	result, err := h.service.QueryStatus(c.Request().Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return response.NotFound(c, "no task found with id "+taskID)
		}
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, result)
}
