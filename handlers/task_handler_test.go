package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/kmutai/sms-dispatch-service/internal/domain"
	"github.com/kmutai/sms-dispatch-service/pkg/response"
)

func TestGetTaskStatus_UnknownIDReturns404(t *testing.T) {
	e := echo.New()
	handler := NewTaskHandler(newTestService(newStubRepo()))

	c, rec := newRequestContext(e, http.MethodGet, "/api/v1/tasks/nonexistent-id", "")
	c.SetParamNames("taskId")
	c.SetParamValues("nonexistent-id")

	if err := handler.GetTaskStatus(c); err != nil {
		t.Fatalf("GetTaskStatus returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var resp response.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	if resp.Success {
		t.Fatalf("expected Success=false, got true")
	}
}

func TestGetTaskStatus_TerminalRecordReported(t *testing.T) {
	e := echo.New()

	repo := newStubRepo()
	ctx := context.Background()
	if _, err := repo.Create(ctx, "done-task", "254712345678", "hi"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.UpdateStatus(ctx, "done-task", domain.StatusFailed, "no provider endpoint configured", 500); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	handler := NewTaskHandler(newTestService(repo))

	c, rec := newRequestContext(e, http.MethodGet, "/api/v1/tasks/done-task", "")
	c.SetParamNames("taskId")
	c.SetParamValues("done-task")

	if err := handler.GetTaskStatus(c); err != nil {
		t.Fatalf("GetTaskStatus returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Success bool                   `json:"success"`
		Data    domain.TaskQueryResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response body: %v", err)
	}

	if resp.Data.State != "failure" {
		t.Errorf("expected state failure, got %s", resp.Data.State)
	}
	if resp.Data.Detail != "no provider endpoint configured" {
		t.Errorf("expected provider detail, got %q", resp.Data.Detail)
	}
	if resp.Data.Record == nil || resp.Data.Record.Status != domain.StatusFailed {
		t.Errorf("expected failed record attached, got %+v", resp.Data.Record)
	}
}
