package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	return e.NewContext(req, rec), rec
}

func TestList_WrapsRecordsWithCountAndWindow(t *testing.T) {
	c, rec := newContext()

	data := []string{"a", "b", "c"}
	if err := List(c, data, 42, 100, 0); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if !body.Success {
		t.Errorf("expected Success=true, got false")
	}
	if body.Count != 42 {
		t.Errorf("expected Count=42, got %d", body.Count)
	}
	if body.Limit != 100 {
		t.Errorf("expected Limit=100, got %d", body.Limit)
	}
	if body.Offset != 0 {
		t.Errorf("expected Offset=0, got %d", body.Offset)
	}
}

func TestNotFound_Returns404WithMessage(t *testing.T) {
	c, rec := newContext()

	if err := NotFound(c, "task not found"); err != nil {
		t.Fatalf("NotFound returned error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body.Success {
		t.Errorf("expected Success=false, got true")
	}
	if body.Error != "task not found" {
		t.Errorf("expected error message preserved, got %q", body.Error)
	}
}

func TestBadRequest_Returns400(t *testing.T) {
	c, rec := newContext()

	if err := BadRequest(c, errors.New("limit must be a positive integer")); err != nil {
		t.Fatalf("BadRequest returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body.Error == "" {
		t.Errorf("expected error message, got empty string")
	}
}
