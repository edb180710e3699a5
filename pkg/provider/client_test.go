package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kmutai/sms-dispatch-service/environments"
)

func testConfig(endpoint string) environments.ProviderConfig {
	return environments.ProviderConfig{
		Endpoint:  endpoint,
		APIKey:    "api-key",
		SenderID:  "SENDER",
		ClientID:  "client-id",
		AccessKey: "access-key",
		Timeout:   5 * time.Second,
	}
}

func TestSend_SuccessOn2xx(t *testing.T) {
	var gotPayload smsPayload
	var gotAccessKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccessKey = r.Header.Get("AccessKey")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"ErrorCode":0,"ErrorDescription":"Success"}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result := client.Send(context.Background(), "254712345678", "hello")

	if !result.Succeeded {
		t.Fatalf("expected Succeeded=true, got false (body: %s)", result.Body)
	}
	if result.HTTPStatus != http.StatusOK {
		t.Errorf("expected HTTPStatus=200, got %d", result.HTTPStatus)
	}
	if !strings.Contains(result.Body, "Success") {
		t.Errorf("expected body to contain provider response, got %q", result.Body)
	}

	if gotAccessKey != "access-key" {
		t.Errorf("expected AccessKey header 'access-key', got %q", gotAccessKey)
	}
	if gotPayload.ApiKey != "api-key" || gotPayload.ClientId != "client-id" || gotPayload.SenderId != "SENDER" {
		t.Errorf("unexpected credential fields in payload: %+v", gotPayload)
	}
	if gotPayload.Number != "254712345678" || gotPayload.Text != "hello" {
		t.Errorf("unexpected Number/Text in payload: %+v", gotPayload)
	}
	if len(gotPayload.MessageParameters) != 1 ||
		gotPayload.MessageParameters[0].Number != "254712345678" ||
		gotPayload.MessageParameters[0].Text != "hello" {
		t.Errorf("unexpected MessageParameters: %+v", gotPayload.MessageParameters)
	}
	if !gotPayload.IsUnicode || !gotPayload.IsFlash {
		t.Errorf("expected IsUnicode and IsFlash to be true: %+v", gotPayload)
	}
}

func TestSend_FailureOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		if _, err := w.Write([]byte("invalid credentials")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	result := client.Send(context.Background(), "254712345678", "hello")

	if result.Succeeded {
		t.Fatalf("expected Succeeded=false for 401 response")
	}
	if result.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected HTTPStatus=401, got %d", result.HTTPStatus)
	}
	if result.Body != "invalid credentials" {
		t.Errorf("expected provider body to be preserved, got %q", result.Body)
	}
}

func TestSend_TransportFaultNormalizedTo500(t *testing.T) {
	// Start then immediately close a server so the address refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(testConfig(url))
	result := client.Send(context.Background(), "254712345678", "hello")

	if result.Succeeded {
		t.Fatalf("expected Succeeded=false for transport fault")
	}
	if result.HTTPStatus != 500 {
		t.Errorf("expected HTTPStatus=500, got %d", result.HTTPStatus)
	}
	if !strings.Contains(result.Body, "provider request failed") {
		t.Errorf("expected fault description in body, got %q", result.Body)
	}
}

func TestSend_NoEndpointShortCircuits(t *testing.T) {
	client := NewClient(testConfig(""))
	result := client.Send(context.Background(), "254712345678", "hello")

	if result.Succeeded {
		t.Fatalf("expected Succeeded=false without an endpoint")
	}
	if result.HTTPStatus != 500 {
		t.Errorf("expected HTTPStatus=500, got %d", result.HTTPStatus)
	}
	if result.Body != "no provider endpoint configured" {
		t.Errorf("expected short-circuit message, got %q", result.Body)
	}
}
