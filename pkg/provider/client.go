package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kmutai/sms-dispatch-service/environments"
	"github.com/kmutai/sms-dispatch-service/internal/domain"
)

// Client sends messages to the SMS provider over HTTP. It never returns an
// error: every outcome is normalized into a domain.ProviderResult so callers
// do not have to distinguish a provider rejection from a broken network.
// Retries are deliberately not configured; a send is attempted exactly once.
type Client struct {
	httpClient *resty.Client
	config     environments.ProviderConfig
}

// smsPayload is the provider's wire format. MessageParameters carries the
// recipient/text pair the provider batches on; the top-level Number/Text
// duplicates are required by the same contract.
type smsPayload struct {
	ApiKey            string             `json:"ApiKey"`
	ClientId          string             `json:"ClientId"`
	SenderId          string             `json:"SenderId"`
	MessageParameters []messageParameter `json:"MessageParameters"`
	Number            string             `json:"Number"`
	Text              string             `json:"Text"`
	IsUnicode         bool               `json:"IsUnicode"`
	IsFlash           bool               `json:"IsFlash"`
}

type messageParameter struct {
	Number string `json:"Number"`
	Text   string `json:"Text"`
}

func NewClient(cfg environments.ProviderConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("AccessKey", cfg.AccessKey)

	return &Client{
		httpClient: client,
		config:     cfg,
	}
}

// Send delivers one message to one recipient. A 2xx response is a success;
// anything else, including transport-level faults, comes back as a failed
// result with status 500 and a description of what went wrong.
func (c *Client) Send(ctx context.Context, phoneNumber, content string) domain.ProviderResult {
	if c.config.Endpoint == "" {
		return domain.ProviderResult{
			Succeeded:  false,
			HTTPStatus: 500,
			Body:       "no provider endpoint configured",
		}
	}

	payload := smsPayload{
		ApiKey:   c.config.APIKey,
		ClientId: c.config.ClientID,
		SenderId: c.config.SenderID,
		MessageParameters: []messageParameter{
			{Number: phoneNumber, Text: content},
		},
		Number:    phoneNumber,
		Text:      content,
		IsUnicode: true,
		IsFlash:   true,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.config.Endpoint)
	if err != nil {
		return domain.ProviderResult{
			Succeeded:  false,
			HTTPStatus: 500,
			Body:       fmt.Sprintf("provider request failed: %v", err),
		}
	}

	return domain.ProviderResult{
		Succeeded:  resp.IsSuccess(),
		HTTPStatus: resp.StatusCode(),
		Body:       resp.String(),
	}
}

// Endpoint exposes the configured provider URL for logging.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}
