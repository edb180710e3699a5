package domain

import (
	"errors"
	"time"
)

type MessageStatus string

const (
	StatusQueued MessageStatus = "queued"
	StatusSent   MessageStatus = "sent"
	StatusFailed MessageStatus = "failed"
)

// Sentinel errors surfaced by the dispatch service to the transport layer.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// Message is the delivery record for one dispatched SMS. TaskID correlates
// the row with the in-process dispatch task and with client status queries.
type Message struct {
	ID               int64         `db:"id" json:"id"`
	TaskID           string        `db:"task_id" json:"taskId"`
	PhoneNumber      string        `db:"phone_number" json:"phoneNumber"`
	Content          string        `db:"message" json:"message"`
	Status           MessageStatus `db:"status" json:"status"`
	ProviderResponse *string       `db:"provider_response" json:"providerResponse,omitempty"`
	ResponseCode     *int          `db:"response_code" json:"responseCode,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updatedAt"`
}

// ProviderResult is the normalized outcome of one provider call. The client
// folds every failure mode (non-2xx, transport fault, missing endpoint) into
// Succeeded=false so the dispatch task never has to distinguish them.
type ProviderResult struct {
	Succeeded  bool   `json:"succeeded"`
	HTTPStatus int    `json:"httpStatus"`
	Body       string `json:"body"`
}

// DispatchReceipt pairs a normalized recipient with its task id.
type DispatchReceipt struct {
	PhoneNumber string `json:"phoneNumber"`
	TaskID      string `json:"taskId"`
}

// BatchReceipt is the synchronous response to a bulk submission.
type BatchReceipt struct {
	AcceptedCount int               `json:"acceptedCount"`
	Tasks         []DispatchReceipt `json:"tasks"`
}

// TaskQueryResult is what a status query returns: the task queue's view of
// the task plus the persisted record when one is available.
type TaskQueryResult struct {
	TaskID string   `json:"taskId"`
	State  string   `json:"state"`
	Detail string   `json:"detail,omitempty"`
	Record *Message `json:"record,omitempty"`
}

// DispatchOutcomeCache is the value cached in valkey once a task reaches a
// terminal state.
type DispatchOutcomeCache struct {
	State        string    `json:"state"`
	Detail       string    `json:"detail"`
	ResponseCode int       `json:"responseCode"`
	CompletedAt  time.Time `json:"completedAt"`
}

// ListFilters narrows a record listing. Limit/Offset default to 100/0 at the
// handler layer.
type ListFilters struct {
	Status      *MessageStatus
	PhoneNumber string
	Limit       int
	Offset      int
}
