package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kmutai/sms-dispatch-service/environments"
	"github.com/kmutai/sms-dispatch-service/internal/domain"
	"github.com/kmutai/sms-dispatch-service/internal/taskqueue"
	"github.com/kmutai/sms-dispatch-service/pkg/logger"
	"github.com/kmutai/sms-dispatch-service/pkg/phone"
)

// Small internal interfaces so we can test without touching real DB/Redis/provider.
type messageRepository interface {
	Create(ctx context.Context, taskID, phoneNumber, content string) (*domain.Message, error)
	UpdateStatus(ctx context.Context, taskID string, status domain.MessageStatus, providerResponse string, responseCode int) error
	GetByTaskID(ctx context.Context, taskID string) (*domain.Message, error)
	List(ctx context.Context, filters domain.ListFilters) ([]domain.Message, int64, error)
	GetStats(ctx context.Context) (queued, sent, failed int64, err error)
	GetStaleQueued(ctx context.Context, olderThan time.Time, limit int) ([]domain.Message, error)
}

type providerClient interface {
	Send(ctx context.Context, phoneNumber, content string) domain.ProviderResult
}

type dispatchQueue interface {
	NewTaskID() string
	EnqueueWithID(id string, fn taskqueue.Task)
	StatusOf(id string) (taskqueue.Status, bool)
}

type outcomeCache interface {
	CacheOutcome(ctx context.Context, taskID string, outcome domain.DispatchOutcomeCache) error
	GetAllCachedOutcomes(ctx context.Context) (map[string]*domain.DispatchOutcomeCache, error)
}

// DispatchService fans bulk submissions out into independent dispatch tasks
// and reconciles the task queue's view of each task with the persisted
// delivery record.
type DispatchService struct {
	repo     messageRepository
	provider providerClient
	queue    dispatchQueue
	cache    outcomeCache
	config   environments.DispatchConfig
}

func NewDispatchService(
	repo messageRepository,
	provider providerClient,
	queue dispatchQueue,
	cache outcomeCache,
	config environments.DispatchConfig,
) *DispatchService {
	return &DispatchService{
		repo:     repo,
		provider: provider,
		queue:    queue,
		cache:    cache,
		config:   config,
	}
}

// SubmitBatch normalizes every recipient, creates one queued record per
// recipient and schedules one dispatch task per record. Normalization runs
// for the whole batch before the first record is created, so a bad recipient
// rejects the batch without leaving orphans. Returns as soon as all tasks
// are enqueued; delivery happens asynchronously.
func (s *DispatchService) SubmitBatch(ctx context.Context, recipients []string, content string) (*domain.BatchReceipt, error) {
	if len(content) > s.config.MaxContentLength {
		return nil, fmt.Errorf("content exceeds maximum length of %d characters", s.config.MaxContentLength)
	}

	normalized := make([]string, 0, len(recipients))
	for _, raw := range recipients {
		number, err := phone.Normalize(s.config.CountryPrefix, raw)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", domain.ErrInvalidRecipient, raw, err)
		}
		normalized = append(normalized, number)
	}

	receipt := &domain.BatchReceipt{
		Tasks: make([]domain.DispatchReceipt, 0, len(normalized)),
	}

	for _, number := range normalized {
		taskID := s.queue.NewTaskID()

		if _, err := s.repo.Create(ctx, taskID, number, content); err != nil {
			return nil, fmt.Errorf("failed to create delivery record for %s: %w", number, err)
		}

		s.queue.EnqueueWithID(taskID, s.makeDispatchTask(taskID, number, content))

		receipt.Tasks = append(receipt.Tasks, domain.DispatchReceipt{
			PhoneNumber: number,
			TaskID:      taskID,
		})
	}

	receipt.AcceptedCount = len(receipt.Tasks)

	logger.Infof("Accepted batch of %d recipients", receipt.AcceptedCount)

	return receipt, nil
}

// makeDispatchTask builds the closure executed by the task queue for one
// recipient. The closure owns the single terminal write for its record: it
// recovers its own panics and persists failed/500 before the queue's backstop
// sees anything, so no fault ever leaves the record in queued state while the
// task is finished.
func (s *DispatchService) makeDispatchTask(taskID, phoneNumber, content string) taskqueue.Task {
	return func(ctx context.Context) (detail string, err error) {
		defer func() {
			if r := recover(); r != nil {
				detail = fmt.Sprintf("dispatch fault: %v", r)
				err = fmt.Errorf("dispatch fault: %v", r)
				s.finalize(ctx, taskID, domain.StatusFailed, detail, 500)
			}
		}()

		result := s.provider.Send(ctx, phoneNumber, content)

		if result.Succeeded {
			s.finalize(ctx, taskID, domain.StatusSent, result.Body, result.HTTPStatus)
			return result.Body, nil
		}

		s.finalize(ctx, taskID, domain.StatusFailed, result.Body, result.HTTPStatus)
		return result.Body, fmt.Errorf("delivery failed with status %d", result.HTTPStatus)
	}
}

// finalize persists the terminal outcome and writes through to the cache.
// Errors here are logged, never propagated: the task outcome is already
// decided and must not be rewritten by a bookkeeping failure.
func (s *DispatchService) finalize(
	ctx context.Context,
	taskID string,
	status domain.MessageStatus,
	providerResponse string,
	responseCode int,
) {
	if err := s.repo.UpdateStatus(ctx, taskID, status, providerResponse, responseCode); err != nil {
		logger.Errorf("Failed to persist %s outcome for task %s: %v", status, taskID, err)
	}

	if s.cache == nil {
		return
	}

	state := taskqueue.StateFailure
	if status == domain.StatusSent {
		state = taskqueue.StateSuccess
	}

	outcome := domain.DispatchOutcomeCache{
		State:        string(state),
		Detail:       providerResponse,
		ResponseCode: responseCode,
		CompletedAt:  time.Now(),
	}
	if err := s.cache.CacheOutcome(ctx, taskID, outcome); err != nil {
		logger.Warnf("Failed to cache outcome for task %s: %v", taskID, err)
	}
}

// QueryStatus resolves a task id to its current state. The in-process queue
// answers for live tasks; after a restart the persisted record answers
// instead. An id unknown to both is ErrTaskNotFound.
func (s *DispatchService) QueryStatus(ctx context.Context, taskID string) (*domain.TaskQueryResult, error) {
	record, err := s.repo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if status, ok := s.queue.StatusOf(taskID); ok {
		return &domain.TaskQueryResult{
			TaskID: taskID,
			State:  string(status.State),
			Detail: status.Detail,
			Record: record,
		}, nil
	}

	if record == nil {
		return nil, domain.ErrTaskNotFound
	}

	result := &domain.TaskQueryResult{
		TaskID: taskID,
		Record: record,
	}

	switch record.Status {
	case domain.StatusSent:
		result.State = string(taskqueue.StateSuccess)
	case domain.StatusFailed:
		result.State = string(taskqueue.StateFailure)
	default:
		result.State = string(taskqueue.StatePending)
	}
	if record.ProviderResponse != nil {
		result.Detail = *record.ProviderResponse
	}

	return result, nil
}

// ListMessages pages over delivery records, newest first.
func (s *DispatchService) ListMessages(ctx context.Context, filters domain.ListFilters) ([]domain.Message, int64, error) {
	return s.repo.List(ctx, filters)
}

func (s *DispatchService) GetStats(ctx context.Context) (queued, sent, failed int64, err error) {
	return s.repo.GetStats(ctx)
}

func (s *DispatchService) GetCachedOutcomes(ctx context.Context) (map[string]*domain.DispatchOutcomeCache, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("outcome cache not configured")
	}
	return s.cache.GetAllCachedOutcomes(ctx)
}

// ResubmitStale re-enqueues queued records older than the staleness window
// whose task ids the in-process queue does not know. Ids the queue still
// tracks are in flight or buffered and are skipped; resubmitting a record the
// queue lost is safe because the terminal update only matches queued rows.
func (s *DispatchService) ResubmitStale(ctx context.Context, staleAfter time.Duration, limit int) (int, error) {
	records, err := s.repo.GetStaleQueued(ctx, time.Now().Add(-staleAfter), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to find stale records: %w", err)
	}

	resubmitted := 0
	for _, record := range records {
		if _, known := s.queue.StatusOf(record.TaskID); known {
			continue
		}

		s.queue.EnqueueWithID(record.TaskID, s.makeDispatchTask(record.TaskID, record.PhoneNumber, record.Content))
		resubmitted++

		logger.Infof("Resubmitted stale task %s for %s", record.TaskID, record.PhoneNumber)
	}

	return resubmitted, nil
}
