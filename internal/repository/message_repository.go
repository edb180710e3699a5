package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kmutai/sms-dispatch-service/internal/domain"
	"github.com/kmutai/sms-dispatch-service/pkg/logger"
)

// MessageRepository handles database operations for delivery records.
type MessageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new delivery record in queued state under the given task
// id. The record must exist before the dispatch task is scheduled so a status
// query can never miss an issued id.
func (r *MessageRepository) Create(ctx context.Context, taskID, phoneNumber, content string) (*domain.Message, error) {
	query := `
		INSERT INTO sms_messages (task_id, phone_number, message, status, created_at, updated_at)
		VALUES (?, ?, ?, 'queued', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	_, err := r.db.ExecContext(ctx, query, taskID, phoneNumber, content)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery record: %w", err)
	}

	return r.GetByTaskID(ctx, taskID)
}

// UpdateStatus writes the terminal outcome for a task. The status column is
// monotonic: the WHERE clause only matches rows still in queued state, so a
// second terminal write (e.g. a resubmitted task racing its first attempt)
// is a no-op rather than a flip.
func (r *MessageRepository) UpdateStatus(
	ctx context.Context,
	taskID string,
	status domain.MessageStatus,
	providerResponse string,
	responseCode int,
) error {
	query := `
		UPDATE sms_messages
		SET status = ?, provider_response = ?, response_code = ?, updated_at = CURRENT_TIMESTAMP
		WHERE task_id = ? AND status = 'queued'
	`

	result, err := r.db.ExecContext(ctx, query, status, providerResponse, responseCode, taskID)
	if err != nil {
		return fmt.Errorf("failed to update delivery record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		existing, err := r.GetByTaskID(ctx, taskID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("no delivery record found for task id %s", taskID)
		}

		logger.Warnf("Task %s already terminal (%s), ignoring status update to %s",
			taskID, existing.Status, status)
		return nil
	}

	return nil
}

// GetByTaskID returns nil, nil when no record exists for the id.
func (r *MessageRepository) GetByTaskID(ctx context.Context, taskID string) (*domain.Message, error) {
	query := `
		SELECT id, task_id, phone_number, message, status, provider_response, response_code, created_at, updated_at
		FROM sms_messages
		WHERE task_id = ?
	`

	var message domain.Message
	if err := r.db.GetContext(ctx, &message, query, taskID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get delivery record: %w", err)
	}

	return &message, nil
}

// List returns records newest first, narrowed by the optional status and
// phone number filters, plus the total count matching the filters.
func (r *MessageRepository) List(ctx context.Context, filters domain.ListFilters) ([]domain.Message, int64, error) {
	conditions := []string{"1=1"}
	args := []any{}

	if filters.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filters.Status)
	}
	if filters.PhoneNumber != "" {
		conditions = append(conditions, "phone_number = ?")
		args = append(args, filters.PhoneNumber)
	}

	where := strings.Join(conditions, " AND ")

	var totalCount int64
	countQuery := "SELECT COUNT(*) FROM sms_messages WHERE " + where
	if err := r.db.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count delivery records: %w", err)
	}

	query := `
		SELECT id, task_id, phone_number, message, status, provider_response, response_code, created_at, updated_at
		FROM sms_messages
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	args = append(args, filters.Limit, filters.Offset)

	var messages []domain.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list delivery records: %w", err)
	}

	return messages, totalCount, nil
}

// GetStats returns per-status record counts.
func (r *MessageRepository) GetStats(ctx context.Context) (queued, sent, failed int64, err error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'queued' THEN 1 ELSE 0 END), 0) AS queued,
			COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0)   AS sent,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS failed
		FROM sms_messages
	`

	var stats struct {
		Queued int64 `db:"queued"`
		Sent   int64 `db:"sent"`
		Failed int64 `db:"failed"`
	}

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats.Queued, stats.Sent, stats.Failed, nil
}

// GetStaleQueued returns records still queued after olderThan, oldest first.
// Used by the reconciler to find tasks orphaned by a restart.
func (r *MessageRepository) GetStaleQueued(ctx context.Context, olderThan time.Time, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, task_id, phone_number, message, status, provider_response, response_code, created_at, updated_at
		FROM sms_messages
		WHERE status = 'queued' AND created_at < ?
		ORDER BY created_at ASC
		LIMIT ?
	`

	var messages []domain.Message
	if err := r.db.SelectContext(ctx, &messages, query, olderThan, limit); err != nil {
		return nil, fmt.Errorf("failed to get stale queued records: %w", err)
	}

	return messages, nil
}
