package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/kmutai/sms-dispatch-service/environments"
	"github.com/kmutai/sms-dispatch-service/internal/domain"
	"github.com/kmutai/sms-dispatch-service/pkg/logger"
)

// Client caches terminal dispatch outcomes in valkey. The cache is
// write-through only; the record store stays the single source of truth and
// a cache miss never changes a status answer.
type Client struct {
	client valkey.Client
}

const (
	outcomeKeyPrefix = "dispatch_outcome:"
	outcomeTTL       = 24 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

func (c *Client) CacheOutcome(ctx context.Context, taskID string, outcome domain.DispatchOutcomeCache) error {
	data, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	key := outcomeKeyPrefix + taskID

	err = c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Ex(outcomeTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache outcome: %w", err)
	}

	logger.Debugf("Cached outcome for task %s (%s)", taskID, outcome.State)

	return nil
}

func (c *Client) GetCachedOutcome(ctx context.Context, taskID string) (*domain.DispatchOutcomeCache, error) {
	key := outcomeKeyPrefix + taskID

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached outcome: %w", result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached outcome: %w", err)
	}

	var outcome domain.DispatchOutcomeCache
	if err := json.Unmarshal([]byte(data), &outcome); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outcome: %w", err)
	}

	return &outcome, nil
}

func (c *Client) GetAllCachedOutcomes(ctx context.Context) (map[string]*domain.DispatchOutcomeCache, error) {
	pattern := outcomeKeyPrefix + "*"

	var keys []string
	var cursor uint64
	for {
		result := c.client.Do(ctx, c.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if result.Error() != nil {
			return nil, fmt.Errorf("failed to scan cache keys: %w", result.Error())
		}

		scanResult, err := result.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan result: %w", err)
		}

		keys = append(keys, scanResult.Elements...)
		cursor = scanResult.Cursor

		if cursor == 0 {
			break
		}
	}

	outcomes := make(map[string]*domain.DispatchOutcomeCache)

	for _, key := range keys {
		getResult := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
		if getResult.Error() != nil {
			continue
		}

		data, err := getResult.ToString()
		if err != nil {
			continue
		}

		var outcome domain.DispatchOutcomeCache
		if err := json.Unmarshal([]byte(data), &outcome); err != nil {
			continue
		}

		taskID := strings.TrimPrefix(key, outcomeKeyPrefix)
		outcomes[taskID] = &outcome
	}

	return outcomes, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
