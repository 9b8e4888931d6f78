package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"fraud-review-system/internal/models"
)

// SaveScoringResult caches the scorer's verdict for a transaction with a
// one hour TTL, so the console can show features before the DB row is read.
func (c *Client) SaveScoringResult(transactionID string, result *models.ScoringResult) error {
	ctx := context.Background()
	key := fmt.Sprintf("transaction:%s:scoring", transactionID)

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring result: %w", err)
	}

	return c.rdb.Set(ctx, key, data, time.Hour).Err()
}

// GetScoringResult returns the cached verdict, or (nil, nil) when absent.
func (c *Client) GetScoringResult(transactionID string) (*models.ScoringResult, error) {
	ctx := context.Background()
	key := fmt.Sprintf("transaction:%s:scoring", transactionID)

	data, err := c.rdb.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scoring result: %w", err)
	}

	var result models.ScoringResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoring result: %w", err)
	}

	return &result, nil
}
