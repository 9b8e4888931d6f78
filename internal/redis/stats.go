package redis

import (
	"context"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"

	"fraud-review-system/internal/models"
)

// IncrementStatusStats bumps the counter for a lifecycle status outcome.
func (c *Client) IncrementStatusStats(status models.Status) error {
	ctx := context.Background()
	key := fmt.Sprintf("status_stats:%s", status)
	return c.rdb.Incr(ctx, key).Err()
}

// GetStatusStats returns the outcome counters for every lifecycle status.
func (c *Client) GetStatusStats() (map[string]int64, error) {
	ctx := context.Background()

	statuses := []models.Status{
		models.StatusPending, models.StatusFlagged, models.StatusApproved,
		models.StatusBlocked, models.StatusEscalated, models.StatusCompleted,
		models.StatusFailed,
	}

	stats := make(map[string]int64, len(statuses))
	for _, status := range statuses {
		key := fmt.Sprintf("status_stats:%s", status)
		count, err := c.rdb.Get(ctx, key).Int64()
		if err == redisv9.Nil {
			count = 0
		} else if err != nil {
			return nil, fmt.Errorf("failed to get stats for %s: %w", status, err)
		}
		stats[string(status)] = count
	}

	return stats, nil
}
