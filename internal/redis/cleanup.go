package redis

import (
	"context"
	"fmt"
)

// ClearTransactionData drops cached scoring results and status counters.
func (c *Client) ClearTransactionData() error {
	ctx := context.Background()

	patterns := []string{
		"transaction:*",
		"status_stats:*",
	}

	for _, pattern := range patterns {
		iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			c.rdb.Del(ctx, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to clear pattern %s: %w", pattern, err)
		}
	}

	return nil
}
