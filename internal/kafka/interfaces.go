package kafka

import (
	"context"

	"fraud-review-system/internal/models"
)

// Producer publishes transaction events to the inbound topic.
type Producer interface {
	SendTransactionEvent(event *models.TransactionEvent) error

	Close() error
}

// Consumer runs the consumer group loop until the context is cancelled.
type Consumer interface {
	Start(ctx context.Context) error

	Close() error
}
