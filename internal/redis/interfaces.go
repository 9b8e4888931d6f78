package redis

import (
	"fraud-review-system/internal/models"
)

// ClientInterface is the Redis contract used by the pipeline and the API.
// Implemented by Client; mocked in tests.
type ClientInterface interface {
	// SaveScoringResult caches the scorer's verdict for a transaction.
	SaveScoringResult(transactionID string, result *models.ScoringResult) error

	// GetScoringResult returns the cached verdict, or (nil, nil) when absent.
	GetScoringResult(transactionID string) (*models.ScoringResult, error)

	// IncrementStatusStats bumps the counter for a lifecycle outcome.
	IncrementStatusStats(status models.Status) error

	// GetStatusStats returns the outcome counters per lifecycle status.
	GetStatusStats() (map[string]int64, error)

	// ClearTransactionData drops cached results and counters.
	ClearTransactionData() error

	// Close closes the connection.
	Close() error
}

var _ ClientInterface = (*Client)(nil)
