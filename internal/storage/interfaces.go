package storage

import (
	"fraud-review-system/internal/models"
)

// TransactionRepository is the persistence contract for the review pipeline.
// Implementations must make CompareAndSwapStatus a single atomic conditional
// update keyed on (transaction id, expected status).
type TransactionRepository interface {
	// SaveTransaction inserts the transaction with status pending. Saving an
	// id that already exists is a no-op, which keeps event replay safe.
	SaveTransaction(tx *models.Transaction) error

	// GetTransaction returns the transaction or (nil, nil) when unknown.
	GetTransaction(transactionID string) (*models.Transaction, error)

	// CompareAndSwapStatus moves the transaction from expected to next,
	// optionally setting the risk score and appending reason codes in order.
	// Returns false without mutating anything when the current status does
	// not match expected (or the id is unknown).
	CompareAndSwapStatus(transactionID string, expected, next models.Status, riskScore *float64, appendCodes []string) (bool, error)

	// ApplyScoring records the scorer's verdict exactly once: it sets the
	// risk score, appends the reason codes and moves the transaction from
	// pending to next, conditional on the record being pending AND not yet
	// scored. next may be pending itself (human-in-the-loop); the record is
	// still marked scored, so a redelivered event returns false.
	ApplyScoring(transactionID string, next models.Status, riskScore float64, appendCodes []string) (bool, error)

	// ListTransactions returns the most recent transactions, newest first.
	ListTransactions(limit int) ([]*models.Transaction, error)

	// ListByStatus returns the most recent transactions in the given status.
	ListByStatus(status models.Status, limit int) ([]*models.Transaction, error)

	// ClearAllTransactions deletes every record.
	ClearAllTransactions() error
}
