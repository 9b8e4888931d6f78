package services

import (
	"fraud-review-system/internal/models"
)

// TransactionService is the intake/query surface behind the REST handlers.
type TransactionService interface {
	// ProcessTransaction persists the transaction as pending and publishes
	// the inbound event.
	ProcessTransaction(req *models.IngestRequest) (*models.IngestResponse, error)

	// GetTransaction returns the transaction, or (nil, nil) when unknown.
	GetTransaction(transactionID string) (*models.Transaction, error)

	// ListTransactions returns the most recent transactions.
	ListTransactions(limit int) ([]*models.Transaction, error)

	// ListAlerts returns the most recent flagged transactions.
	ListAlerts(limit int) ([]*models.Transaction, error)

	// ClearAllTransactions deletes all transactions (admin).
	ClearAllTransactions() error
}
