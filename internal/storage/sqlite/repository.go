package sqlite

import (
	"fraud-review-system/internal/models"
	"fraud-review-system/internal/storage"
)

// Repository implements storage.TransactionRepository on SQLite.
type Repository struct {
	storage *SQLiteStorage
}

// NewRepository wraps a SQLite connection as a TransactionRepository.
func NewRepository(storageConn *SQLiteStorage) storage.TransactionRepository {
	return &Repository{storage: storageConn}
}

func (r *Repository) SaveTransaction(tx *models.Transaction) error {
	return r.storage.SaveTransaction(tx)
}

func (r *Repository) GetTransaction(transactionID string) (*models.Transaction, error) {
	return r.storage.GetTransaction(transactionID)
}

func (r *Repository) CompareAndSwapStatus(transactionID string, expected, next models.Status, riskScore *float64, appendCodes []string) (bool, error) {
	return r.storage.CompareAndSwapStatus(transactionID, expected, next, riskScore, appendCodes)
}

func (r *Repository) ApplyScoring(transactionID string, next models.Status, riskScore float64, appendCodes []string) (bool, error) {
	return r.storage.ApplyScoring(transactionID, next, riskScore, appendCodes)
}

func (r *Repository) ListTransactions(limit int) ([]*models.Transaction, error) {
	return r.storage.ListTransactions(limit)
}

func (r *Repository) ListByStatus(status models.Status, limit int) ([]*models.Transaction, error) {
	return r.storage.ListByStatus(status, limit)
}

func (r *Repository) ClearAllTransactions() error {
	return r.storage.ClearAllTransactions()
}
