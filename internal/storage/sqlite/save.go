package sqlite

import (
	"encoding/json"
	"fmt"

	"fraud-review-system/internal/models"
)

// SaveTransaction inserts the transaction with status pending. INSERT OR
// IGNORE keeps replayed events from failing on the unique transaction id.
func (s *SQLiteStorage) SaveTransaction(tx *models.Transaction) error {
	codes := tx.ReasonCodes
	if codes == nil {
		codes = []string{}
	}
	codesJSON, err := json.Marshal(codes)
	if err != nil {
		return fmt.Errorf("failed to marshal reason codes: %w", err)
	}

	query := `
		INSERT OR IGNORE INTO transactions (
			transaction_id, account_id, user_id, amount, merchant,
			timestamp, status, risk_score, reason_codes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	return retryOperation(func() error {
		_, err := s.DB.Exec(
			query,
			tx.TransactionID, tx.AccountID, tx.UserID, tx.Amount, tx.Merchant,
			tx.Timestamp, string(models.StatusPending), tx.RiskScore, string(codesJSON),
		)
		return err
	}, defaultRetries, defaultRetryDelay)
}
