package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"fraud-review-system/internal/models"
)

const selectColumns = `
	transaction_id, account_id, user_id, amount, merchant, timestamp,
	status, risk_score, reason_codes, created_at, updated_at
`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var tx models.Transaction
	var status string
	var codesJSON string

	err := row.Scan(
		&tx.TransactionID, &tx.AccountID, &tx.UserID, &tx.Amount, &tx.Merchant,
		&tx.Timestamp, &status, &tx.RiskScore, &codesJSON,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Status = models.Status(status)
	if err := json.Unmarshal([]byte(codesJSON), &tx.ReasonCodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reason codes: %w", err)
	}

	return &tx, nil
}

// GetTransaction fetches a transaction by id; (nil, nil) when unknown.
func (s *SQLiteStorage) GetTransaction(transactionID string) (*models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE transaction_id = ?`

	tx, err := scanTransaction(s.DB.QueryRow(query, transactionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListTransactions returns the most recent transactions, newest first.
func (s *SQLiteStorage) ListTransactions(limit int) ([]*models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions ORDER BY timestamp DESC LIMIT ?`
	return s.queryTransactions(query, limit)
}

// ListByStatus returns the most recent transactions in the given status.
func (s *SQLiteStorage) ListByStatus(status models.Status, limit int) ([]*models.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE status = ? ORDER BY timestamp DESC LIMIT ?`
	return s.queryTransactions(query, string(status), limit)
}

func (s *SQLiteStorage) queryTransactions(query string, args ...any) ([]*models.Transaction, error) {
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}
