package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"fraud-review-system/internal/models"
)

// CompareAndSwapStatus is the optimistic-concurrency transition: the row is
// updated only while its status still equals expected. Reason codes are
// appended in order inside the same transaction, so two racing callers can
// never interleave into a corrupted audit trail; the loser sees swapped=false
// and no mutation.
func (s *SQLiteStorage) CompareAndSwapStatus(
	transactionID string,
	expected, next models.Status,
	riskScore *float64,
	appendCodes []string,
) (bool, error) {
	var swapped bool

	err := retryOperation(func() error {
		swapped = false

		dbTx, err := s.DB.Begin()
		if err != nil {
			return err
		}
		defer dbTx.Rollback()

		codesJSON, err := appendReasonCodes(dbTx,
			`SELECT reason_codes FROM transactions WHERE transaction_id = ? AND status = ?`,
			appendCodes, transactionID, string(expected))
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		var res sql.Result
		if riskScore != nil {
			res, err = dbTx.Exec(
				`UPDATE transactions
				 SET status = ?, risk_score = ?, reason_codes = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE transaction_id = ? AND status = ?`,
				string(next), *riskScore, codesJSON, transactionID, string(expected),
			)
		} else {
			res, err = dbTx.Exec(
				`UPDATE transactions
				 SET status = ?, reason_codes = ?, updated_at = CURRENT_TIMESTAMP
				 WHERE transaction_id = ? AND status = ?`,
				string(next), codesJSON, transactionID, string(expected),
			)
		}
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		swapped = n == 1

		return dbTx.Commit()
	}, defaultRetries, defaultRetryDelay)

	return swapped, err
}

// ApplyScoring records the scorer's verdict exactly once. The guard is
// status = pending AND scored_at IS NULL, so a redelivered event whose
// transaction was already scored loses the precondition even when the
// decided status keeps the record pending for an analyst.
func (s *SQLiteStorage) ApplyScoring(
	transactionID string,
	next models.Status,
	riskScore float64,
	appendCodes []string,
) (bool, error) {
	var swapped bool

	err := retryOperation(func() error {
		swapped = false

		dbTx, err := s.DB.Begin()
		if err != nil {
			return err
		}
		defer dbTx.Rollback()

		codesJSON, err := appendReasonCodes(dbTx,
			`SELECT reason_codes FROM transactions
			 WHERE transaction_id = ? AND status = ? AND scored_at IS NULL`,
			appendCodes, transactionID, string(models.StatusPending))
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		res, err := dbTx.Exec(
			`UPDATE transactions
			 SET status = ?, risk_score = ?, reason_codes = ?,
			     scored_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
			 WHERE transaction_id = ? AND status = ? AND scored_at IS NULL`,
			string(next), riskScore, codesJSON, transactionID, string(models.StatusPending),
		)
		if err != nil {
			return err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		swapped = n == 1

		return dbTx.Commit()
	}, defaultRetries, defaultRetryDelay)

	return swapped, err
}

// appendReasonCodes reads the row's reason codes with the given guard query
// and returns the JSON with appendCodes added in order. sql.ErrNoRows passes
// through when the guard does not match.
func appendReasonCodes(dbTx *sql.Tx, query string, appendCodes []string, args ...any) (string, error) {
	var codesJSON string
	if err := dbTx.QueryRow(query, args...).Scan(&codesJSON); err != nil {
		return "", err
	}

	var codes []string
	if err := json.Unmarshal([]byte(codesJSON), &codes); err != nil {
		return "", fmt.Errorf("failed to unmarshal reason codes: %w", err)
	}
	codes = append(codes, appendCodes...)
	updatedJSON, err := json.Marshal(codes)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reason codes: %w", err)
	}
	return string(updatedJSON), nil
}
