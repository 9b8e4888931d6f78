package sqlite

// initSchema creates the transactions table. reason_codes is a JSON array
// kept in insertion order; it is only ever appended to. scored_at stays NULL
// until the scoring pass runs, which is what makes scoring single-shot even
// when the resulting status is pending again.
func (s *SQLiteStorage) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT UNIQUE NOT NULL,
		account_id TEXT,
		user_id TEXT,
		amount REAL NOT NULL,
		merchant TEXT,
		timestamp DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		risk_score REAL NOT NULL DEFAULT 0,
		reason_codes TEXT NOT NULL DEFAULT '[]',
		scored_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transaction_id ON transactions(transaction_id);
	CREATE INDEX IF NOT EXISTS idx_account_id ON transactions(account_id);
	CREATE INDEX IF NOT EXISTS idx_user_id ON transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_status ON transactions(status);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON transactions(timestamp);
	`

	_, err := s.DB.Exec(query)
	return err
}
