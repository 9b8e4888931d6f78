package sqlite

// ClearAllTransactions deletes every record. Admin/testing use only.
func (s *SQLiteStorage) ClearAllTransactions() error {
	return retryOperation(func() error {
		_, err := s.DB.Exec(`DELETE FROM transactions`)
		return err
	}, defaultRetries, defaultRetryDelay)
}
