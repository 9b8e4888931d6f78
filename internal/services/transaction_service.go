package services

import (
	"time"

	"github.com/google/uuid"

	"fraud-review-system/internal/kafka"
	"fraud-review-system/internal/logger"
	"fraud-review-system/internal/models"
	"fraud-review-system/internal/redis"
	"fraud-review-system/internal/storage"
)

// TransactionServiceImpl implements TransactionService.
type TransactionServiceImpl struct {
	repo        storage.TransactionRepository
	producer    kafka.Producer
	redisClient redis.ClientInterface // optional, used to enrich reads
}

// NewTransactionService creates the intake service.
func NewTransactionService(repo storage.TransactionRepository, producer kafka.Producer) TransactionService {
	return &TransactionServiceImpl{
		repo:     repo,
		producer: producer,
	}
}

// NewTransactionServiceWithRedis creates the service with a Redis client so
// reads can surface cached scoring results the DB has not caught up with.
func NewTransactionServiceWithRedis(repo storage.TransactionRepository, producer kafka.Producer, redisClient redis.ClientInterface) TransactionService {
	return &TransactionServiceImpl{
		repo:        repo,
		producer:    producer,
		redisClient: redisClient,
	}
}

// ProcessTransaction stores the transaction as pending and publishes the
// event the review pipeline consumes.
func (s *TransactionServiceImpl) ProcessTransaction(req *models.IngestRequest) (*models.IngestResponse, error) {
	tx := req.Transaction
	tx.Status = models.StatusPending
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}

	if err := s.repo.SaveTransaction(&tx); err != nil {
		return nil, err
	}

	event := &models.TransactionEvent{
		EventID:   "evt_" + uuid.New().String(),
		EventType: "transaction_received",
		Timestamp: time.Now(),
		Data: models.TransactionData{
			TransactionID: tx.TransactionID,
			AccountID:     tx.AccountID,
			UserID:        tx.UserID,
			Amount:        tx.Amount,
			Merchant:      tx.Merchant,
			Timestamp:     tx.Timestamp.Format(time.RFC3339),
			ReasonCodes:   tx.ReasonCodes,
		},
	}

	if err := s.producer.SendTransactionEvent(event); err != nil {
		return nil, err
	}

	logger.LogEvent(logger.EventKafkaSent, "ingestion-service", "kafka", map[string]interface{}{
		"event_id":       event.EventID,
		"transaction_id": tx.TransactionID,
	})

	return &models.IngestResponse{
		ProcessingID:  "proc_" + uuid.New().String(),
		TransactionID: tx.TransactionID,
		Status:        models.StatusPending,
		Message:       "Transaction accepted for review",
	}, nil
}

// GetTransaction reads the transaction and, when the stored record has no
// reason codes yet, falls back to the cached scoring result.
func (s *TransactionServiceImpl) GetTransaction(transactionID string) (*models.Transaction, error) {
	tx, err := s.repo.GetTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, nil
	}

	if s.redisClient != nil && len(tx.ReasonCodes) == 0 {
		result, err := s.redisClient.GetScoringResult(transactionID)
		if err == nil && result != nil {
			tx.RiskScore = result.RiskScore
			tx.ReasonCodes = result.ReasonCodes
		}
	}

	return tx, nil
}

// ListTransactions returns the most recent transactions, newest first.
func (s *TransactionServiceImpl) ListTransactions(limit int) ([]*models.Transaction, error) {
	return s.repo.ListTransactions(limit)
}

// ListAlerts returns the most recent flagged transactions.
func (s *TransactionServiceImpl) ListAlerts(limit int) ([]*models.Transaction, error) {
	return s.repo.ListByStatus(models.StatusFlagged, limit)
}

// ClearAllTransactions deletes every transaction and drops the cache.
func (s *TransactionServiceImpl) ClearAllTransactions() error {
	if err := s.repo.ClearAllTransactions(); err != nil {
		return err
	}
	if s.redisClient != nil {
		if err := s.redisClient.ClearTransactionData(); err != nil {
			return err
		}
	}
	return nil
}
