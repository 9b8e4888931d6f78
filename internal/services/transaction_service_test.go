package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	kafkamocks "fraud-review-system/internal/kafka/mocks"
	"fraud-review-system/internal/models"
	redismocks "fraud-review-system/internal/redis/mocks"
	storagemocks "fraud-review-system/internal/storage/mocks"
)

func TestProcessTransaction(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)

	repo.On("SaveTransaction", mock.AnythingOfType("*models.Transaction")).Return(nil)
	producer.On("SendTransactionEvent", mock.AnythingOfType("*models.TransactionEvent")).Return(nil)

	service := NewTransactionService(repo, producer)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	resp, err := service.ProcessTransaction(&models.IngestRequest{
		Transaction: models.Transaction{
			TransactionID: "TXN001",
			AccountID:     "ACC125",
			Amount:        2500,
			Merchant:      "Unknown Vendor",
			Timestamp:     ts,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "TXN001", resp.TransactionID)
	assert.Equal(t, models.StatusPending, resp.Status)
	assert.NotEmpty(t, resp.ProcessingID)

	repo.AssertExpectations(t)
	producer.AssertExpectations(t)

	// The published event carries the transaction with an RFC3339 timestamp.
	event := producer.Calls[0].Arguments.Get(0).(*models.TransactionEvent)
	assert.Equal(t, "TXN001", event.Data.TransactionID)
	assert.Equal(t, "ACC125", event.Data.AccountID)
	assert.Equal(t, ts.Format(time.RFC3339), event.Data.Timestamp)
	assert.NotEmpty(t, event.EventID)
}

func TestProcessTransaction_DefaultsTimestamp(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)

	repo.On("SaveTransaction", mock.AnythingOfType("*models.Transaction")).Return(nil)
	producer.On("SendTransactionEvent", mock.AnythingOfType("*models.TransactionEvent")).Return(nil)

	service := NewTransactionService(repo, producer)

	_, err := service.ProcessTransaction(&models.IngestRequest{
		Transaction: models.Transaction{
			TransactionID: "TXN002",
			AccountID:     "ACC001",
			Amount:        100,
		},
	})
	require.NoError(t, err)

	saved := repo.Calls[0].Arguments.Get(0).(*models.Transaction)
	assert.False(t, saved.Timestamp.IsZero())
	assert.Equal(t, models.StatusPending, saved.Status)
}

func TestProcessTransaction_SaveError(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)

	repo.On("SaveTransaction", mock.Anything).Return(errors.New("db down"))

	service := NewTransactionService(repo, producer)

	_, err := service.ProcessTransaction(&models.IngestRequest{
		Transaction: models.Transaction{TransactionID: "TXN003", Amount: 100},
	})

	require.Error(t, err)
	producer.AssertNotCalled(t, "SendTransactionEvent", mock.Anything)
}

func TestProcessTransaction_ProducerError(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)

	repo.On("SaveTransaction", mock.Anything).Return(nil)
	producer.On("SendTransactionEvent", mock.Anything).Return(errors.New("kafka unavailable"))

	service := NewTransactionService(repo, producer)

	_, err := service.ProcessTransaction(&models.IngestRequest{
		Transaction: models.Transaction{TransactionID: "TXN004", Amount: 100},
	})

	assert.Error(t, err)
}

func TestGetTransaction_EnrichedFromCache(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)
	redisClient := new(redismocks.MockClientInterface)

	// DB row has not caught up with the scoring pass yet.
	repo.On("GetTransaction", "TXN005").Return(&models.Transaction{
		TransactionID: "TXN005",
		Status:        models.StatusPending,
	}, nil)
	redisClient.On("GetScoringResult", "TXN005").Return(&models.ScoringResult{
		RiskScore:   0.75,
		ReasonCodes: []string{"high_amount"},
		Status:      models.StatusFlagged,
	}, nil)

	service := NewTransactionServiceWithRedis(repo, producer, redisClient)

	tx, err := service.GetTransaction("TXN005")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, 0.75, tx.RiskScore)
	assert.Equal(t, []string{"high_amount"}, tx.ReasonCodes)
}

func TestGetTransaction_CacheNotConsultedWhenCodesPresent(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)
	redisClient := new(redismocks.MockClientInterface)

	repo.On("GetTransaction", "TXN006").Return(&models.Transaction{
		TransactionID: "TXN006",
		Status:        models.StatusFlagged,
		RiskScore:     0.8,
		ReasonCodes:   []string{"high_amount"},
	}, nil)

	service := NewTransactionServiceWithRedis(repo, producer, redisClient)

	tx, err := service.GetTransaction("TXN006")
	require.NoError(t, err)
	assert.Equal(t, 0.8, tx.RiskScore)
	redisClient.AssertNotCalled(t, "GetScoringResult", mock.Anything)
}

func TestGetTransaction_Unknown(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)

	repo.On("GetTransaction", "NONEXISTENT").Return(nil, nil)

	service := NewTransactionService(repo, producer)

	tx, err := service.GetTransaction("NONEXISTENT")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestListAlerts_QueriesFlagged(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)

	repo.On("ListByStatus", models.StatusFlagged, 20).Return([]*models.Transaction{
		{TransactionID: "TXN007", Status: models.StatusFlagged},
	}, nil)

	service := NewTransactionService(repo, producer)

	alerts, err := service.ListAlerts(20)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
	repo.AssertExpectations(t)
}

func TestClearAllTransactions_AlsoClearsCache(t *testing.T) {
	repo := new(storagemocks.MockTransactionRepository)
	producer := new(kafkamocks.MockProducer)
	redisClient := new(redismocks.MockClientInterface)

	repo.On("ClearAllTransactions").Return(nil)
	redisClient.On("ClearTransactionData").Return(nil)

	service := NewTransactionServiceWithRedis(repo, producer, redisClient)

	require.NoError(t, service.ClearAllTransactions())
	repo.AssertExpectations(t)
	redisClient.AssertExpectations(t)
}
