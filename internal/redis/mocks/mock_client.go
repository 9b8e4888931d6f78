package mocks

import (
	"github.com/stretchr/testify/mock"

	"fraud-review-system/internal/models"
)

// MockClientInterface is a testify mock for redis.ClientInterface.
type MockClientInterface struct {
	mock.Mock
}

func (m *MockClientInterface) SaveScoringResult(transactionID string, result *models.ScoringResult) error {
	args := m.Called(transactionID, result)
	return args.Error(0)
}

func (m *MockClientInterface) GetScoringResult(transactionID string) (*models.ScoringResult, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScoringResult), args.Error(1)
}

func (m *MockClientInterface) IncrementStatusStats(status models.Status) error {
	args := m.Called(status)
	return args.Error(0)
}

func (m *MockClientInterface) GetStatusStats() (map[string]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockClientInterface) ClearTransactionData() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockClientInterface) Close() error {
	args := m.Called()
	return args.Error(0)
}
