package mocks

import (
	"github.com/stretchr/testify/mock"

	"fraud-review-system/internal/models"
)

// MockTransactionRepository is a testify mock for storage.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) SaveTransaction(tx *models.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransaction(transactionID string) (*models.Transaction, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CompareAndSwapStatus(transactionID string, expected, next models.Status, riskScore *float64, appendCodes []string) (bool, error) {
	args := m.Called(transactionID, expected, next, riskScore, appendCodes)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) ApplyScoring(transactionID string, next models.Status, riskScore float64, appendCodes []string) (bool, error) {
	args := m.Called(transactionID, next, riskScore, appendCodes)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(limit int) ([]*models.Transaction, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByStatus(status models.Status, limit int) ([]*models.Transaction, error) {
	args := m.Called(status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ClearAllTransactions() error {
	args := m.Called()
	return args.Error(0)
}
