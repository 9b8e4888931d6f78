package mocks

import (
	"github.com/stretchr/testify/mock"

	"fraud-review-system/internal/models"
)

// MockTransactionService is a testify mock for services.TransactionService.
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) ProcessTransaction(req *models.IngestRequest) (*models.IngestResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IngestResponse), args.Error(1)
}

func (m *MockTransactionService) GetTransaction(transactionID string) (*models.Transaction, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(limit int) ([]*models.Transaction, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListAlerts(limit int) ([]*models.Transaction, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) ClearAllTransactions() error {
	args := m.Called()
	return args.Error(0)
}
