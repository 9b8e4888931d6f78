package mocks

import (
	"github.com/stretchr/testify/mock"

	"fraud-review-system/internal/models"
)

// MockProducer is a testify mock for kafka.Producer.
type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) SendTransactionEvent(event *models.TransactionEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}
