package event

import (
	"context"
	"testing"

	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) OrderCreated(storeID string, pieces int, amount float64) {
	m.Called(storeID, pieces, amount)
}

func (m *mockRecorder) OrderCancelled(storeID string) {
	m.Called(storeID)
}

func (m *mockRecorder) TransferCompleted(quantity int) {
	m.Called(quantity)
}

func (m *mockRecorder) PurchaseOrderReceived(amount float64) {
	m.Called(amount)
}

func (m *mockRecorder) PayrollGenerated(created, skipped, failed int) {
	m.Called(created, skipped, failed)
}

func TestMetricsHandler_Handle(t *testing.T) {
	rec := new(mockRecorder)
	h := NewMetricsHandler(rec)
	ctx := context.Background()
	storeID := uuid.New()

	created := &trade.OrderCreatedEvent{StoreID: storeID, Pieces: 3, TotalAmount: decimal.RequireFromString("2250.50")}
	cancelled := &trade.OrderCancelledEvent{StoreID: storeID}
	received := &trade.PurchaseOrderReceivedEvent{TotalAmount: decimal.NewFromInt(9000)}
	moved := &inventory.TransferCompletedEvent{Quantity: 4}
	period, err := payroll.NewPeriod(2, 2026)
	require.NoError(t, err)
	generated := payroll.NewGeneratedEvent(period, 5, 2, 1, decimal.NewFromInt(12000))

	rec.On("OrderCreated", storeID.String(), 3, 2250.5).Once()
	rec.On("OrderCancelled", storeID.String()).Once()
	rec.On("PurchaseOrderReceived", 9000.0).Once()
	rec.On("TransferCompleted", 4).Once()
	rec.On("PayrollGenerated", 5, 2, 1).Once()

	require.NoError(t, h.Handle(ctx, created))
	require.NoError(t, h.Handle(ctx, cancelled))
	require.NoError(t, h.Handle(ctx, received))
	require.NoError(t, h.Handle(ctx, moved))
	require.NoError(t, h.Handle(ctx, generated))
	require.NoError(t, h.Handle(ctx, newNoteEvent("Unrelated")))

	rec.AssertExpectations(t)
	assert.Len(t, h.EventTypes(), 5)
}
