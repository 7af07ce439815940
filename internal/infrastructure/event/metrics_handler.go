package event

import (
	"context"

	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/domain/trade"
)

// BusinessRecorder receives the business counters derived from events
type BusinessRecorder interface {
	OrderCreated(storeID string, pieces int, amount float64)
	OrderCancelled(storeID string)
	TransferCompleted(quantity int)
	PurchaseOrderReceived(amount float64)
	PayrollGenerated(created, skipped, failed int)
}

// MetricsHandler turns domain events into business metrics
type MetricsHandler struct {
	recorder BusinessRecorder
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(recorder BusinessRecorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// EventTypes returns the events that carry business figures
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderCreated,
		trade.EventTypeOrderCancelled,
		trade.EventTypePurchaseOrderReceived,
		inventory.EventTypeTransferCompleted,
		payroll.EventTypePayrollGenerated,
	}
}

// Handle records the event. Unknown events are ignored.
func (h *MetricsHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderCreatedEvent:
		h.recorder.OrderCreated(e.StoreID.String(), e.Pieces, e.TotalAmount.InexactFloat64())
	case *trade.OrderCancelledEvent:
		h.recorder.OrderCancelled(e.StoreID.String())
	case *trade.PurchaseOrderReceivedEvent:
		h.recorder.PurchaseOrderReceived(e.TotalAmount.InexactFloat64())
	case *inventory.TransferCompletedEvent:
		h.recorder.TransferCompleted(e.Quantity)
	case *payroll.GeneratedEvent:
		h.recorder.PayrollGenerated(e.Created, e.Skipped, e.Failed)
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
