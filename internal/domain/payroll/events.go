package payroll

import (
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypePayrollGenerated is published once per batch run
const EventTypePayrollGenerated = "PayrollGenerated"

// GeneratedEvent summarizes a payroll run
type GeneratedEvent struct {
	shared.BaseDomainEvent
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Created     int             `json:"created"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewGeneratedEvent creates a GeneratedEvent. The aggregate ID is a fresh run ID.
func NewGeneratedEvent(p Period, created, skipped, failed int, total decimal.Decimal) *GeneratedEvent {
	return &GeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayrollGenerated, "PayrollRun", uuid.New()),
		Month:           p.Month,
		Year:            p.Year,
		Created:         created,
		Skipped:         skipped,
		Failed:          failed,
		TotalAmount:     total,
	}
}
