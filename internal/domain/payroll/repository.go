package payroll

import (
	"context"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines persistence for payroll records
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payroll, error)
	Exists(ctx context.Context, userID uuid.UUID, p Period) (bool, error)
	// FindAll supports filters: month, year, store_id, user_id, status
	FindAll(ctx context.Context, filter shared.Filter) ([]Payroll, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// CreateIfAbsent inserts the record unless one already exists for the
	// same user and period. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, p *Payroll) (bool, error)
	Save(ctx context.Context, p *Payroll) error
}
