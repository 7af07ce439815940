package inventory

import (
	"strings"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Warehouse is a stock location. Each store has a back room; the chain also
// keeps a central vault that belongs to no store.
type Warehouse struct {
	shared.BaseAggregateRoot
	Code     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string     `gorm:"type:varchar(200);not null"`
	StoreID  *uuid.UUID `gorm:"type:uuid;index"`
	Address  string     `gorm:"type:varchar(500)"`
	IsActive bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates an active warehouse
func NewWarehouse(code, name string, storeID *uuid.UUID) (*Warehouse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code must be 1-50 characters")
	}
	w := &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		StoreID:           storeID,
		IsActive:          true,
	}
	if err := w.Update(name, ""); err != nil {
		return nil, err
	}
	return w, nil
}

// Update replaces name and address
func (w *Warehouse) Update(name, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	w.Name = name
	w.Address = strings.TrimSpace(address)
	w.Touch()
	return nil
}

// Deactivate stops the warehouse from taking part in transfers and sales
func (w *Warehouse) Deactivate() error {
	if !w.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Warehouse is already inactive")
	}
	w.IsActive = false
	w.Touch()
	return nil
}

// BelongsTo reports whether the warehouse is the back room of the given store
func (w *Warehouse) BelongsTo(storeID uuid.UUID) bool {
	return w.StoreID != nil && *w.StoreID == storeID
}
