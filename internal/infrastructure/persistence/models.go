package persistence

import (
	"github.com/gemline/backoffice/internal/domain/catalog"
	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/domain/inventory"
	"github.com/gemline/backoffice/internal/domain/partner"
	"github.com/gemline/backoffice/internal/domain/payroll"
	"github.com/gemline/backoffice/internal/domain/store"
	"github.com/gemline/backoffice/internal/domain/trade"
	"github.com/gemline/backoffice/internal/domain/workforce"
)

// Models lists every persisted domain type in dependency order
func Models() []any {
	return []any{
		&store.Store{},
		&identity.User{},
		&catalog.Category{},
		&partner.Supplier{},
		&catalog.Product{},
		&inventory.Warehouse{},
		&inventory.InventoryItem{},
		&inventory.InventoryTransfer{},
		&trade.Order{},
		&trade.OrderItem{},
		&trade.PurchaseOrder{},
		&trade.PurchaseOrderItem{},
		&workforce.Shift{},
		&workforce.AttendanceRecord{},
		&payroll.Payroll{},
	}
}
