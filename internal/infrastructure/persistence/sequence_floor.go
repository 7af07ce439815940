package persistence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gemline/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

type numberColumn struct {
	table  string
	column string
}

// numberColumns maps each document prefix to the column holding its numbers
var numberColumns = map[string]numberColumn{
	shared.SequenceSalesOrder:    {table: "orders", column: "order_number"},
	shared.SequenceTransfer:      {table: "inventory_transfers", column: "transfer_number"},
	shared.SequencePurchaseOrder: {table: "purchase_orders", column: "po_number"},
}

// GormSequenceFloor implements shared.SequenceFloor over the document tables
type GormSequenceFloor struct {
	db *gorm.DB
}

var _ shared.SequenceFloor = (*GormSequenceFloor)(nil)

// NewGormSequenceFloor creates a new GormSequenceFloor
func NewGormSequenceFloor(db *gorm.DB) *GormSequenceFloor {
	return &GormSequenceFloor{db: db}
}

// LastIssued returns the largest NNNN of PREFIX-day-NNNN stored so far.
// Unknown prefixes have no table and report zero.
func (f *GormSequenceFloor) LastIssued(ctx context.Context, prefix, day string) (int64, error) {
	target, ok := numberColumns[prefix]
	if !ok {
		return 0, nil
	}
	stem := prefix + "-" + day + "-"

	// counters past 9999 grow a digit, so longer numbers sort first
	var numbers []string
	err := conn(ctx, f.db).
		Table(target.table).
		Where(target.column+" LIKE ?", stem+"%").
		Order(fmt.Sprintf("LENGTH(%s) DESC, %s DESC", target.column, target.column)).
		Limit(1).
		Pluck(target.column, &numbers).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read last %s number: %w", prefix, err)
	}
	if len(numbers) == 0 {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(numbers[0], stem), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s number %q: %w", prefix, numbers[0], err)
	}
	return n, nil
}
