package shared

import (
	"fmt"
	"math"
)

// MaxQuantity bounds the pieces a single movement (sale line, transfer,
// receipt line or adjustment) may carry.
const MaxQuantity = 1_000_000

// MaxStockQuantity is the most a stock row can hold; quantities are stored
// as 32-bit integers.
const MaxStockQuantity = math.MaxInt32

// CheckQuantity validates the size of a single movement
func CheckQuantity(quantity int) error {
	if quantity <= 0 {
		return NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > MaxQuantity {
		return NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity cannot exceed %d", MaxQuantity))
	}
	return nil
}
