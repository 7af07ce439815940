package inventory

import (
	"testing"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryItem_Increase(t *testing.T) {
	item, err := NewInventoryItem(uuid.New(), uuid.New())
	require.NoError(t, err)

	cost := decimal.NewFromInt(100)
	require.NoError(t, item.Increase(2, &cost))
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(100)))

	cost = decimal.NewFromInt(160)
	require.NoError(t, item.Increase(2, &cost))
	assert.Equal(t, 4, item.Quantity)
	assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(130)), item.UnitCost.String())
	assert.True(t, item.StockValue().Equal(decimal.NewFromInt(520)))

	require.NoError(t, item.Increase(1, nil))
	assert.True(t, item.UnitCost.Equal(decimal.NewFromInt(130)))

	assert.Error(t, item.Increase(0, nil))
}

func TestInventoryItem_Decrease(t *testing.T) {
	item, err := NewInventoryItem(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, item.Increase(5, nil))

	require.NoError(t, item.Decrease(5))
	assert.Equal(t, 0, item.Quantity)

	err = item.Decrease(1)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 0, item.Quantity)
}

func TestInventoryItem_Adjust(t *testing.T) {
	item, err := NewInventoryItem(uuid.New(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, item.Adjust(3))
	require.NoError(t, item.Adjust(-2))
	assert.Equal(t, 1, item.Quantity)
	assert.Error(t, item.Adjust(0))
	assert.ErrorIs(t, item.Adjust(-2), shared.ErrInsufficientStock)
}

func TestNewInventoryItem_RequiresIDs(t *testing.T) {
	_, err := NewInventoryItem(uuid.Nil, uuid.New())
	assert.Error(t, err)
	_, err = NewInventoryItem(uuid.New(), uuid.Nil)
	assert.Error(t, err)
}

func TestInventoryItem_QuantityLimits(t *testing.T) {
	item, err := NewInventoryItem(uuid.New(), uuid.New())
	require.NoError(t, err)

	invalid := shared.NewDomainError("INVALID_QUANTITY", "")
	assert.ErrorIs(t, item.Increase(shared.MaxQuantity+1, nil), invalid)
	assert.ErrorIs(t, item.Adjust(-3_000_000_000), invalid)
	assert.Zero(t, item.Quantity)

	item.Quantity = shared.MaxStockQuantity - 1
	require.NoError(t, item.Increase(1, nil))
	assert.ErrorIs(t, item.Increase(1, nil), invalid, "row would overflow its column")
	assert.Equal(t, shared.MaxStockQuantity, item.Quantity)
}
