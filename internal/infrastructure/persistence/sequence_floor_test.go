package persistence

import (
	"context"
	"testing"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSequenceFloor_LastIssued(t *testing.T) {
	db := newTestDB(t)
	orders := NewGormOrderRepository(db)
	floor := NewGormSequenceFloor(db)
	ctx := context.Background()

	storeID, whID, sp, productID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	for _, number := range []string{"SO-20261016-0003", "SO-20261016-0012", "SO-20261015-0099"} {
		require.NoError(t, orders.Create(ctx, newOrder(t, number, storeID, whID, sp, productID, 1, "100", day(2026, 10, 16, 9))))
	}

	last, err := floor.LastIssued(ctx, shared.SequenceSalesOrder, "20261016")
	require.NoError(t, err)
	assert.Equal(t, int64(12), last)

	last, err = floor.LastIssued(ctx, shared.SequenceSalesOrder, "20261017")
	require.NoError(t, err)
	assert.Zero(t, last, "no orders that day")

	last, err = floor.LastIssued(ctx, shared.SequenceTransfer, "20261016")
	require.NoError(t, err)
	assert.Zero(t, last)

	last, err = floor.LastIssued(ctx, "INV", "20261016")
	require.NoError(t, err)
	assert.Zero(t, last, "unknown prefixes have no table")
}

func TestGormSequenceFloor_PastFourDigits(t *testing.T) {
	db := newTestDB(t)
	orders := NewGormOrderRepository(db)
	ctx := context.Background()

	storeID, whID, sp, productID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	for _, number := range []string{"SO-20261016-9999", "SO-20261016-10000"} {
		require.NoError(t, orders.Create(ctx, newOrder(t, number, storeID, whID, sp, productID, 1, "100", day(2026, 10, 16, 9))))
	}

	last, err := NewGormSequenceFloor(db).LastIssued(ctx, shared.SequenceSalesOrder, "20261016")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), last)
}
