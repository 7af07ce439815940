package inventory

import (
	"testing"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(t *testing.T) *InventoryTransfer {
	t.Helper()
	tr, err := NewInventoryTransfer("TRF-20260101-0001", uuid.New(), uuid.New(), uuid.New(), 3, uuid.New())
	require.NoError(t, err)
	return tr
}

func TestNewInventoryTransfer(t *testing.T) {
	src, dst, product, user := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name     string
		number   string
		src, dst uuid.UUID
		product  uuid.UUID
		qty      int
		wantCode string
	}{
		{name: "valid", number: "TRF-1", src: src, dst: dst, product: product, qty: 2},
		{name: "same warehouse", number: "TRF-1", src: src, dst: src, product: product, qty: 2, wantCode: "SAME_WAREHOUSE"},
		{name: "zero quantity", number: "TRF-1", src: src, dst: dst, product: product, qty: 0, wantCode: "INVALID_QUANTITY"},
		{name: "negative quantity", number: "TRF-1", src: src, dst: dst, product: product, qty: -4, wantCode: "INVALID_QUANTITY"},
		{name: "missing product", number: "TRF-1", src: src, dst: dst, qty: 1, wantCode: "INVALID_PRODUCT"},
		{name: "missing number", src: src, dst: dst, product: product, qty: 1, wantCode: "INVALID_TRANSFER_NUMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewInventoryTransfer(tt.number, tt.src, tt.dst, tt.product, tt.qty, user)
			if tt.wantCode != "" {
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tt.wantCode, de.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TransferStatusPending, tr.Status)
			assert.Len(t, tr.GetDomainEvents(), 1)
		})
	}
}

func TestTransferStatus_CanTransitionTo(t *testing.T) {
	allowed := map[TransferStatus][]TransferStatus{
		TransferStatusPending:   {TransferStatusApproved, TransferStatusRejected},
		TransferStatusApproved:  {TransferStatusCompleted},
		TransferStatusRejected:  {},
		TransferStatusCompleted: {},
	}
	all := []TransferStatus{TransferStatusPending, TransferStatusApproved, TransferStatusRejected, TransferStatusCompleted}

	for from, targets := range allowed {
		for _, to := range all {
			want := false
			for _, a := range targets {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestInventoryTransfer_Workflow(t *testing.T) {
	manager := uuid.New()

	t.Run("approve then complete", func(t *testing.T) {
		tr := newTestTransfer(t)
		require.NoError(t, tr.Approve(manager))
		assert.Equal(t, TransferStatusApproved, tr.Status)
		assert.Equal(t, &manager, tr.DecidedBy)

		require.NoError(t, tr.Complete(manager))
		assert.Equal(t, TransferStatusCompleted, tr.Status)
		assert.NotNil(t, tr.CompletedAt)
		assert.True(t, tr.Status.IsTerminal())
	})

	t.Run("cannot complete a pending transfer", func(t *testing.T) {
		tr := newTestTransfer(t)
		err := tr.Complete(manager)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		tr := newTestTransfer(t)
		assert.Error(t, tr.Reject(manager, "  "))
		require.NoError(t, tr.Reject(manager, "stock reserved for a wedding order"))
		assert.Equal(t, TransferStatusRejected, tr.Status)
	})

	t.Run("rejected transfer cannot be completed or approved", func(t *testing.T) {
		tr := newTestTransfer(t)
		require.NoError(t, tr.Reject(manager, "no"))
		assert.ErrorIs(t, tr.Complete(manager), shared.ErrInvalidState)
		assert.ErrorIs(t, tr.Approve(manager), shared.ErrInvalidState)
	})

	t.Run("completed transfer cannot complete twice", func(t *testing.T) {
		tr := newTestTransfer(t)
		require.NoError(t, tr.Approve(manager))
		require.NoError(t, tr.Complete(manager))
		assert.ErrorIs(t, tr.Complete(manager), shared.ErrInvalidState)
	})
}
