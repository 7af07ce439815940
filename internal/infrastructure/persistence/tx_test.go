package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTxManager_WithinTx(t *testing.T) {
	db := newTestDB(t)
	tm := NewGormTxManager(db)
	stores := NewGormStoreRepository(db)
	fx := newFixtures(t, db)

	t.Run("commits on success", func(t *testing.T) {
		s := fx.store("TX01")
		err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
			assert.True(t, InTx(ctx))
			s.Name = "renamed"
			return stores.Save(ctx, s)
		})
		require.NoError(t, err)

		got, err := stores.FindByCode(context.Background(), "TX01")
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Name)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		s := fx.store("TX02")
		err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
			s.Name = "never"
			if err := stores.Save(ctx, s); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := stores.FindByCode(context.Background(), "TX02")
		require.NoError(t, err)
		assert.NotEqual(t, "never", got.Name)
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		s := fx.store("TX03")
		err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
			inner := tm.WithinTx(ctx, func(ctx context.Context) error {
				s.Name = "inner"
				return stores.Save(ctx, s)
			})
			require.NoError(t, inner)
			return errors.New("outer fails")
		})
		require.Error(t, err)

		got, err := stores.FindByCode(context.Background(), "TX03")
		require.NoError(t, err)
		assert.NotEqual(t, "inner", got.Name)
	})

	assert.False(t, InTx(context.Background()))
}
