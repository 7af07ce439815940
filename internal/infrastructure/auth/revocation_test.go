package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRevocationStore_Revoke(t *testing.T) {
	store := auth.NewInMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryRevocationStore_Expiry(t *testing.T) {
	store := auth.NewInMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := store.IsRevoked(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryRevocationStore_RevokeUser(t *testing.T) {
	store := auth.NewInMemoryRevocationStore()
	ctx := context.Background()
	issuedEarlier := time.Now().Add(-time.Hour)

	revoked, err := store.IsUserRevoked(ctx, "user-1", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeUser(ctx, "user-1", 24*time.Hour))

	revoked, err = store.IsUserRevoked(ctx, "user-1", issuedEarlier)
	require.NoError(t, err)
	assert.True(t, revoked)

	// a token minted after the cutoff, e.g. on the next login
	revoked, err = store.IsUserRevoked(ctx, "user-1", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = store.IsUserRevoked(ctx, "user-2", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, revoked)
}
