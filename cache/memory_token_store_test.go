package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himuexe/Utsavia/cache"
)

func TestMemoryTokenStore(t *testing.T) {
	store := cache.NewMemoryTokenStore(time.Minute)
	defer store.Close()

	ctx := context.Background()

	entry := &cache.Entry{
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, store.Set(ctx, "token-value", entry))

	got, ok := store.Get(ctx, "token-value")
	require.True(t, ok)
	assert.Equal(t, "user-1", got.UserID)

	_, ok = store.Get(ctx, "other-token")
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "token-value"))
	_, ok = store.Get(ctx, "token-value")
	assert.False(t, ok)
}

func TestMemoryTokenStoreExpiredEntry(t *testing.T) {
	store := cache.NewMemoryTokenStore(time.Minute)
	defer store.Close()

	ctx := context.Background()

	// An entry that already expired must never be stored.
	entry := &cache.Entry{
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, store.Set(ctx, "expired", entry))

	_, ok := store.Get(ctx, "expired")
	assert.False(t, ok)
}

func TestHashTokenIsStable(t *testing.T) {
	a := cache.HashToken("abc")
	b := cache.HashToken("abc")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, cache.HashToken("abd"))
}
