package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "catalog_cursor", "3"))

	value, ok, err := store.Get(ctx, 1, "catalog_cursor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", value)

	_, ok, err = store.Get(ctx, 2, "catalog_cursor")
	require.NoError(t, err)
	assert.False(t, ok, "scoped by chat id")
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "prompt", "promo"))
	now = now.Add(2 * time.Minute)

	_, ok, err := store.Get(ctx, 1, "prompt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "a", "1"))
	require.NoError(t, store.Set(ctx, 1, "b", "2"))
	require.NoError(t, store.Clear(ctx, 1, "a", "b"))

	_, ok, err := store.Get(ctx, 1, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
