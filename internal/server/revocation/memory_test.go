package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_StoreThenContains(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	ok, err := store.Contains(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Store(ctx, "tok-1"))

	ok, err = store.Contains(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_LazyExpiry(t *testing.T) {
	store := NewMemoryStore(time.Second)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "tok-1"))

	ok, err := store.Contains(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)

	ok, err = store.Contains(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, ok, "entry must be treated as absent after its TTL")
}

func TestMemoryStore_WriteDropsExpiredRows(t *testing.T) {
	store := NewMemoryStore(time.Second)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "old"))
	now = now.Add(2 * time.Second)
	require.NoError(t, store.Store(ctx, "old2"))

	// "old" hashes to some shard; storing any token in that shard after its
	// expiry removes it. Exercise via Contains either way.
	ok, err := store.Contains(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
}
