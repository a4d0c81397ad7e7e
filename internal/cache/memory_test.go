package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "forever", "x", 0))
	require.NoError(t, store.Set(ctx, "short", "y", time.Minute))

	now = now.Add(time.Hour)

	var v string
	ok, err := store.Get(ctx, "forever", &v)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Get(ctx, "short", &v)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len(), "expired keys are dropped on read")
}

func TestMemoryStore_ExpiredReadKeepsNewerValue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "state", "stale", time.Minute))
	now = now.Add(2 * time.Minute)

	// the first clock read inside Get happens after the read lock is
	// released; a writer refreshes the key right there
	refreshed := false
	store.now = func() time.Time {
		if !refreshed {
			refreshed = true
			require.NoError(t, store.Set(ctx, "state", "fresh", time.Hour))
		}
		return now
	}

	var v string
	ok, err := store.Get(ctx, "state", &v)
	require.NoError(t, err)
	assert.False(t, ok, "the value read was expired")

	ok, err = store.Get(ctx, "state", &v)
	require.NoError(t, err)
	require.True(t, ok, "the refreshed value survives")
	assert.Equal(t, "fresh", v)
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, k := range []string{"a_1", "a_2", "b_1"} {
		require.NoError(t, store.Set(ctx, k, 1, 0))
	}

	n, err := store.DeletePrefix(ctx, "a_")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.Len())
}
