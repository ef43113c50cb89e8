package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Reserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	t.Run("first reservation wins", func(t *testing.T) {
		value, created, err := store.Reserve(ctx, "key-1", "payment-a", time.Hour)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "payment-a", value)
	})

	t.Run("retry resolves to the original value", func(t *testing.T) {
		value, created, err := store.Reserve(ctx, "key-1", "payment-b", time.Hour)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "payment-a", value)
	})

	t.Run("expired key can be reserved again", func(t *testing.T) {
		_, _, err := store.Reserve(ctx, "key-2", "first", time.Minute)
		require.NoError(t, err)
		now = now.Add(2 * time.Minute)

		value, created, err := store.Reserve(ctx, "key-2", "second", time.Minute)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "second", value)
	})
}

func TestInMemoryIdempotencyStore_GetAndRelease(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	value, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, value)

	_, _, err = store.Reserve(ctx, "key", "payment-a", time.Hour)
	require.NoError(t, err)

	value, err = store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "payment-a", value)

	require.NoError(t, store.Release(ctx, "key"))
	value, err = store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Empty(t, value)
	assert.Equal(t, 0, store.Size())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, _, _ = store.Reserve(ctx, "short", "a", time.Minute)
	_, _, _ = store.Reserve(ctx, "long", "b", time.Hour)
	now = now.Add(10 * time.Minute)

	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentReserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := store.Reserve(ctx, "shared", fmt.Sprintf("v-%d", i), time.Hour)
			assert.NoError(t, err)
			if created {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
