package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedReport struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func TestInMemoryResultCache(t *testing.T) {
	c := NewInMemoryResultCache()
	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	var got cachedReport
	hit, err := c.Get(ctx, "revenue:t1:2026-05", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := cachedReport{Total: decimal.RequireFromString("342.20"), Count: 3}
	require.NoError(t, c.Set(ctx, "revenue:t1:2026-05", want, time.Minute))

	hit, err = c.Get(ctx, "revenue:t1:2026-05", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, want.Total.Equal(got.Total))
	assert.Equal(t, 3, got.Count)

	now = now.Add(time.Minute)
	hit, err = c.Get(ctx, "revenue:t1:2026-05", &got)
	require.NoError(t, err)
	assert.False(t, hit, "entries expire after their ttl")
	assert.Equal(t, 0, c.Len())
}

func TestInMemoryResultCache_DeletePrefix(t *testing.T) {
	c := NewInMemoryResultCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "revenue:t1:a", 1, time.Hour))
	require.NoError(t, c.Set(ctx, "revenue:t1:b", 2, time.Hour))
	require.NoError(t, c.Set(ctx, "revenue:t2:a", 3, time.Hour))

	require.NoError(t, c.DeletePrefix(ctx, "revenue:t1:"))

	assert.Equal(t, 1, c.Len())
}

func TestNewStores_WithoutRedis(t *testing.T) {
	stores := NewStores(nil, nil)

	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.IsType(t, &InMemoryResultCache{}, stores.Results)
	assert.NoError(t, stores.Idempotency.(*InMemoryIdempotencyStore).Close())
}
