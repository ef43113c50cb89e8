package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Revoke(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_EntriesExpire(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, blacklist.Revoke(ctx, "jti-expire", time.Minute))
	now = now.Add(2 * time.Minute)

	revoked, err := blacklist.IsRevoked(ctx, "jti-expire")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, blacklist.jtis)
}

func TestInMemoryTokenBlacklist_ExpiredTokenIsNotStored(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()

	require.NoError(t, blacklist.Revoke(context.Background(), "jti-old", 0))

	assert.Empty(t, blacklist.jtis)
}

func TestInMemoryTokenBlacklist_RevokeUser(t *testing.T) {
	blacklist := NewInMemoryTokenBlacklist()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	blacklist.now = func() time.Time { return now }
	ctx := context.Background()

	revoked, err := blacklist.IsUserRevoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err = blacklist.IsUserRevoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsUserRevoked(ctx, "user-1", now.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = blacklist.IsUserRevoked(ctx, "user-2", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
}

// Runs against a real server when LAUNDRY_TEST_REDIS_ADDR is set
func TestRedisTokenBlacklist(t *testing.T) {
	addr := os.Getenv("LAUNDRY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LAUNDRY_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())
	blacklist := NewRedisTokenBlacklist(client)

	jti := uuid.NewString()
	require.NoError(t, blacklist.Revoke(ctx, jti, time.Minute))
	revoked, err := blacklist.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	userID := uuid.NewString()
	require.NoError(t, blacklist.RevokeUser(ctx, userID, time.Minute))
	revoked, err = blacklist.IsUserRevoked(ctx, userID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = blacklist.IsUserRevoked(ctx, userID, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, revoked)
}
