package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ResultCache stores JSON encoded query results, such as revenue reports,
// under caller built keys
type ResultCache interface {
	// Get decodes the cached value into dest; false on a miss
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix drops every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

const (
	resultKeyPrefix      = "laundry:cache:"
	defaultScanBatchSize = 100
)

// RedisResultCache implements ResultCache using Redis
type RedisResultCache struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisResultCache creates a result cache on a shared client
func NewRedisResultCache(client redis.UniversalClient, logger *zap.Logger) *RedisResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisResultCache{client: client, logger: logger}
}

// Get retrieves a cached result
func (c *RedisResultCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	cacheKey := resultKeyPrefix + key

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Dropping corrupted cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, cacheKey)
		return false, nil
	}
	return true, nil
}

// Set stores a result with a TTL
func (c *RedisResultCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, resultKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

// DeletePrefix scans and deletes matching keys in batches
func (c *RedisResultCache) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	pattern := resultKeyPrefix + prefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var _ ResultCache = (*RedisResultCache)(nil)

type resultEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryResultCache implements ResultCache in process memory
type InMemoryResultCache struct {
	mu      sync.Mutex
	entries map[string]resultEntry
	now     func() time.Time
}

// NewInMemoryResultCache creates an empty in-memory cache
func NewInMemoryResultCache() *InMemoryResultCache {
	return &InMemoryResultCache{
		entries: make(map[string]resultEntry),
		now:     time.Now,
	}
}

// Get retrieves a cached result, evicting it when expired
func (c *InMemoryResultCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Set stores a copy of value
func (c *InMemoryResultCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resultEntry{data: data, expiresAt: c.now().Add(ttl)}
	return nil
}

// DeletePrefix drops all matching entries
func (c *InMemoryResultCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len returns the number of stored entries
func (c *InMemoryResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

var _ ResultCache = (*InMemoryResultCache)(nil)
