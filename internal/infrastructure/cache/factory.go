package cache

import (
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the key-value backed stores used by the API process
type Stores struct {
	Idempotency shared.IdempotencyStore
	Results     ResultCache
}

// NewStores picks Redis backed stores when a client is given and in-memory
// ones otherwise. In-memory stores are not shared across replicas.
func NewStores(client redis.UniversalClient, logger *zap.Logger) Stores {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		logger.Warn("Redis disabled, using in-memory idempotency store and result cache")
		return Stores{
			Idempotency: NewInMemoryIdempotencyStore(),
			Results:     NewInMemoryResultCache(),
		}
	}
	logger.Info("Using Redis idempotency store and result cache")
	return Stores{
		Idempotency: NewRedisIdempotencyStore(client),
		Results:     NewRedisResultCache(client, logger.Named("cache")),
	}
}
