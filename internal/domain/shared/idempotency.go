package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client supplied idempotency keys so that a
// retried request resolves to the resource created by the first attempt.
type IdempotencyStore interface {
	// Reserve stores value under key if the key is unused.
	// It returns the stored value and whether this call created it.
	Reserve(ctx context.Context, key, value string, ttl time.Duration) (string, bool, error)

	// Get returns the value stored under key, or "" when absent.
	Get(ctx context.Context, key string) (string, error)

	// Release forgets key, used when the guarded operation failed.
	Release(ctx context.Context, key string) error
}
