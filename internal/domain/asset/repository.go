package asset

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// AssetRepository defines the interface for asset metadata persistence
type AssetRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Asset, error)
	// FindAllForTenant lists assets; supports "kind", "owner_type" and "owner_id"
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Asset, int64, error)
	Save(ctx context.Context, asset *Asset) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// Storage holds the bytes of assets
type Storage interface {
	// Put stores content under key
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error
	// Open returns a reader over the stored content; the caller closes it
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the content; missing keys are not an error
	Delete(ctx context.Context, key string) error
	// URL returns a link clients may download from directly
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
