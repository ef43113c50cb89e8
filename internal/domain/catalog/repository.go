package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// ServiceItemRepository defines the interface for price list persistence
type ServiceItemRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ServiceItem, error)
	// FindByIDs returns the services among ids that exist for the tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ServiceItem, error)
	// FindAllForTenant lists services; supports "category" and "active" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ServiceItem, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, item *ServiceItem) error
}
