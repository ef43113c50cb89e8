package branch

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Branch, error)
	// FindAllForTenant lists branches; supports the "status" filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Branch, int64, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Branch, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, branch *Branch) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ServiceAreaRepository defines the interface for pincode mapping persistence
type ServiceAreaRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ServiceArea, error)
	// FindByPincode returns the mapping for a pincode regardless of active flag
	FindByPincode(ctx context.Context, tenantID uuid.UUID, pincode string) (*ServiceArea, error)
	// FindAllForTenant lists mappings; supports "branch_id" and "active" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ServiceArea, int64, error)
	CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error)
	// Save persists the mapping; a second branch claiming the same pincode
	// fails with ErrPincodeAlreadyMapped
	Save(ctx context.Context, area *ServiceArea) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// BrandingRepository persists the per tenant branding settings
type BrandingRepository interface {
	// FindForTenant returns shared.ErrNotFound when nothing was saved yet
	FindForTenant(ctx context.Context, tenantID uuid.UUID) (*BrandingSettings, error)
	Save(ctx context.Context, settings *BrandingSettings) error
}
