package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForTenant loads a customer with its addresses
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindByPhone finds a customer by normalized phone number
	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*Customer, error)

	// FindAllForTenant lists customers; Search matches name, phone and email,
	// the "status" filter narrows by status
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)

	// ExistsByPhone checks whether a phone number is taken
	ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error)

	// CountForTenant counts customers of a tenant
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// Save creates or updates a customer and replaces its addresses
	Save(ctx context.Context, customer *Customer) error

	// DeleteForTenant removes a customer and its addresses
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
