package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByIDForTenant loads an order with its items and feedback
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order and locks its row for the rest of the
	// current transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its number
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindAllForTenant lists orders. Supported filters: "status", "customer_id",
	// "branch_id", "from" and "to" (time.Time, on pickup date).
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, int64, error)

	// CountByStatus returns the number of orders per status
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[Status]int64, error)

	// CountByCustomer counts orders of a customer
	CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)

	// Save creates or updates an order and replaces its items
	Save(ctx context.Context, order *Order) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, order *Order) error

	// GenerateOrderNumber returns the next LO-YYYY-NNNNN number for the tenant
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
