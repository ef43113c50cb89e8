package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// PlanRepository defines the interface for plan persistence
type PlanRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Plan, error)
	// FindAllForTenant lists plans; supports the "active" filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Plan, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, plan *Plan) error
}

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Subscription, error)

	// FindActiveByCustomer returns the ACTIVE subscription of a customer
	FindActiveByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*Subscription, error)

	// FindAllForTenant lists subscriptions; supports "status", "customer_id"
	// and "plan_id" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Subscription, int64, error)

	// FindDueForExpiry returns ACTIVE subscriptions of every tenant whose
	// window closed before now
	FindDueForExpiry(ctx context.Context, now time.Time, limit int) ([]Subscription, error)

	// CountActive counts ACTIVE subscriptions of a tenant
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// Save creates or updates a subscription
	Save(ctx context.Context, sub *Subscription) error

	// SaveWithLock saves with an optimistic version check and bumps the version
	SaveWithLock(ctx context.Context, sub *Subscription) error
}
