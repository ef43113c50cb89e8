package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByIDForTenant finds a user by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email within a tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)

	// FindAllForTenant lists users; supports "role" and "status" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)

	// ExistsByEmail checks whether the email is already registered
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
