package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForTenant loads an invoice with its items
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate loads an invoice and locks its row until the current
	// transaction ends. Payments against one invoice serialize on this lock.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByOrder lists every invoice raised for an order
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]Invoice, error)

	// FindAllForTenant lists invoices. Supported filters: "type", "status",
	// "statuses" ([]string), "customer_id", "order_id", "from" and "to"
	// (on created_at).
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)

	// ExistsFinalForOrder reports whether a non-void FINAL invoice exists
	ExistsFinalForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error)

	// Save creates or updates an invoice and replaces its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// NextSequence returns the next number in the prefix/type/month series
	NextSequence(ctx context.Context, tenantID uuid.UUID, prefix string, invoiceType InvoiceType, at time.Time) (int64, error)
}
