package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindAllForTenant lists payments. Supported filters: "status", "method",
	// "invoice_id", "customer_id", "from" and "to".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Payment, int64, error)

	// SumCapturedByInvoice totals CAPTURED payments of an invoice
	SumCapturedByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error)

	Save(ctx context.Context, payment *Payment) error

	// GeneratePaymentNumber returns the next PAY-YYYYMMDD-NNNNN number
	GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
