package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dashboard is the back-office landing summary
type Dashboard struct {
	OrdersByStatus      map[string]int64
	OpenOrders          int64
	ActiveSubscriptions int64
	Customers           int64
	MonthInvoiced       decimal.Decimal
	MonthCollected      decimal.Decimal
	AverageRating       *decimal.Decimal
}

// RevenueRepository loads the raw records behind a revenue report. The
// implementation may pre-filter, CalculateRevenue applies the rules again.
type RevenueRepository interface {
	// FindInvoiceRecords returns FINAL ISSUED invoices issued in the period
	FindInvoiceRecords(ctx context.Context, tenantID uuid.UUID, period Period, branchID *uuid.UUID) ([]InvoiceRecord, error)
	// FindPaymentRecords returns CAPTURED payments captured in the period
	FindPaymentRecords(ctx context.Context, tenantID uuid.UUID, period Period, branchID *uuid.UUID) ([]PaymentRecord, error)
	// AverageRating returns the mean feedback rating, nil without feedback
	AverageRating(ctx context.Context, tenantID uuid.UUID) (*decimal.Decimal, error)
}
