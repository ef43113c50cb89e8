package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/analytics"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormRevenueRepository reads invoice and payment projections for revenue reports
type GormRevenueRepository struct {
	db *gorm.DB
}

// NewGormRevenueRepository creates a new GormRevenueRepository
func NewGormRevenueRepository(db *gorm.DB) *GormRevenueRepository {
	return &GormRevenueRepository{db: db}
}

type invoiceRecordRow struct {
	ID       uuid.UUID
	BranchID uuid.UUID
	Type     string
	Status   string
	Total    decimal.Decimal
	IssuedAt *time.Time
}

type paymentRecordRow struct {
	ID         uuid.UUID
	BranchID   uuid.UUID
	Status     string
	Amount     decimal.Decimal
	CapturedAt *time.Time
}

// FindInvoiceRecords returns FINAL ISSUED invoices issued within the period
func (r *GormRevenueRepository) FindInvoiceRecords(ctx context.Context, tenantID uuid.UUID, period analytics.Period, branchID *uuid.UUID) ([]analytics.InvoiceRecord, error) {
	window := period.Range()
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(forTenant(tenantID)).
		Select("id, branch_id, type, status, total, issued_at").
		Where("type = ? AND status = ?", billing.TypeFinal, billing.StatusIssued).
		Where("issued_at >= ? AND issued_at <= ?", window.From.UTC(), window.To.UTC())
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var rows []invoiceRecordRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, translateError(err, "Invoice")
	}

	records := make([]analytics.InvoiceRecord, len(rows))
	for i, row := range rows {
		records[i] = analytics.InvoiceRecord{
			ID:       row.ID,
			BranchID: row.BranchID,
			Type:     billing.InvoiceType(row.Type),
			Status:   billing.Status(row.Status),
			Total:    row.Total,
			IssuedAt: row.IssuedAt,
		}
	}
	return records, nil
}

// FindPaymentRecords returns CAPTURED payments captured within the period,
// attributed to the branch of their invoice
func (r *GormRevenueRepository) FindPaymentRecords(ctx context.Context, tenantID uuid.UUID, period analytics.Period, branchID *uuid.UUID) ([]analytics.PaymentRecord, error) {
	window := period.Range()
	query := r.db.WithContext(ctx).Table("payments").
		Select("payments.id, invoices.branch_id, payments.status, payments.amount, payments.captured_at").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id AND invoices.tenant_id = payments.tenant_id").
		Where("payments.tenant_id = ? AND payments.status = ?", tenantID, payment.StatusCaptured).
		Where("payments.captured_at >= ? AND payments.captured_at <= ?", window.From.UTC(), window.To.UTC())
	if branchID != nil {
		query = query.Where("invoices.branch_id = ?", *branchID)
	}

	var rows []paymentRecordRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, translateError(err, "Payment")
	}

	records := make([]analytics.PaymentRecord, len(rows))
	for i, row := range rows {
		records[i] = analytics.PaymentRecord{
			ID:         row.ID,
			BranchID:   row.BranchID,
			Status:     payment.Status(row.Status),
			Amount:     row.Amount,
			CapturedAt: row.CapturedAt,
		}
	}
	return records, nil
}

// AverageRating returns the mean feedback rating, nil when no order has feedback
func (r *GormRevenueRepository) AverageRating(ctx context.Context, tenantID uuid.UUID) (*decimal.Decimal, error) {
	var result struct {
		Average sql.NullFloat64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(forTenant(tenantID)).
		Where("feedback_rating IS NOT NULL").
		Select("AVG(feedback_rating) AS average").
		Scan(&result).Error; err != nil {
		return nil, translateError(err, "Order")
	}
	if !result.Average.Valid {
		return nil, nil
	}
	avg := decimal.NewFromFloat(result.Average.Float64).Round(2)
	return &avg, nil
}

var _ analytics.RevenueRepository = (*GormRevenueRepository)(nil)
