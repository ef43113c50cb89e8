package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForTenant finds a payment by ID within a tenant
func (r *GormPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Payment")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists payments of a tenant
func (r *GormPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payment.Payment, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "payment_number", "reference"))
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if method, ok := filterString(filter, "method"); ok {
		query = query.Where("method = ?", method)
	}
	if invoiceID, ok := filterUUID(filter, "invoice_id"); ok {
		query = query.Where("invoice_id = ?", invoiceID)
	}
	if customerID, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if from, ok := filterTime(filter, "from"); ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := filterTime(filter, "to"); ok {
		query = query.Where("created_at <= ?", to)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Payment")
	}

	var paymentModels []models.PaymentModel
	if err := query.Scopes(paginate(filter, PaymentSortFields)).Find(&paymentModels).Error; err != nil {
		return nil, 0, translateError(err, "Payment")
	}

	payments := make([]payment.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments, total, nil
}

// SumCapturedByInvoice totals CAPTURED payments of an invoice
func (r *GormPaymentRepository) SumCapturedByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Scopes(forTenant(tenantID)).
		Where("invoice_id = ? AND status = ?", invoiceID, payment.StatusCaptured).
		Select("SUM(amount) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, translateError(err, "Payment")
	}
	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal.Round(2), nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	model := &models.PaymentModel{}
	model.FromDomain(p)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "Payment")
}

// GeneratePaymentNumber returns the next PAY-YYYYMMDD-NNNNN number
func (r *GormPaymentRepository) GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	seq, err := nextSequence(ctx, r.db, tenantID, "payment:"+now.Format("20060102"))
	if err != nil {
		return "", err
	}
	return payment.FormatPaymentNumber(now, seq), nil
}

var _ payment.PaymentRepository = (*GormPaymentRepository)(nil)
