package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func preloadInvoiceItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// FindByIDForTenant loads an invoice with its items
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), preloadInvoiceItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Invoice")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads an invoice under a row lock
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), forUpdate, preloadInvoiceItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Invoice")
	}
	return model.ToDomain(), nil
}

// FindByOrder lists every invoice raised for an order, oldest first
func (r *GormInvoiceRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), preloadInvoiceItems).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, translateError(err, "Invoice")
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindAllForTenant lists invoices of a tenant
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "invoice_number"))
	if invoiceType, ok := filterString(filter, "type"); ok {
		query = query.Where("type = ?", invoiceType)
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if statuses, ok := filter.Filters["statuses"].([]string); ok && len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if customerID, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if orderID, ok := filterUUID(filter, "order_id"); ok {
		query = query.Where("order_id = ?", orderID)
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
		return nil, 0, translateError(err, "Invoice")
	}

	var invoiceModels []models.InvoiceModel
	if err := query.Scopes(preloadInvoiceItems, paginate(filter, InvoiceSortFields)).
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, translateError(err, "Invoice")
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, total, nil
}

// ExistsFinalForOrder reports whether a non-void FINAL invoice exists
func (r *GormInvoiceRepository) ExistsFinalForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Scopes(forTenant(tenantID)).
		Where("order_id = ? AND type = ? AND status <> ?", orderID, billing.TypeFinal, billing.StatusVoid).
		Count(&count).Error; err != nil {
		return false, translateError(err, "Invoice")
	}
	return count > 0, nil
}

// Save creates or updates an invoice and replaces its items
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	model := &models.InvoiceModel{}
	model.FromDomain(inv)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceInvoiceItems(tx, inv.ID, model.Items)
	})
	return translateError(err, "Invoice")
}

// SaveWithLock saves with an optimistic version check and bumps the version
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.Invoice) error {
	model := &models.InvoiceModel{}
	model.FromDomain(inv)
	model.Version = inv.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, model, inv.ID, inv.Version, "Invoice"); err != nil {
			return err
		}
		return replaceInvoiceItems(tx, inv.ID, model.Items)
	})
	if err != nil {
		return translateError(err, "Invoice")
	}
	inv.Version = model.Version
	return nil
}

func replaceInvoiceItems(tx *gorm.DB, invoiceID uuid.UUID, items []models.InvoiceItemModel) error {
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&models.InvoiceItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// NextSequence returns the next number of the prefix/type/month series
func (r *GormInvoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, prefix string, invoiceType billing.InvoiceType, at time.Time) (int64, error) {
	name := fmt.Sprintf("invoice:%s:%s:%s", prefix, invoiceType.NumberSegment(), at.UTC().Format("200601"))
	return nextSequence(ctx, r.db, tenantID, name)
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
