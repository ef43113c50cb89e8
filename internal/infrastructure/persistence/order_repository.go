package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadOrderItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// FindByIDForTenant loads an order with its items
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), preloadOrderItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Order")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads an order under a row lock
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), forUpdate, preloadOrderItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Order")
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), preloadOrderItems).
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Order")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders of a tenant
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "order_number", "pincode"))
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if branchID, ok := filterUUID(filter, "branch_id"); ok {
		query = query.Where("branch_id = ?", branchID)
	}
	if from, ok := filterTime(filter, "from"); ok {
		query = query.Where("pickup_date >= ?", from)
	}
	if to, ok := filterTime(filter, "to"); ok {
		query = query.Where("pickup_date <= ?", to)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Order")
	}

	var orderModels []models.OrderModel
	if err := query.Scopes(preloadOrderItems, paginate(filter, OrderSortFields)).
		Find(&orderModels).Error; err != nil {
		return nil, 0, translateError(err, "Order")
	}

	orders := make([]order.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// CountByStatus returns the number of orders per status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[order.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(forTenant(tenantID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, "Order")
	}

	counts := make(map[order.Status]int64, len(rows))
	for _, row := range rows {
		counts[order.Status(row.Status)] = row.Count
	}
	return counts, nil
}

// CountByCustomer counts orders of a customer
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Scopes(forTenant(tenantID)).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "Order")
	}
	return count, nil
}

// Save creates or updates an order and replaces its items
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := &models.OrderModel{}
	model.FromDomain(o)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return replaceOrderItems(tx, o.ID, model.Items)
	})
	return translateError(err, "Order")
}

// SaveWithLock saves with an optimistic version check and bumps the version
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	model := &models.OrderModel{}
	model.FromDomain(o)
	model.Version = o.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateWithVersion(tx, model, o.ID, o.Version, "Order"); err != nil {
			return err
		}
		return replaceOrderItems(tx, o.ID, model.Items)
	})
	if err != nil {
		return translateError(err, "Order")
	}
	o.Version = model.Version
	return nil
}

func replaceOrderItems(tx *gorm.DB, orderID uuid.UUID, items []models.OrderItemModel) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

// GenerateOrderNumber returns the next LO-YYYY-NNNNN number for the tenant
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	seq, err := nextSequence(ctx, r.db, tenantID, fmt.Sprintf("order:%d", year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LO-%d-%05d", year, seq), nil
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)
