package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/subscription"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlanRepository implements subscription.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByIDForTenant finds a plan by ID within a tenant
func (r *GormPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Plan")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists plans of a tenant
func (r *GormPlanRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]subscription.Plan, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.PlanModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "code", "name"))
	if active, ok := filterBool(filter, "active"); ok {
		query = query.Where("active = ?", active)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Plan")
	}

	var planModels []models.PlanModel
	if err := query.Scopes(paginate(filter, PlanSortFields)).Find(&planModels).Error; err != nil {
		return nil, 0, translateError(err, "Plan")
	}

	plans := make([]subscription.Plan, len(planModels))
	for i := range planModels {
		plans[i] = *planModels[i].ToDomain()
	}
	return plans, total, nil
}

// ExistsByCode checks if a plan code is taken
func (r *GormPlanRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PlanModel{}).
		Scopes(forTenant(tenantID)).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, translateError(err, "Plan")
	}
	return count > 0, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *subscription.Plan) error {
	model := &models.PlanModel{}
	model.FromDomain(plan)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicate(err) {
			return shared.NewDomainError("PLAN_CODE_EXISTS", "Plan code already exists")
		}
		return translateError(err, "Plan")
	}
	return nil
}

// GormSubscriptionRepository implements subscription.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByIDForTenant finds a subscription by ID within a tenant
func (r *GormSubscriptionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Subscription")
	}
	return model.ToDomain(), nil
}

// FindActiveByCustomer returns the ACTIVE subscription of a customer
func (r *GormSubscriptionRepository) FindActiveByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("customer_id = ? AND status = ?", customerID, subscription.StatusActive).
		Order("starts_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err, "Subscription")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists subscriptions of a tenant
func (r *GormSubscriptionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]subscription.Subscription, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "plan_code", "plan_name"))
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if customerID, ok := filterUUID(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if planID, ok := filterUUID(filter, "plan_id"); ok {
		query = query.Where("plan_id = ?", planID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Subscription")
	}

	var subModels []models.SubscriptionModel
	if err := query.Scopes(paginate(filter, SubscriptionSortFields)).Find(&subModels).Error; err != nil {
		return nil, 0, translateError(err, "Subscription")
	}

	subs := make([]subscription.Subscription, len(subModels))
	for i := range subModels {
		subs[i] = *subModels[i].ToDomain()
	}
	return subs, total, nil
}

// FindDueForExpiry returns ACTIVE subscriptions of all tenants that expired before now
func (r *GormSubscriptionRepository) FindDueForExpiry(ctx context.Context, now time.Time, limit int) ([]subscription.Subscription, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", subscription.StatusActive, now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var subModels []models.SubscriptionModel
	if err := query.Find(&subModels).Error; err != nil {
		return nil, translateError(err, "Subscription")
	}

	subs := make([]subscription.Subscription, len(subModels))
	for i := range subModels {
		subs[i] = *subModels[i].ToDomain()
	}
	return subs, nil
}

// CountActive counts ACTIVE subscriptions of a tenant
func (r *GormSubscriptionRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).
		Scopes(forTenant(tenantID)).
		Where("status = ?", subscription.StatusActive).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "Subscription")
	}
	return count, nil
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *subscription.Subscription) error {
	model := &models.SubscriptionModel{}
	model.FromDomain(sub)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "Subscription")
}

// SaveWithLock saves with an optimistic version check and bumps the version
func (r *GormSubscriptionRepository) SaveWithLock(ctx context.Context, sub *subscription.Subscription) error {
	model := &models.SubscriptionModel{}
	model.FromDomain(sub)
	model.Version = sub.Version + 1

	if err := updateWithVersion(r.db.WithContext(ctx), model, sub.ID, sub.Version, "Subscription"); err != nil {
		return translateError(err, "Subscription")
	}
	sub.Version = model.Version
	return nil
}

var (
	_ subscription.PlanRepository         = (*GormPlanRepository)(nil)
	_ subscription.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
)
