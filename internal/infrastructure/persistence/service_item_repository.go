package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormServiceItemRepository implements catalog.ServiceItemRepository using GORM
type GormServiceItemRepository struct {
	db *gorm.DB
}

// NewGormServiceItemRepository creates a new GormServiceItemRepository
func NewGormServiceItemRepository(db *gorm.DB) *GormServiceItemRepository {
	return &GormServiceItemRepository{db: db}
}

// FindByIDForTenant finds a service by ID within a tenant
func (r *GormServiceItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ServiceItem, error) {
	var model models.ServiceItemModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Service")
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple services by their IDs
func (r *GormServiceItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.ServiceItem, error) {
	if len(ids) == 0 {
		return []catalog.ServiceItem{}, nil
	}

	var itemModels []models.ServiceItemModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id IN ?", ids).
		Find(&itemModels).Error; err != nil {
		return nil, translateError(err, "Service")
	}

	items := make([]catalog.ServiceItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// FindAllForTenant lists the price list of a tenant
func (r *GormServiceItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.ServiceItem, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ServiceItemModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "code", "name"))
	if category, ok := filterString(filter, "category"); ok {
		query = query.Where("category = ?", category)
	}
	if active, ok := filterBool(filter, "active"); ok {
		query = query.Where("active = ?", active)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Service")
	}

	var itemModels []models.ServiceItemModel
	if err := query.Scopes(paginate(filter, ServiceItemSortFields)).Find(&itemModels).Error; err != nil {
		return nil, 0, translateError(err, "Service")
	}

	items := make([]catalog.ServiceItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, total, nil
}

// ExistsByCode checks if a service with the given code exists in the tenant
func (r *GormServiceItemRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ServiceItemModel{}).
		Scopes(forTenant(tenantID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, translateError(err, "Service")
	}
	return count > 0, nil
}

// Save creates or updates a service
func (r *GormServiceItemRepository) Save(ctx context.Context, item *catalog.ServiceItem) error {
	model := &models.ServiceItemModel{}
	model.FromDomain(item)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicate(err) {
			return shared.NewDomainError("SERVICE_CODE_EXISTS", "Service code already exists")
		}
		return translateError(err, "Service")
	}
	return nil
}

var _ catalog.ServiceItemRepository = (*GormServiceItemRepository)(nil)
