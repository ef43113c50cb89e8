package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements asset.AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByIDForTenant finds asset metadata by ID within a tenant
func (r *GormAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Asset")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists assets of a tenant
func (r *GormAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]asset.Asset, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.AssetModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "file_name"))
	if kind, ok := filterString(filter, "kind"); ok {
		query = query.Where("kind = ?", kind)
	}
	if ownerType, ok := filterString(filter, "owner_type"); ok {
		query = query.Where("owner_type = ?", ownerType)
	}
	if ownerID, ok := filterUUID(filter, "owner_id"); ok {
		query = query.Where("owner_id = ?", ownerID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Asset")
	}

	var assetModels []models.AssetModel
	if err := query.Scopes(paginate(filter, AssetSortFields)).Find(&assetModels).Error; err != nil {
		return nil, 0, translateError(err, "Asset")
	}

	assets := make([]asset.Asset, len(assetModels))
	for i := range assetModels {
		assets[i] = *assetModels[i].ToDomain()
	}
	return assets, total, nil
}

// Save creates or updates asset metadata
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	model := &models.AssetModel{}
	model.FromDomain(a)
	return translateError(r.db.WithContext(ctx).Save(model).Error, "Asset")
}

// DeleteForTenant removes asset metadata
func (r *GormAssetRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		Delete(&models.AssetModel{})
	if result.Error != nil {
		return translateError(result.Error, "Asset")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Asset")
	}
	return nil
}

var _ asset.AssetRepository = (*GormAssetRepository)(nil)
