package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBranchRepository implements branch.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByIDForTenant finds a branch by ID within a tenant
func (r *GormBranchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*branch.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Branch")
	}
	return model.ToDomain(), nil
}

// FindByCode finds a branch by its code within a tenant
func (r *GormBranchRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*branch.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Branch")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists branches of a tenant
func (r *GormBranchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]branch.Branch, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.BranchModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "code", "name", "city"))
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Branch")
	}

	var branchModels []models.BranchModel
	if err := query.Scopes(paginate(filter, BranchSortFields)).Find(&branchModels).Error; err != nil {
		return nil, 0, translateError(err, "Branch")
	}

	branches := make([]branch.Branch, len(branchModels))
	for i := range branchModels {
		branches[i] = *branchModels[i].ToDomain()
	}
	return branches, total, nil
}

// FindByIDs finds multiple branches by their IDs
func (r *GormBranchRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]branch.Branch, error) {
	if len(ids) == 0 {
		return []branch.Branch{}, nil
	}

	var branchModels []models.BranchModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id IN ?", ids).
		Find(&branchModels).Error; err != nil {
		return nil, translateError(err, "Branch")
	}

	branches := make([]branch.Branch, len(branchModels))
	for i := range branchModels {
		branches[i] = *branchModels[i].ToDomain()
	}
	return branches, nil
}

// ExistsByCode checks if a branch with the given code exists in the tenant
func (r *GormBranchRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BranchModel{}).
		Scopes(forTenant(tenantID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, translateError(err, "Branch")
	}
	return count > 0, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	model := &models.BranchModel{}
	model.FromDomain(b)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicate(err) {
			return shared.NewDomainError("BRANCH_CODE_EXISTS", "Branch code already exists")
		}
		return translateError(err, "Branch")
	}
	return nil
}

// DeleteForTenant deletes a branch within a tenant
func (r *GormBranchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		Delete(&models.BranchModel{})
	if result.Error != nil {
		return translateError(result.Error, "Branch")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Branch")
	}
	return nil
}

// GormServiceAreaRepository implements branch.ServiceAreaRepository using GORM
type GormServiceAreaRepository struct {
	db *gorm.DB
}

// NewGormServiceAreaRepository creates a new GormServiceAreaRepository
func NewGormServiceAreaRepository(db *gorm.DB) *GormServiceAreaRepository {
	return &GormServiceAreaRepository{db: db}
}

// FindByIDForTenant finds a service area by ID within a tenant
func (r *GormServiceAreaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*branch.ServiceArea, error) {
	var model models.ServiceAreaModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Service area")
	}
	return model.ToDomain(), nil
}

// FindByPincode finds the mapping of a pincode
func (r *GormServiceAreaRepository) FindByPincode(ctx context.Context, tenantID uuid.UUID, pincode string) (*branch.ServiceArea, error) {
	var model models.ServiceAreaModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("pincode = ?", strings.TrimSpace(pincode)).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Service area")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the pincode mappings of a tenant
func (r *GormServiceAreaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]branch.ServiceArea, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ServiceAreaModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "pincode", "locality"))
	if branchID, ok := filterUUID(filter, "branch_id"); ok {
		query = query.Where("branch_id = ?", branchID)
	}
	if active, ok := filterBool(filter, "active"); ok {
		query = query.Where("active = ?", active)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Service area")
	}

	var areaModels []models.ServiceAreaModel
	if err := query.Scopes(paginate(filter, ServiceAreaSortFields)).Find(&areaModels).Error; err != nil {
		return nil, 0, translateError(err, "Service area")
	}

	areas := make([]branch.ServiceArea, len(areaModels))
	for i := range areaModels {
		areas[i] = *areaModels[i].ToDomain()
	}
	return areas, total, nil
}

// CountByBranch counts the pincodes mapped to a branch
func (r *GormServiceAreaRepository) CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ServiceAreaModel{}).
		Scopes(forTenant(tenantID)).
		Where("branch_id = ?", branchID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "Service area")
	}
	return count, nil
}

// Save creates or updates a mapping. The unique (tenant_id, pincode) index
// rejects a second branch claiming the same pincode.
func (r *GormServiceAreaRepository) Save(ctx context.Context, area *branch.ServiceArea) error {
	model := &models.ServiceAreaModel{}
	model.FromDomain(area)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isDuplicate(err) {
			return branch.ErrPincodeAlreadyMapped
		}
		return translateError(err, "Service area")
	}
	return nil
}

// DeleteForTenant deletes a mapping within a tenant
func (r *GormServiceAreaRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		Where("id = ?", id).
		Delete(&models.ServiceAreaModel{})
	if result.Error != nil {
		return translateError(result.Error, "Service area")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Service area")
	}
	return nil
}

// GormBrandingRepository implements branch.BrandingRepository using GORM
type GormBrandingRepository struct {
	db *gorm.DB
}

// NewGormBrandingRepository creates a new GormBrandingRepository
func NewGormBrandingRepository(db *gorm.DB) *GormBrandingRepository {
	return &GormBrandingRepository{db: db}
}

// FindForTenant loads the branding settings of a tenant
func (r *GormBrandingRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*branch.BrandingSettings, error) {
	var model models.BrandingSettingsModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID)).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Branding settings")
	}
	return model.ToDomain(), nil
}

// Save creates or updates the branding settings
func (r *GormBrandingRepository) Save(ctx context.Context, settings *branch.BrandingSettings) error {
	model := &models.BrandingSettingsModel{}
	model.FromDomain(settings)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err, "Branding settings")
	}
	return nil
}

var (
	_ branch.BranchRepository      = (*GormBranchRepository)(nil)
	_ branch.ServiceAreaRepository = (*GormServiceAreaRepository)(nil)
	_ branch.BrandingRepository    = (*GormBrandingRepository)(nil)
)
