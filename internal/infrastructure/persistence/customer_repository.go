package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements customer.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func preloadAddresses(db *gorm.DB) *gorm.DB {
	return db.Preload("Addresses", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// FindByIDForTenant loads a customer with its addresses
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), preloadAddresses).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Customer")
	}
	return model.ToDomain(), nil
}

// FindByPhone finds a customer by phone number within a tenant
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Scopes(forTenant(tenantID), preloadAddresses).
		Where("phone = ?", customer.NormalizePhone(phone)).
		First(&model).Error; err != nil {
		return nil, translateError(err, "Customer")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists customers of a tenant
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Customer, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(forTenant(tenantID), searchLike(filter.Search, "name", "phone", "email"))
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Customer")
	}

	var customerModels []models.CustomerModel
	if err := query.Scopes(preloadAddresses, paginate(filter, CustomerSortFields)).
		Find(&customerModels).Error; err != nil {
		return nil, 0, translateError(err, "Customer")
	}

	customers := make([]customer.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, total, nil
}

// ExistsByPhone checks whether a phone number is taken
func (r *GormCustomerRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(forTenant(tenantID)).
		Where("phone = ?", customer.NormalizePhone(phone)).
		Count(&count).Error; err != nil {
		return false, translateError(err, "Customer")
	}
	return count > 0, nil
}

// CountForTenant counts customers of a tenant
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Scopes(forTenant(tenantID)).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "Customer")
	}
	return count, nil
}

// Save creates or updates a customer and replaces its addresses
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	model := &models.CustomerModel{}
	model.FromDomain(c)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", c.ID).Delete(&models.CustomerAddressModel{}).Error; err != nil {
			return err
		}
		if len(model.Addresses) > 0 {
			if err := tx.Create(&model.Addresses).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return shared.NewDomainError("PHONE_ALREADY_REGISTERED", "Phone number is already registered")
		}
		return translateError(err, "Customer")
	}
	return nil
}

// DeleteForTenant removes a customer and its addresses
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(forTenant(tenantID)).
			Where("customer_id = ?", id).
			Delete(&models.CustomerAddressModel{}).Error; err != nil {
			return err
		}
		result := tx.Scopes(forTenant(tenantID)).Where("id = ?", id).Delete(&models.CustomerModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateError(err, "Customer")
}

var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)
