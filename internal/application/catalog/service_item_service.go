package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceItemService manages the laundry price list
type ServiceItemService struct {
	itemRepo catalog.ServiceItemRepository
	logger   *zap.Logger
}

// NewServiceItemService creates a new ServiceItemService
func NewServiceItemService(itemRepo catalog.ServiceItemRepository, logger *zap.Logger) *ServiceItemService {
	return &ServiceItemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// Create adds a service to the price list
func (s *ServiceItemService) Create(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID, req CreateServiceItemRequest) (*ServiceItemResponse, error) {
	item, err := catalog.NewServiceItem(tenantID, req.Code, req.Name,
		catalog.Category(req.Category), catalog.PricingUnit(req.PricingUnit), req.UnitPrice)
	if err != nil {
		return nil, err
	}

	exists, err := s.itemRepo.ExistsByCode(ctx, tenantID, item.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_EXISTS", "Service with this code already exists")
	}

	if req.Description != "" || req.SortOrder != 0 {
		if err := item.Update(item.Name, req.Description, item.Category, item.PricingUnit, item.UnitPrice, req.SortOrder); err != nil {
			return nil, err
		}
	}
	if createdBy != nil {
		item.SetCreatedBy(*createdBy)
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Service created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", item.Code),
		zap.String("unit_price", item.UnitPrice.String()))

	resp := ToServiceItemResponse(item)
	return &resp, nil
}

// GetByID retrieves a service
func (s *ServiceItemService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ServiceItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToServiceItemResponse(item)
	return &resp, nil
}

// List retrieves a page of the price list
func (s *ServiceItemService) List(ctx context.Context, tenantID uuid.UUID, filter ServiceItemListFilter) ([]ServiceItemResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "sort_order",
		OrderDir: "asc",
		Filters:  map[string]any{},
	}
	if filter.Category != "" {
		f.Filters["category"] = filter.Category
	}
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}
	f = f.Normalize()

	items, total, err := s.itemRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ServiceItemResponse, len(items))
	for i := range items {
		out[i] = ToServiceItemResponse(&items[i])
	}
	return out, total, nil
}

// ListActive is the public price list
func (s *ServiceItemService) ListActive(ctx context.Context, tenantID uuid.UUID, filter ServiceItemListFilter) ([]ServiceItemResponse, int64, error) {
	active := true
	filter.Active = &active
	return s.List(ctx, tenantID, filter)
}

// Update changes a service. Existing orders keep the price they were
// placed with.
func (s *ServiceItemService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateServiceItemRequest) (*ServiceItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, description := item.Name, item.Description
	category, unit := item.Category, item.PricingUnit
	price, sortOrder := item.UnitPrice, item.SortOrder
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = catalog.Category(*req.Category)
	}
	if req.PricingUnit != nil {
		unit = catalog.PricingUnit(*req.PricingUnit)
	}
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := item.Update(name, description, category, unit, price, sortOrder); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToServiceItemResponse(item)
	return &resp, nil
}

// Activate puts a service back on the public price list
func (s *ServiceItemService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ServiceItemResponse, error) {
	return s.setActive(ctx, tenantID, id, (*catalog.ServiceItem).Activate)
}

// Deactivate hides a service from new orders
func (s *ServiceItemService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*ServiceItemResponse, error) {
	return s.setActive(ctx, tenantID, id, (*catalog.ServiceItem).Deactivate)
}

func (s *ServiceItemService) setActive(ctx context.Context, tenantID, id uuid.UUID, apply func(*catalog.ServiceItem) error) (*ServiceItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(item); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToServiceItemResponse(item)
	return &resp, nil
}
