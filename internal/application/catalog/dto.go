package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateServiceItemRequest represents a request to add a service to the price list
type CreateServiceItemRequest struct {
	Code        string          `json:"code" binding:"required,min=2,max=30"`
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Description string          `json:"description" binding:"max=500"`
	Category    string          `json:"category" binding:"required,oneof=wash_fold wash_iron dry_clean iron specialty"`
	PricingUnit string          `json:"pricing_unit" binding:"required,oneof=per_kg per_item"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	SortOrder   int             `json:"sort_order"`
}

// UpdateServiceItemRequest represents a request to update a service. Nil
// fields keep their current value.
type UpdateServiceItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	Category    *string          `json:"category" binding:"omitempty,oneof=wash_fold wash_iron dry_clean iron specialty"`
	PricingUnit *string          `json:"pricing_unit" binding:"omitempty,oneof=per_kg per_item"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	SortOrder   *int             `json:"sort_order"`
}

// ServiceItemResponse represents a price list entry in API responses
type ServiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	PricingUnit string          `json:"pricing_unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Active      bool            `json:"active"`
	SortOrder   int             `json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ServiceItemListFilter represents filter options for the price list
type ServiceItemListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=wash_fold wash_iron dry_clean iron specialty"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToServiceItemResponse converts a domain ServiceItem to ServiceItemResponse
func ToServiceItemResponse(s *catalog.ServiceItem) ServiceItemResponse {
	return ServiceItemResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		Description: s.Description,
		Category:    string(s.Category),
		PricingUnit: string(s.PricingUnit),
		UnitPrice:   s.UnitPrice,
		Active:      s.Active,
		SortOrder:   s.SortOrder,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
