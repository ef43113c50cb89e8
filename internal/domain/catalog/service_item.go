package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Category groups laundry services on the price list
type Category string

const (
	CategoryWashFold  Category = "wash_fold"
	CategoryWashIron  Category = "wash_iron"
	CategoryDryClean  Category = "dry_clean"
	CategoryIron      Category = "iron"
	CategorySpecialty Category = "specialty"
)

// IsValid checks if the category is a known value
func (c Category) IsValid() bool {
	switch c {
	case CategoryWashFold, CategoryWashIron, CategoryDryClean, CategoryIron, CategorySpecialty:
		return true
	}
	return false
}

// PricingUnit says whether a service is billed by weight or per piece
type PricingUnit string

const (
	PricingPerKg   PricingUnit = "per_kg"
	PricingPerItem PricingUnit = "per_item"
)

// IsValid checks if the pricing unit is a known value
func (u PricingUnit) IsValid() bool {
	return u == PricingPerKg || u == PricingPerItem
}

var serviceCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{1,29}$`)

// ServiceItem is an entry of the laundry price list
type ServiceItem struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
	Category    Category
	PricingUnit PricingUnit
	UnitPrice   decimal.Decimal
	Active      bool
	SortOrder   int
}

// NewServiceItem creates an active price list entry
func NewServiceItem(tenantID uuid.UUID, code, name string, category Category, unit PricingUnit, unitPrice decimal.Decimal) (*ServiceItem, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !serviceCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Service code must be 2-30 characters of A-Z, 0-9, '-' or '_'")
	}
	s := &ServiceItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Active:              true,
	}
	if err := s.apply(name, "", category, unit, unitPrice); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the editable fields
func (s *ServiceItem) Update(name, description string, category Category, unit PricingUnit, unitPrice decimal.Decimal, sortOrder int) error {
	if err := s.apply(name, description, category, unit, unitPrice); err != nil {
		return err
	}
	s.SortOrder = sortOrder
	s.Touch()
	s.IncrementVersion()
	return nil
}

func (s *ServiceItem) apply(name, description string, category Category, unit PricingUnit, unitPrice decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Service name must be 1-100 characters")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown service category")
	}
	if !unit.IsValid() {
		return shared.NewDomainError("INVALID_PRICING_UNIT", "Pricing unit must be per_kg or per_item")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	s.Name = name
	s.Description = strings.TrimSpace(description)
	s.Category = category
	s.PricingUnit = unit
	s.UnitPrice = valueobject.RoundMoney(unitPrice)
	return nil
}

// Activate puts the service back on the public price list
func (s *ServiceItem) Activate() error {
	if s.Active {
		return shared.NewDomainError("INVALID_STATE", "Service is already active")
	}
	s.Active = true
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Deactivate hides the service from new orders
func (s *ServiceItem) Deactivate() error {
	if !s.Active {
		return shared.NewDomainError("INVALID_STATE", "Service is already inactive")
	}
	s.Active = false
	s.Touch()
	s.IncrementVersion()
	return nil
}
