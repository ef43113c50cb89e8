package subscription

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var planCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{1,29}$`)

// Limits caps what a subscription may consume. A zero value means the
// dimension is unlimited.
type Limits struct {
	MaxPickups  int
	MaxWeightKg decimal.Decimal
	MaxItems    int
}

func (l Limits) validate() error {
	if l.MaxPickups < 0 || l.MaxItems < 0 || l.MaxWeightKg.IsNegative() {
		return shared.NewDomainError("INVALID_LIMITS", "Plan limits cannot be negative")
	}
	return nil
}

// Plan is a prepaid package limiting pickups, weight and items over a
// validity window
type Plan struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Description  string
	Price        decimal.Decimal
	ValidityDays int
	Limits       Limits
	Active       bool
}

// NewPlan creates an active plan
func NewPlan(tenantID uuid.UUID, code, name string, price decimal.Decimal, validityDays int, limits Limits) (*Plan, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !planCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Plan code must be 2-30 characters of A-Z, 0-9, '-' or '_'")
	}
	p := &Plan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Active:              true,
	}
	if err := p.apply(name, "", price, validityDays, limits); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields. Existing subscriptions keep the
// limits they were sold with.
func (p *Plan) Update(name, description string, price decimal.Decimal, validityDays int, limits Limits) error {
	if err := p.apply(name, description, price, validityDays, limits); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Plan) apply(name, description string, price decimal.Decimal, validityDays int, limits Limits) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Plan name must be 1-100 characters")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Plan price cannot be negative")
	}
	if validityDays <= 0 || validityDays > 366 {
		return shared.NewDomainError("INVALID_VALIDITY", "Validity must be between 1 and 366 days")
	}
	if err := limits.validate(); err != nil {
		return err
	}
	if len(description) > 1000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 1000 characters")
	}
	limits.MaxWeightKg = valueobject.RoundWeight(limits.MaxWeightKg)

	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.Price = valueobject.RoundMoney(price)
	p.ValidityDays = validityDays
	p.Limits = limits
	return nil
}

// Activate makes the plan purchasable again
func (p *Plan) Activate() error {
	if p.Active {
		return shared.NewDomainError("INVALID_STATE", "Plan is already active")
	}
	p.Active = true
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Deactivate stops new purchases of the plan
func (p *Plan) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("INVALID_STATE", "Plan is already inactive")
	}
	p.Active = false
	p.Touch()
	p.IncrementVersion()
	return nil
}
