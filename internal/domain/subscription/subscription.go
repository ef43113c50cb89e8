package subscription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a subscription
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusExpired || s == StatusCancelled
}

// Errors raised by usage accounting
var (
	ErrSubscriptionExpired       = shared.NewDomainError("SUBSCRIPTION_EXPIRED", "Subscription has expired")
	ErrSubscriptionLimitExceeded = shared.NewDomainError("SUBSCRIPTION_LIMIT_EXCEEDED", "Subscription limit exceeded")
	ErrActiveSubscriptionExists  = shared.NewDomainError("ACTIVE_SUBSCRIPTION_EXISTS", "Customer already has an active subscription")
)

// Remaining is what is left on each dimension; nil means unlimited
type Remaining struct {
	Pickups  *int
	WeightKg *decimal.Decimal
	Items    *int
}

// Subscription is a customer's purchase of a plan. It snapshots the plan's
// limits and counts what orders have consumed.
type Subscription struct {
	shared.TenantAggregateRoot
	CustomerID   uuid.UUID
	PlanID       uuid.UUID
	PlanCode     string
	PlanName     string
	Price        decimal.Decimal
	Limits       Limits
	Status       Status
	StartsAt     time.Time
	ExpiresAt    time.Time
	PickupsUsed  int
	WeightUsedKg decimal.Decimal
	ItemsUsed    int
	CancelledAt  *time.Time
}

// Subscribe starts a subscription to plan at startsAt
func Subscribe(tenantID, customerID uuid.UUID, plan *Plan, startsAt time.Time) (*Subscription, error) {
	if plan == nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan is required")
	}
	if !plan.Active {
		return nil, shared.NewDomainError("PLAN_INACTIVE", "Plan is not available for purchase")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}

	s := &Subscription{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		PlanID:              plan.ID,
		PlanCode:            plan.Code,
		PlanName:            plan.Name,
		Price:               plan.Price,
		Limits:              plan.Limits,
		Status:              StatusActive,
		StartsAt:            startsAt,
		ExpiresAt:           startsAt.AddDate(0, 0, plan.ValidityDays),
		WeightUsedKg:        decimal.Zero,
	}
	s.AddDomainEvent(NewSubscriptionCreatedEvent(s))
	return s, nil
}

// IsUsableAt reports whether usage can be drawn at the given time
func (s *Subscription) IsUsableAt(at time.Time) bool {
	return s.Status == StatusActive && !at.Before(s.StartsAt) && at.Before(s.ExpiresAt)
}

// Consume draws usage from the subscription. Either every counter is
// updated or, on any violation, none is.
func (s *Subscription) Consume(pickups int, weightKg decimal.Decimal, items int, at time.Time) error {
	if pickups < 0 || items < 0 || weightKg.IsNegative() {
		return shared.NewDomainError("INVALID_USAGE", "Usage cannot be negative")
	}
	if s.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot use a %s subscription", s.Status))
	}
	if !at.Before(s.ExpiresAt) {
		return ErrSubscriptionExpired
	}
	if at.Before(s.StartsAt) {
		return shared.NewDomainError("SUBSCRIPTION_NOT_STARTED", "Subscription has not started yet")
	}

	weightKg = valueobject.RoundWeight(weightKg)
	newPickups := s.PickupsUsed + pickups
	newWeight := s.WeightUsedKg.Add(weightKg)
	newItems := s.ItemsUsed + items

	if s.Limits.MaxPickups > 0 && newPickups > s.Limits.MaxPickups {
		return shared.NewDomainError(ErrSubscriptionLimitExceeded.Code,
			fmt.Sprintf("Pickup limit of %d reached", s.Limits.MaxPickups))
	}
	if s.Limits.MaxWeightKg.IsPositive() && newWeight.GreaterThan(s.Limits.MaxWeightKg) {
		return shared.NewDomainError(ErrSubscriptionLimitExceeded.Code,
			fmt.Sprintf("Weight limit of %s kg exceeded", s.Limits.MaxWeightKg.String()))
	}
	if s.Limits.MaxItems > 0 && newItems > s.Limits.MaxItems {
		return shared.NewDomainError(ErrSubscriptionLimitExceeded.Code,
			fmt.Sprintf("Item limit of %d exceeded", s.Limits.MaxItems))
	}

	s.PickupsUsed = newPickups
	s.WeightUsedKg = newWeight
	s.ItemsUsed = newItems
	s.UpdatedAt = at
	s.AddDomainEvent(NewUsageConsumedEvent(s, pickups, weightKg, items))
	return nil
}

// Remaining returns the unused allowance on each limited dimension
func (s *Subscription) Remaining() Remaining {
	var r Remaining
	if s.Limits.MaxPickups > 0 {
		v := max(s.Limits.MaxPickups-s.PickupsUsed, 0)
		r.Pickups = &v
	}
	if s.Limits.MaxWeightKg.IsPositive() {
		v := decimal.Max(s.Limits.MaxWeightKg.Sub(s.WeightUsedKg), decimal.Zero)
		r.WeightKg = &v
	}
	if s.Limits.MaxItems > 0 {
		v := max(s.Limits.MaxItems-s.ItemsUsed, 0)
		r.Items = &v
	}
	return r
}

// Cancel ends an active subscription early
func (s *Subscription) Cancel(at time.Time) error {
	if s.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s subscription", s.Status))
	}
	s.Status = StatusCancelled
	s.CancelledAt = &at
	s.UpdatedAt = at
	s.AddDomainEvent(NewSubscriptionEndedEvent(s, EventTypeSubscriptionCancelled))
	return nil
}

// ExpireIfDue marks an active subscription expired once its window closed.
// It reports whether the status changed.
func (s *Subscription) ExpireIfDue(now time.Time) bool {
	if s.Status != StatusActive || now.Before(s.ExpiresAt) {
		return false
	}
	s.Status = StatusExpired
	s.UpdatedAt = now
	s.AddDomainEvent(NewSubscriptionEndedEvent(s, EventTypeSubscriptionExpired))
	return true
}
