package subscription

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeSubscription is the aggregate type for subscription events
const AggregateTypeSubscription = "Subscription"

// Subscription event types
const (
	EventTypeSubscriptionCreated   = "subscription.created"
	EventTypeUsageConsumed         = "subscription.usage_consumed"
	EventTypeSubscriptionExpired   = "subscription.expired"
	EventTypeSubscriptionCancelled = "subscription.cancelled"
)

// SubscriptionCreatedEvent is published when a plan is purchased
type SubscriptionCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	PlanCode   string          `json:"plan_code"`
	Price      decimal.Decimal `json:"price"`
}

// NewSubscriptionCreatedEvent creates a new SubscriptionCreatedEvent
func NewSubscriptionCreatedEvent(s *Subscription) *SubscriptionCreatedEvent {
	return &SubscriptionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionCreated, AggregateTypeSubscription, s.ID, s.TenantID),
		CustomerID:      s.CustomerID,
		PlanCode:        s.PlanCode,
		Price:           s.Price,
	}
}

// UsageConsumedEvent is published whenever an order draws on the subscription
type UsageConsumedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	Pickups    int             `json:"pickups"`
	WeightKg   decimal.Decimal `json:"weight_kg"`
	Items      int             `json:"items"`
}

// NewUsageConsumedEvent creates a new UsageConsumedEvent
func NewUsageConsumedEvent(s *Subscription, pickups int, weightKg decimal.Decimal, items int) *UsageConsumedEvent {
	return &UsageConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUsageConsumed, AggregateTypeSubscription, s.ID, s.TenantID),
		CustomerID:      s.CustomerID,
		Pickups:         pickups,
		WeightKg:        weightKg,
		Items:           items,
	}
}

// SubscriptionEndedEvent is published on expiry or cancellation
type SubscriptionEndedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Status     Status    `json:"status"`
}

// NewSubscriptionEndedEvent creates a new SubscriptionEndedEvent
func NewSubscriptionEndedEvent(s *Subscription, eventType string) *SubscriptionEndedEvent {
	return &SubscriptionEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeSubscription, s.ID, s.TenantID),
		CustomerID:      s.CustomerID,
		Status:          s.Status,
	}
}
