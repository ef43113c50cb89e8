package order

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type for order events
const AggregateTypeOrder = "Order"

// Order event types
const (
	EventTypeOrderPlaced            = "order.placed"
	EventTypeOrderStatusChanged     = "order.status_changed"
	EventTypeOrderCancelled         = "order.cancelled"
	EventTypeOrderFeedbackSubmitted = "order.feedback_submitted"
)

// OrderPlacedEvent is published when a customer books a pickup
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	BranchID    uuid.UUID `json:"branch_id"`
	Pincode     string    `json:"pincode"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		BranchID:        o.BranchID,
		Pincode:         o.PickupAddress.Pincode,
	}
}

// OrderStatusChangedEvent is published on every workflow step
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	From        Status          `json:"from"`
	To          Status          `json:"to"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		From:            from,
		To:              o.Status,
		WeightKg:        o.TotalWeightKg,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		Reason:          o.CancelReason,
	}
}

// OrderFeedbackSubmittedEvent is published when a customer rates an order
type OrderFeedbackSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	BranchID    uuid.UUID `json:"branch_id"`
	Rating      int       `json:"rating"`
}

// NewOrderFeedbackSubmittedEvent creates a new OrderFeedbackSubmittedEvent
func NewOrderFeedbackSubmittedEvent(o *Order) *OrderFeedbackSubmittedEvent {
	return &OrderFeedbackSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFeedbackSubmitted, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		BranchID:        o.BranchID,
		Rating:          o.Feedback.Rating,
	}
}
