package order

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var slotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]-([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Item is a priced line of an order
type Item struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ServiceItemID uuid.UUID
	ServiceName   string
	PricingUnit   catalog.PricingUnit
	Quantity      decimal.Decimal // kilograms for per_kg, pieces for per_item
	UnitPrice     decimal.Decimal
	Amount        decimal.Decimal
}

// NewItem prices a line from a catalog entry
func NewItem(orderID uuid.UUID, service *catalog.ServiceItem, quantity decimal.Decimal) (Item, error) {
	if service == nil {
		return Item{}, shared.NewDomainError("INVALID_SERVICE", "Service is required")
	}
	if !quantity.IsPositive() {
		return Item{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	switch service.PricingUnit {
	case catalog.PricingPerItem:
		if !quantity.Equal(quantity.Truncate(0)) {
			return Item{}, shared.NewDomainError("INVALID_QUANTITY", "Per item services need a whole quantity")
		}
	default:
		quantity = valueobject.RoundWeight(quantity)
	}

	return Item{
		ID:            uuid.New(),
		OrderID:       orderID,
		ServiceItemID: service.ID,
		ServiceName:   service.Name,
		PricingUnit:   service.PricingUnit,
		Quantity:      quantity,
		UnitPrice:     service.UnitPrice,
		Amount:        valueobject.RoundMoney(quantity.Mul(service.UnitPrice)),
	}, nil
}

// Feedback is the customer's rating of a delivered order
type Feedback struct {
	Rating      int
	Comment     string
	SubmittedAt time.Time
}

// Usage is what an order draws from a subscription
type Usage struct {
	Pickups  int
	WeightKg decimal.Decimal
	Items    int
}

// Order is a laundry pickup-to-delivery job for one customer
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber      string
	CustomerID       uuid.UUID
	BranchID         uuid.UUID
	SubscriptionID   *uuid.UUID
	Status           Status
	PickupAddress    valueobject.PostalAddress
	PickupDate       time.Time
	PickupSlot       string
	Items            []Item
	TotalWeightKg    decimal.Decimal
	TotalItems       int
	EstimatedAmount  decimal.Decimal
	Notes            string
	PickedUpAt       *time.Time
	ProcessingAt     *time.Time
	ReadyAt          *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string
	Feedback         *Feedback
}

// NewOrder places a new order for pickup
func NewOrder(tenantID uuid.UUID, orderNumber string, customerID, branchID uuid.UUID, pickup valueobject.PostalAddress, pickupDate time.Time, slot string) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch is required")
	}
	if pickup.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Pickup address is required")
	}
	if pickupDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PICKUP_DATE", "Pickup date is required")
	}
	slot = strings.TrimSpace(slot)
	if slot != "" && !slotPattern.MatchString(slot) {
		return nil, shared.NewDomainError("INVALID_PICKUP_SLOT", "Pickup slot must look like 09:00-12:00")
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		BranchID:            branchID,
		Status:              StatusPlaced,
		PickupAddress:       pickup,
		PickupDate:          pickupDate,
		PickupSlot:          slot,
		Items:               make([]Item, 0),
		TotalWeightKg:       decimal.Zero,
		EstimatedAmount:     decimal.Zero,
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// AttachSubscription links the subscription the order will draw from
func (o *Order) AttachSubscription(subscriptionID uuid.UUID) error {
	if o.Status != StatusPlaced {
		return shared.NewDomainError("INVALID_STATE", "Subscription can only be attached before pickup")
	}
	o.SubscriptionID = &subscriptionID
	return nil
}

// SetNotes sets free text instructions
func (o *Order) SetNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > 1000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}
	o.Notes = notes
	return nil
}

// CanModifyItems reports whether items may still be re-weighed or replaced
func (o *Order) CanModifyItems() bool {
	return o.Status == StatusPlaced || o.Status == StatusPickedUp || o.Status == StatusProcessing
}

// ReplaceItems swaps the whole item list, e.g. after weighing at pickup
func (o *Order) ReplaceItems(items []Item) error {
	if !o.CanModifyItems() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change items of order in %s status", o.Status))
	}
	for i := range items {
		items[i].OrderID = o.ID
	}
	o.Items = items
	o.recalculateTotals()
	o.Touch()
	return nil
}

// Advance moves the order one step forward to target
func (o *Order) Advance(target Status, at time.Time) error {
	if target == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Use cancel to cancel an order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}
	if target == StatusPickedUp && len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Record the picked up items before marking the order picked up")
	}

	from := o.Status
	o.Status = target
	switch target {
	case StatusPickedUp:
		o.PickedUpAt = &at
	case StatusProcessing:
		o.ProcessingAt = &at
	case StatusReady:
		o.ReadyAt = &at
	case StatusOutForDelivery:
		o.OutForDeliveryAt = &at
	case StatusDelivered:
		o.DeliveredAt = &at
	}
	o.UpdatedAt = at
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// Cancel cancels an order that has not been picked up yet
func (o *Order) Cancel(reason string, at time.Time) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	o.Status = StatusCancelled
	o.CancelledAt = &at
	o.CancelReason = reason
	o.UpdatedAt = at
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// SubmitFeedback records the customer's rating once the order is delivered
func (o *Order) SubmitFeedback(rating int, comment string, at time.Time) error {
	if o.Status != StatusDelivered {
		return shared.NewDomainError("INVALID_STATE", "Feedback can only be given for delivered orders")
	}
	if o.Feedback != nil {
		return ErrFeedbackAlreadySubmitted
	}
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > 1000 {
		return shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 1000 characters")
	}
	o.Feedback = &Feedback{Rating: rating, Comment: comment, SubmittedAt: at}
	o.UpdatedAt = at
	o.AddDomainEvent(NewOrderFeedbackSubmittedEvent(o))
	return nil
}

// Usage returns what the order consumes from a subscription at pickup
func (o *Order) Usage() Usage {
	return Usage{Pickups: 1, WeightKg: o.TotalWeightKg, Items: o.TotalItems}
}

// IsOwnedBy reports whether customerID placed the order
func (o *Order) IsOwnedBy(customerID uuid.UUID) bool {
	return o.CustomerID == customerID
}

func (o *Order) recalculateTotals() {
	weight := decimal.Zero
	pieces := decimal.Zero
	amount := decimal.Zero
	for _, item := range o.Items {
		if item.PricingUnit == catalog.PricingPerKg {
			weight = weight.Add(item.Quantity)
		} else {
			pieces = pieces.Add(item.Quantity)
		}
		amount = amount.Add(item.Amount)
	}
	o.TotalWeightKg = valueobject.RoundWeight(weight)
	o.TotalItems = int(pieces.IntPart())
	o.EstimatedAmount = valueobject.RoundMoney(amount)
}

// ErrFeedbackAlreadySubmitted is returned on a second feedback attempt
var ErrFeedbackAlreadySubmitted = shared.NewDomainError("FEEDBACK_ALREADY_SUBMITTED", "Feedback was already submitted for this order")
