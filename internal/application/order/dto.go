package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// PickupDateLayout is the wire format of pickup dates
const PickupDateLayout = "2006-01-02"

// OrderItemRequest is one requested service line
type OrderItemRequest struct {
	ServiceItemID uuid.UUID       `json:"service_item_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// PickupAddressRequest is an address given inline instead of a saved one
type PickupAddressRequest struct {
	Line1   string `json:"line1" binding:"required,max=200"`
	Line2   string `json:"line2" binding:"max=200"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	Pincode string `json:"pincode" binding:"required"`
}

// PlaceOrderRequest represents a request to book a pickup.
// The pickup address is the saved AddressID, else the inline Address, else
// the customer's default address. CustomerID is only read on the
// back-office route.
type PlaceOrderRequest struct {
	CustomerID *uuid.UUID            `json:"customer_id"`
	AddressID  *uuid.UUID            `json:"address_id"`
	Address    *PickupAddressRequest `json:"address"`
	PickupDate string                `json:"pickup_date" binding:"required,datetime=2006-01-02"`
	PickupSlot string                `json:"pickup_slot" binding:"max=11"`
	Notes      string                `json:"notes" binding:"max=1000"`
	Items      []OrderItemRequest    `json:"items" binding:"omitempty,dive"`
}

// ReplaceItemsRequest records the items actually collected
type ReplaceItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AdvanceOrderRequest moves an order one step. An empty status means the
// next one.
type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"omitempty,oneof=PICKED_UP PROCESSING READY OUT_FOR_DELIVERY DELIVERED"`
}

// CancelOrderRequest cancels an order before pickup
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// FeedbackRequest rates a delivered order
type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=PLACED PICKED_UP PROCESSING READY OUT_FOR_DELIVERY DELIVERED CANCELLED"`
	CustomerID *uuid.UUID `form:"customer_id"`
	BranchID   *uuid.UUID `form:"branch_id"`
	From       string     `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string     `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=pickup_date created_at order_number"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ServiceItemID uuid.UUID       `json:"service_item_id"`
	ServiceName   string          `json:"service_name"`
	PricingUnit   string          `json:"pricing_unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
}

// PickupAddressResponse is the address snapshot of an order
type PickupAddressResponse struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// FeedbackResponse represents order feedback
type FeedbackResponse struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID               uuid.UUID             `json:"id"`
	OrderNumber      string                `json:"order_number"`
	CustomerID       uuid.UUID             `json:"customer_id"`
	BranchID         uuid.UUID             `json:"branch_id"`
	SubscriptionID   *uuid.UUID            `json:"subscription_id,omitempty"`
	Status           string                `json:"status"`
	PickupAddress    PickupAddressResponse `json:"pickup_address"`
	PickupDate       string                `json:"pickup_date"`
	PickupSlot       string                `json:"pickup_slot,omitempty"`
	Items            []OrderItemResponse   `json:"items"`
	TotalWeightKg    decimal.Decimal       `json:"total_weight_kg"`
	TotalItems       int                   `json:"total_items"`
	EstimatedAmount  decimal.Decimal       `json:"estimated_amount"`
	Notes            string                `json:"notes,omitempty"`
	PickedUpAt       *time.Time            `json:"picked_up_at,omitempty"`
	ProcessingAt     *time.Time            `json:"processing_at,omitempty"`
	ReadyAt          *time.Time            `json:"ready_at,omitempty"`
	OutForDeliveryAt *time.Time            `json:"out_for_delivery_at,omitempty"`
	DeliveredAt      *time.Time            `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason     string                `json:"cancel_reason,omitempty"`
	Feedback         *FeedbackResponse     `json:"feedback,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Version          int                   `json:"version"`
}

// OrderListResponse is the compact list form of an order
type OrderListResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	Status          string          `json:"status"`
	PickupDate      string          `json:"pickup_date"`
	PickupSlot      string          `json:"pickup_slot,omitempty"`
	Pincode         string          `json:"pincode"`
	TotalItems      int             `json:"total_items"`
	TotalWeightKg   decimal.Decimal `json:"total_weight_kg"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:            it.ID,
			ServiceItemID: it.ServiceItemID,
			ServiceName:   it.ServiceName,
			PricingUnit:   string(it.PricingUnit),
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Amount:        it.Amount,
		}
	}

	resp := OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		BranchID:       o.BranchID,
		SubscriptionID: o.SubscriptionID,
		Status:         string(o.Status),
		PickupAddress: PickupAddressResponse{
			Line1:   o.PickupAddress.Line1,
			Line2:   o.PickupAddress.Line2,
			City:    o.PickupAddress.City,
			State:   o.PickupAddress.State,
			Pincode: o.PickupAddress.Pincode,
		},
		PickupDate:       o.PickupDate.Format(PickupDateLayout),
		PickupSlot:       o.PickupSlot,
		Items:            items,
		TotalWeightKg:    o.TotalWeightKg,
		TotalItems:       o.TotalItems,
		EstimatedAmount:  o.EstimatedAmount,
		Notes:            o.Notes,
		PickedUpAt:       o.PickedUpAt,
		ProcessingAt:     o.ProcessingAt,
		ReadyAt:          o.ReadyAt,
		OutForDeliveryAt: o.OutForDeliveryAt,
		DeliveredAt:      o.DeliveredAt,
		CancelledAt:      o.CancelledAt,
		CancelReason:     o.CancelReason,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Version:          o.Version,
	}
	if o.Feedback != nil {
		resp.Feedback = &FeedbackResponse{
			Rating:      o.Feedback.Rating,
			Comment:     o.Feedback.Comment,
			SubmittedAt: o.Feedback.SubmittedAt,
		}
	}
	return resp
}

// ToOrderListResponse converts a domain Order to OrderListResponse
func ToOrderListResponse(o *order.Order) OrderListResponse {
	return OrderListResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		BranchID:        o.BranchID,
		Status:          string(o.Status),
		PickupDate:      o.PickupDate.Format(PickupDateLayout),
		PickupSlot:      o.PickupSlot,
		Pincode:         o.PickupAddress.Pincode,
		TotalItems:      o.TotalItems,
		TotalWeightKg:   o.TotalWeightKg,
		EstimatedAmount: o.EstimatedAmount,
		CreatedAt:       o.CreatedAt,
	}
}
