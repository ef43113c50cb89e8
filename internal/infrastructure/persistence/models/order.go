package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate. The pickup
// address is a snapshot stored inline, feedback lives on the same row.
type OrderModel struct {
	TenantAggregateModel
	OrderNumber      string           `gorm:"type:varchar(20);not null"`
	CustomerID       uuid.UUID        `gorm:"type:char(36);not null;index"`
	BranchID         uuid.UUID        `gorm:"type:char(36);not null;index"`
	SubscriptionID   *uuid.UUID       `gorm:"type:char(36)"`
	Status           order.Status     `gorm:"type:varchar(20);not null;index"`
	PickupLine1      string           `gorm:"type:varchar(200);not null"`
	PickupLine2      string           `gorm:"type:varchar(200)"`
	PickupCity       string           `gorm:"type:varchar(100);not null"`
	PickupState      string           `gorm:"type:varchar(100)"`
	Pincode          string           `gorm:"type:varchar(6);not null"`
	PickupDate       time.Time        `gorm:"not null;index"`
	PickupSlot       string           `gorm:"type:varchar(11)"`
	TotalWeightKg    decimal.Decimal  `gorm:"type:decimal(10,3);not null;default:0"`
	TotalItems       int              `gorm:"not null;default:0"`
	EstimatedAmount  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Notes            string           `gorm:"type:text"`
	PickedUpAt       *time.Time
	ProcessingAt     *time.Time
	ReadyAt          *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string           `gorm:"type:varchar(500)"`
	FeedbackRating   *int
	FeedbackComment  string           `gorm:"type:text"`
	FeedbackAt       *time.Time
	Items            []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		OrderNumber:         m.OrderNumber,
		CustomerID:          m.CustomerID,
		BranchID:            m.BranchID,
		SubscriptionID:      m.SubscriptionID,
		Status:              m.Status,
		PickupAddress: valueobject.PostalAddress{
			Line1:   m.PickupLine1,
			Line2:   m.PickupLine2,
			City:    m.PickupCity,
			State:   m.PickupState,
			Pincode: m.Pincode,
		},
		PickupDate:       m.PickupDate,
		PickupSlot:       m.PickupSlot,
		Items:            make([]order.Item, len(m.Items)),
		TotalWeightKg:    m.TotalWeightKg,
		TotalItems:       m.TotalItems,
		EstimatedAmount:  m.EstimatedAmount,
		Notes:            m.Notes,
		PickedUpAt:       m.PickedUpAt,
		ProcessingAt:     m.ProcessingAt,
		ReadyAt:          m.ReadyAt,
		OutForDeliveryAt: m.OutForDeliveryAt,
		DeliveredAt:      m.DeliveredAt,
		CancelledAt:      m.CancelledAt,
		CancelReason:     m.CancelReason,
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	if m.FeedbackRating != nil && m.FeedbackAt != nil {
		o.Feedback = &order.Feedback{
			Rating:      *m.FeedbackRating,
			Comment:     m.FeedbackComment,
			SubmittedAt: *m.FeedbackAt,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.BranchID = o.BranchID
	m.SubscriptionID = o.SubscriptionID
	m.Status = o.Status
	m.PickupLine1 = o.PickupAddress.Line1
	m.PickupLine2 = o.PickupAddress.Line2
	m.PickupCity = o.PickupAddress.City
	m.PickupState = o.PickupAddress.State
	m.Pincode = o.PickupAddress.Pincode
	m.PickupDate = o.PickupDate
	m.PickupSlot = o.PickupSlot
	m.TotalWeightKg = o.TotalWeightKg
	m.TotalItems = o.TotalItems
	m.EstimatedAmount = o.EstimatedAmount
	m.Notes = o.Notes
	m.PickedUpAt = o.PickedUpAt
	m.ProcessingAt = o.ProcessingAt
	m.ReadyAt = o.ReadyAt
	m.OutForDeliveryAt = o.OutForDeliveryAt
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.FeedbackRating = nil
	m.FeedbackComment = ""
	m.FeedbackAt = nil
	if o.Feedback != nil {
		rating := o.Feedback.Rating
		at := o.Feedback.SubmittedAt
		m.FeedbackRating = &rating
		m.FeedbackComment = o.Feedback.Comment
		m.FeedbackAt = &at
	}
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i].FromDomain(o.TenantID, o.ID, item, i)
	}
}

// OrderItemModel is a priced order line
type OrderItemModel struct {
	ID            uuid.UUID           `gorm:"type:char(36);primaryKey"`
	TenantID      uuid.UUID           `gorm:"type:char(36);not null"`
	OrderID       uuid.UUID           `gorm:"type:char(36);not null;index"`
	ServiceItemID uuid.UUID           `gorm:"type:char(36);not null"`
	ServiceName   string              `gorm:"type:varchar(100);not null"`
	PricingUnit   catalog.PricingUnit `gorm:"type:varchar(10);not null"`
	Quantity      decimal.Decimal     `gorm:"type:decimal(10,3);not null"`
	UnitPrice     decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Amount        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	SortOrder     int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the row to a domain Item
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:            m.ID,
		OrderID:       m.OrderID,
		ServiceItemID: m.ServiceItemID,
		ServiceName:   m.ServiceName,
		PricingUnit:   m.PricingUnit,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Amount:        m.Amount,
	}
}

// FromDomain populates the row from a domain Item
func (m *OrderItemModel) FromDomain(tenantID, orderID uuid.UUID, item order.Item, sortOrder int) {
	m.ID = item.ID
	m.TenantID = tenantID
	m.OrderID = orderID
	m.ServiceItemID = item.ServiceItemID
	m.ServiceName = item.ServiceName
	m.PricingUnit = item.PricingUnit
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.Amount = item.Amount
	m.SortOrder = sortOrder
}
