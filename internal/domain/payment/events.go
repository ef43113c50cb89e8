package payment

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypePayment is the aggregate type for payment events
const AggregateTypePayment = "Payment"

// Payment event types
const (
	EventTypePaymentCaptured = "payment.captured"
	EventTypePaymentRefunded = "payment.refunded"
)

// PaymentEvent carries the money movement of a payment
type PaymentEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        Method          `json:"method"`
}

func newPaymentEvent(eventType string, p *Payment) *PaymentEvent {
	return &PaymentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePayment, p.ID, p.TenantID),
		PaymentNumber:   p.PaymentNumber,
		InvoiceID:       p.InvoiceID,
		CustomerID:      p.CustomerID,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

// NewPaymentCapturedEvent creates a payment.captured event
func NewPaymentCapturedEvent(p *Payment) *PaymentEvent {
	return newPaymentEvent(EventTypePaymentCaptured, p)
}

// NewPaymentRefundedEvent creates a payment.refunded event
func NewPaymentRefundedEvent(p *Payment) *PaymentEvent {
	return newPaymentEvent(EventTypePaymentRefunded, p)
}
