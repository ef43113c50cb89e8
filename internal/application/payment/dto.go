package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest records money received against an issued invoice
type RecordPaymentRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required,oneof=cash card upi online"`
	Reference string          `json:"reference" binding:"max=100"`
	// Capture marks the payment captured straight away
	Capture bool `json:"capture"`
}

// FailPaymentRequest marks a pending payment as failed
type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING CAPTURED FAILED REFUNDED"`
	Method     string     `form:"method" binding:"omitempty,oneof=cash card upi online"`
	InvoiceID  *uuid.UUID `form:"invoice_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	From       string     `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string     `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	Reference     string          `json:"reference,omitempty"`
	CapturedAt    *time.Time      `json:"captured_at,omitempty"`
	FailedAt      *time.Time      `json:"failed_at,omitempty"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	FailureReason string          `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		InvoiceID:     p.InvoiceID,
		OrderID:       p.OrderID,
		CustomerID:    p.CustomerID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        string(p.Status),
		Reference:     p.Reference,
		CapturedAt:    p.CapturedAt,
		FailedAt:      p.FailedAt,
		RefundedAt:    p.RefundedAt,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}
