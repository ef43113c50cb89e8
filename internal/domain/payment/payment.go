package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Method is how the customer paid
type Method string

const (
	MethodCash   Method = "cash"
	MethodCard   Method = "card"
	MethodUPI    Method = "upi"
	MethodOnline Method = "online"
)

// IsValid checks if the method is known
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodUPI, MethodOnline:
		return true
	}
	return false
}

// Status represents the status of a payment
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusCaptured Status = "CAPTURED"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCaptured, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the payment may move to target
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusCaptured || target == StatusFailed
	case StatusCaptured:
		return target == StatusRefunded
	}
	return false
}

// ErrPaymentExceedsBalance is returned when a capture would overpay the invoice
var ErrPaymentExceedsBalance = shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE", "Payment exceeds the outstanding invoice balance")

// Payment records money received against an issued invoice
type Payment struct {
	shared.TenantAggregateRoot
	PaymentNumber string
	InvoiceID     uuid.UUID
	OrderID       uuid.UUID
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	Method        Method
	Status        Status
	Reference     string
	CapturedAt    *time.Time
	FailedAt      *time.Time
	RefundedAt    *time.Time
	FailureReason string
}

// NewPayment creates a pending payment
func NewPayment(tenantID uuid.UUID, number string, invoiceID, orderID, customerID uuid.UUID, amount decimal.Decimal, method Method, reference string) (*Payment, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice is required")
	}
	amount = valueobject.RoundMoney(amount)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method must be cash, card, upi or online")
	}
	if len(reference) > 100 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 100 characters")
	}

	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentNumber:       number,
		InvoiceID:           invoiceID,
		OrderID:             orderID,
		CustomerID:          customerID,
		Amount:              amount,
		Method:              method,
		Status:              StatusPending,
		Reference:           strings.TrimSpace(reference),
	}, nil
}

func (p *Payment) transition(target Status, at time.Time) error {
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move payment from %s to %s", p.Status, target))
	}
	p.Status = target
	p.UpdatedAt = at
	p.IncrementVersion()
	return nil
}

// Capture confirms the money was received
func (p *Payment) Capture(at time.Time) error {
	if err := p.transition(StatusCaptured, at); err != nil {
		return err
	}
	p.CapturedAt = &at
	p.AddDomainEvent(NewPaymentCapturedEvent(p))
	return nil
}

// Fail marks a pending payment as failed
func (p *Payment) Fail(reason string, at time.Time) error {
	if err := p.transition(StatusFailed, at); err != nil {
		return err
	}
	p.FailedAt = &at
	p.FailureReason = strings.TrimSpace(reason)
	return nil
}

// Refund returns a captured payment
func (p *Payment) Refund(at time.Time) error {
	if err := p.transition(StatusRefunded, at); err != nil {
		return err
	}
	p.RefundedAt = &at
	p.AddDomainEvent(NewPaymentRefundedEvent(p))
	return nil
}

// CheckBalance verifies that capturing amount keeps the captured total
// within the invoice total
func CheckBalance(invoiceTotal, alreadyCaptured, amount decimal.Decimal) error {
	if alreadyCaptured.Add(amount).GreaterThan(invoiceTotal) {
		return shared.NewDomainError(ErrPaymentExceedsBalance.Code,
			fmt.Sprintf("Outstanding balance is %s", invoiceTotal.Sub(alreadyCaptured).StringFixed(2)))
	}
	return nil
}

// FormatPaymentNumber builds PAY-YYYYMMDD-NNNNN
func FormatPaymentNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("PAY-%s-%05d", at.Format("20060102"), seq)
}
