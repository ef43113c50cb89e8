package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate
type PaymentModel struct {
	TenantAggregateModel
	PaymentNumber string          `gorm:"type:varchar(30);not null"`
	InvoiceID     uuid.UUID       `gorm:"type:char(36);not null;index"`
	OrderID       uuid.UUID       `gorm:"type:char(36);not null"`
	CustomerID    uuid.UUID       `gorm:"type:char(36);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method        payment.Method  `gorm:"type:varchar(10);not null"`
	Status        payment.Status  `gorm:"type:varchar(10);not null;index"`
	Reference     string          `gorm:"type:varchar(100)"`
	CapturedAt    *time.Time      `gorm:"index"`
	FailedAt      *time.Time
	RefundedAt    *time.Time
	FailureReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		PaymentNumber:       m.PaymentNumber,
		InvoiceID:           m.InvoiceID,
		OrderID:             m.OrderID,
		CustomerID:          m.CustomerID,
		Amount:              m.Amount,
		Method:              m.Method,
		Status:              m.Status,
		Reference:           m.Reference,
		CapturedAt:          m.CapturedAt,
		FailedAt:            m.FailedAt,
		RefundedAt:          m.RefundedAt,
		FailureReason:       m.FailureReason,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.PaymentNumber = p.PaymentNumber
	m.InvoiceID = p.InvoiceID
	m.OrderID = p.OrderID
	m.CustomerID = p.CustomerID
	m.Amount = p.Amount
	m.Method = p.Method
	m.Status = p.Status
	m.Reference = p.Reference
	m.CapturedAt = p.CapturedAt
	m.FailedAt = p.FailedAt
	m.RefundedAt = p.RefundedAt
	m.FailureReason = p.FailureReason
}
