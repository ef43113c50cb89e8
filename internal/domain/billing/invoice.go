package billing

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes acknowledgement and closing invoices
type InvoiceType string

const (
	// TypeAck is raised when clothes are collected
	TypeAck InvoiceType = "ACK"
	// TypeFinal closes the order and counts towards revenue
	TypeFinal InvoiceType = "FINAL"
)

// IsValid checks if the type is known
func (t InvoiceType) IsValid() bool {
	return t == TypeAck || t == TypeFinal
}

// NumberSegment returns the invoice number segment for the type
func (t InvoiceType) NumberSegment() string {
	if t == TypeFinal {
		return "INV"
	}
	return "ACK"
}

// Status represents the status of an invoice
type Status string

const (
	StatusDraft  Status = "DRAFT"
	StatusIssued Status = "ISSUED"
	StatusVoid   Status = "VOID"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusIssued || s == StatusVoid
}

// Billing errors
var (
	ErrInvoiceImmutable  = shared.NewDomainError("INVOICE_IMMUTABLE", "Issued or void invoices cannot be changed")
	ErrFinalInvoiceExist = shared.NewDomainError("FINAL_INVOICE_EXISTS", "Order already has a final invoice")
)

// Invoice is a billing document for an order
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string
	OrderID       uuid.UUID
	CustomerID    uuid.UUID
	BranchID      uuid.UUID
	Type          InvoiceType
	Status        Status
	Items         []InvoiceItem
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	Currency      string
	Notes         string
	IssuedAt      *time.Time
	VoidedAt      *time.Time
	VoidReason    string
	PDFAssetID    *uuid.UUID
}

// NewInvoice creates an empty draft invoice
func NewInvoice(tenantID uuid.UUID, number string, invoiceType InvoiceType, orderID, customerID, branchID uuid.UUID, currency string, taxRate decimal.Decimal) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type must be ACK or FINAL")
	}
	if orderID == uuid.Nil || customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order and customer are required")
	}
	if err := validateTaxRate(taxRate); err != nil {
		return nil, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3 letter ISO code")
	}

	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       number,
		OrderID:             orderID,
		CustomerID:          customerID,
		BranchID:            branchID,
		Type:                invoiceType,
		Status:              StatusDraft,
		Items:               make([]InvoiceItem, 0),
		Subtotal:            decimal.Zero,
		TaxRate:             taxRate,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Currency:            currency,
	}, nil
}

// IsMutable reports whether lines and tax may still change
func (inv *Invoice) IsMutable() bool {
	return inv.Status == StatusDraft
}

// ReplaceItems prices inputs and replaces every line
func (inv *Invoice) ReplaceItems(inputs []ItemInput) error {
	if !inv.IsMutable() {
		return ErrInvoiceImmutable
	}
	items := make([]InvoiceItem, 0, len(inputs))
	for i, in := range inputs {
		item, err := NewInvoiceItem(inv.ID, in)
		if err != nil {
			return err
		}
		item.SortOrder = i
		items = append(items, item)
	}
	totals, err := CalculateTotals(items, inv.TaxRate)
	if err != nil {
		return err
	}
	inv.Items = items
	inv.applyTotals(totals)
	return nil
}

// SetTaxRate changes the tax percentage of a draft and recalculates
func (inv *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if !inv.IsMutable() {
		return ErrInvoiceImmutable
	}
	totals, err := CalculateTotals(inv.Items, rate)
	if err != nil {
		return err
	}
	inv.TaxRate = rate
	inv.applyTotals(totals)
	return nil
}

// SetNotes sets the free-text notes printed on the invoice
func (inv *Invoice) SetNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > 1000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}
	inv.Notes = notes
	inv.Touch()
	return nil
}

func (inv *Invoice) applyTotals(t Totals) {
	inv.Subtotal = t.Subtotal
	inv.TaxAmount = t.TaxAmount
	inv.Total = t.Total
	inv.Touch()
}

// Issue freezes the totals
func (inv *Invoice) Issue(at time.Time) error {
	if inv.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot issue a %s invoice", inv.Status))
	}
	if len(inv.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Invoice must have at least one item")
	}
	inv.Status = StatusIssued
	inv.IssuedAt = &at
	inv.UpdatedAt = at
	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))
	return nil
}

// Void cancels a draft or issued invoice. Totals are kept as they were.
func (inv *Invoice) Void(reason string, at time.Time) error {
	if inv.Status == StatusVoid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already void")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Void reason is required")
	}
	inv.Status = StatusVoid
	inv.VoidedAt = &at
	inv.VoidReason = reason
	inv.UpdatedAt = at
	inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))
	return nil
}

// AttachPDF links the rendered document
func (inv *Invoice) AttachPDF(assetID uuid.UUID) {
	inv.PDFAssetID = &assetID
	inv.Touch()
}

// CountsAsRevenue reports whether the invoice contributes to invoiced revenue
func (inv *Invoice) CountsAsRevenue() bool {
	return inv.Type == TypeFinal && inv.Status == StatusIssued
}

// FormatInvoiceNumber builds <prefix>-<ACK|INV>-YYYYMM-NNNN
func FormatInvoiceNumber(prefix string, t InvoiceType, at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%s-%04d", prefix, t.NumberSegment(), at.Format("200601"), seq)
}
