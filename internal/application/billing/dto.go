package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is one invoice line. Amount, when given, replaces
// quantity × unit price; discount lines are always stored negative.
type InvoiceItemRequest struct {
	Description string           `json:"description" binding:"required,min=1,max=200"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Amount      *decimal.Decimal `json:"amount"`
	IsDiscount  bool             `json:"is_discount"`
}

// GenerateInvoiceRequest raises an invoice from an order's items
type GenerateInvoiceRequest struct {
	OrderID   uuid.UUID            `json:"order_id" binding:"required"`
	Type      string               `json:"type" binding:"required,oneof=ACK FINAL"`
	TaxRate   *decimal.Decimal     `json:"tax_rate"`
	Discounts []InvoiceItemRequest `json:"discounts" binding:"omitempty,dive"`
	Notes     string               `json:"notes" binding:"max=1000"`
}

// ReplaceInvoiceItemsRequest replaces every line of a draft
type ReplaceInvoiceItemsRequest struct {
	Items []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SetTaxRateRequest changes the tax percentage of a draft
type SetTaxRateRequest struct {
	TaxRate decimal.Decimal `json:"tax_rate"`
}

// VoidInvoiceRequest voids an invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Type       string     `form:"type" binding:"omitempty,oneof=ACK FINAL"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT ISSUED VOID"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderID    *uuid.UUID `form:"order_id"`
	From       string     `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string     `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Amount           decimal.Decimal `json:"amount"`
	AmountOverridden bool            `json:"amount_overridden"`
	IsDiscount       bool            `json:"is_discount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	OrderID       uuid.UUID             `json:"order_id"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	BranchID      uuid.UUID             `json:"branch_id"`
	Type          string                `json:"type"`
	Status        string                `json:"status"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxRate       decimal.Decimal       `json:"tax_rate"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	Total         decimal.Decimal       `json:"total"`
	Currency      string                `json:"currency"`
	Notes         string                `json:"notes,omitempty"`
	IssuedAt      *time.Time            `json:"issued_at,omitempty"`
	VoidedAt      *time.Time            `json:"voided_at,omitempty"`
	VoidReason    string                `json:"void_reason,omitempty"`
	HasPDF        bool                  `json:"has_pdf"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// InvoiceListResponse is the compact list form of an invoice
type InvoiceListResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       uuid.UUID       `json:"order_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	IssuedAt      *time.Time      `json:"issued_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:               it.ID,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Amount:           it.Amount,
			AmountOverridden: it.AmountOverridden,
			IsDiscount:       it.IsDiscount,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       inv.OrderID,
		CustomerID:    inv.CustomerID,
		BranchID:      inv.BranchID,
		Type:          string(inv.Type),
		Status:        string(inv.Status),
		Items:         items,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Currency:      inv.Currency,
		Notes:         inv.Notes,
		IssuedAt:      inv.IssuedAt,
		VoidedAt:      inv.VoidedAt,
		VoidReason:    inv.VoidReason,
		HasPDF:        inv.PDFAssetID != nil,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

// ToInvoiceListResponse converts a domain Invoice to InvoiceListResponse
func ToInvoiceListResponse(inv *billing.Invoice) InvoiceListResponse {
	return InvoiceListResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       inv.OrderID,
		CustomerID:    inv.CustomerID,
		Type:          string(inv.Type),
		Status:        string(inv.Status),
		Total:         inv.Total,
		Currency:      inv.Currency,
		IssuedAt:      inv.IssuedAt,
		CreatedAt:     inv.CreatedAt,
	}
}

func toItemInputs(reqs []InvoiceItemRequest, discount bool) []billing.ItemInput {
	out := make([]billing.ItemInput, len(reqs))
	for i, r := range reqs {
		out[i] = billing.ItemInput{
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Amount:      r.Amount,
			IsDiscount:  r.IsDiscount || discount,
		}
	}
	return out
}
