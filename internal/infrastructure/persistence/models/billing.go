package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string              `gorm:"type:varchar(40);not null"`
	OrderID       uuid.UUID           `gorm:"type:char(36);not null;index"`
	CustomerID    uuid.UUID           `gorm:"type:char(36);not null;index"`
	BranchID      uuid.UUID           `gorm:"type:char(36);not null;index"`
	Type          billing.InvoiceType `gorm:"type:varchar(10);not null"`
	Status        billing.Status      `gorm:"type:varchar(10);not null;index"`
	Subtotal      decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate       decimal.Decimal     `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount     decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Currency      string              `gorm:"type:varchar(3);not null"`
	Notes         string              `gorm:"type:text"`
	IssuedAt      *time.Time          `gorm:"index"`
	VoidedAt      *time.Time
	VoidReason    string              `gorm:"type:varchar(500)"`
	PDFAssetID    *uuid.UUID          `gorm:"column:pdf_asset_id;type:char(36)"`
	Items         []InvoiceItemModel  `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		InvoiceNumber:       m.InvoiceNumber,
		OrderID:             m.OrderID,
		CustomerID:          m.CustomerID,
		BranchID:            m.BranchID,
		Type:                m.Type,
		Status:              m.Status,
		Items:               make([]billing.InvoiceItem, len(m.Items)),
		Subtotal:            m.Subtotal,
		TaxRate:             m.TaxRate,
		TaxAmount:           m.TaxAmount,
		Total:               m.Total,
		Currency:            m.Currency,
		Notes:               m.Notes,
		IssuedAt:            m.IssuedAt,
		VoidedAt:            m.VoidedAt,
		VoidReason:          m.VoidReason,
		PDFAssetID:          m.PDFAssetID,
	}
	for i := range m.Items {
		inv.Items[i] = m.Items[i].ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.OrderID = inv.OrderID
	m.CustomerID = inv.CustomerID
	m.BranchID = inv.BranchID
	m.Type = inv.Type
	m.Status = inv.Status
	m.Subtotal = inv.Subtotal
	m.TaxRate = inv.TaxRate
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.Currency = inv.Currency
	m.Notes = inv.Notes
	m.IssuedAt = inv.IssuedAt
	m.VoidedAt = inv.VoidedAt
	m.VoidReason = inv.VoidReason
	m.PDFAssetID = inv.PDFAssetID
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i].FromDomain(inv.TenantID, inv.ID, item)
	}
}

// InvoiceItemModel is a priced invoice line
type InvoiceItemModel struct {
	ID               uuid.UUID       `gorm:"type:char(36);primaryKey"`
	TenantID         uuid.UUID       `gorm:"type:char(36);not null"`
	InvoiceID        uuid.UUID       `gorm:"type:char(36);not null;index"`
	Description      string          `gorm:"type:varchar(200);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountOverridden bool            `gorm:"not null;default:false"`
	IsDiscount       bool            `gorm:"not null;default:false"`
	SortOrder        int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the row to a domain InvoiceItem
func (m *InvoiceItemModel) ToDomain() billing.InvoiceItem {
	return billing.InvoiceItem{
		ID:               m.ID,
		InvoiceID:        m.InvoiceID,
		Description:      m.Description,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		Amount:           m.Amount,
		AmountOverridden: m.AmountOverridden,
		IsDiscount:       m.IsDiscount,
		SortOrder:        m.SortOrder,
	}
}

// FromDomain populates the row from a domain InvoiceItem
func (m *InvoiceItemModel) FromDomain(tenantID, invoiceID uuid.UUID, item billing.InvoiceItem) {
	m.ID = item.ID
	m.TenantID = tenantID
	m.InvoiceID = invoiceID
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.Amount = item.Amount
	m.AmountOverridden = item.AmountOverridden
	m.IsDiscount = item.IsDiscount
	m.SortOrder = item.SortOrder
}
