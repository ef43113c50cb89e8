package billing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ItemInput describes a line before it is priced
type ItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	// Amount overrides Quantity × UnitPrice when set
	Amount     *decimal.Decimal
	IsDiscount bool
}

// InvoiceItem is a priced invoice line. Discount lines always carry a
// negative amount.
type InvoiceItem struct {
	ID               uuid.UUID
	InvoiceID        uuid.UUID
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Amount           decimal.Decimal
	AmountOverridden bool
	IsDiscount       bool
	SortOrder        int
}

// NewInvoiceItem prices an input line
func NewInvoiceItem(invoiceID uuid.UUID, in ItemInput) (InvoiceItem, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" || len(desc) > 200 {
		return InvoiceItem{}, shared.NewDomainError("INVALID_ITEM", "Item description must be 1-200 characters")
	}
	qty := in.Quantity
	if qty.IsZero() && in.Amount != nil {
		qty = decimal.NewFromInt(1)
	}
	if !qty.IsPositive() {
		return InvoiceItem{}, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return InvoiceItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Description: desc,
		Quantity:    valueobject.RoundWeight(qty),
		UnitPrice:   valueobject.RoundMoney(in.UnitPrice),
		IsDiscount:  in.IsDiscount,
	}
	if in.Amount != nil {
		item.Amount = valueobject.RoundMoney(*in.Amount)
		item.AmountOverridden = true
	} else {
		item.Amount = valueobject.RoundMoney(qty.Mul(in.UnitPrice))
	}
	if item.IsDiscount {
		item.Amount = item.Amount.Abs().Neg()
	} else if item.Amount.IsNegative() {
		return InvoiceItem{}, shared.NewDomainError("INVALID_AMOUNT", "Only discount lines may be negative")
	}
	return item, nil
}

// Totals is the result of pricing a set of lines
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// CalculateTotals sums the lines and applies taxRate (a percentage) to
// the subtotal. A negative subtotal is rejected.
func CalculateTotals(items []InvoiceItem, taxRate decimal.Decimal) (Totals, error) {
	if err := validateTaxRate(taxRate); err != nil {
		return Totals{}, err
	}
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	if subtotal.IsNegative() {
		return Totals{}, shared.NewDomainError("NEGATIVE_SUBTOTAL", "Discounts cannot exceed the invoice subtotal")
	}
	tax := valueobject.Percent(subtotal, taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}, nil
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	return nil
}
