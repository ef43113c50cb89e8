package printing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice(t *testing.T) *billing.Invoice {
	t.Helper()
	tenantID := uuid.New()
	inv, err := billing.NewInvoice(tenantID, "MUM-INV-202503-0007", billing.TypeFinal,
		uuid.New(), uuid.New(), uuid.New(), "inr", decimal.NewFromInt(18))
	require.NoError(t, err)
	require.NoError(t, inv.ReplaceItems([]billing.ItemInput{
		{Description: "Wash & Fold", Quantity: decimal.RequireFromString("2.5"), UnitPrice: decimal.NewFromInt(80)},
		{Description: "Dry clean - saree", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(150)},
		{Description: "Welcome offer", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), IsDiscount: true},
	}))
	require.NoError(t, inv.Issue(time.Date(2025, 3, 14, 18, 45, 0, 0, time.UTC)))
	return inv
}

func TestInvoiceTemplate_Render(t *testing.T) {
	tmpl, err := NewInvoiceTemplate()
	require.NoError(t, err)

	inv := sampleInvoice(t)
	br, err := branch.NewBranch(inv.TenantID, "mum", "Mumbai Central")
	require.NoError(t, err)
	br.TaxID = "27AAAPL1234C1ZV"
	br.InvoiceFooter = "Thank you for choosing us"

	branding := branch.DefaultBrandingSettings(inv.TenantID)
	branding.BusinessName = "Sparkle Laundry"
	branding.PrimaryColor = "#0F9D58"

	cust, err := customer.NewCustomer(inv.TenantID, "Asha Rao", "9876543210", "asha@example.com")
	require.NoError(t, err)

	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		ist = time.FixedZone("IST", 5*3600+1800)
	}

	html, err := tmpl.Render(InvoiceDocument{
		Invoice:     inv,
		Branch:      br,
		Branding:    branding,
		Customer:    cust,
		LogoDataURL: "data:image/png;base64,iVBORw0KGgo=",
		Location:    ist,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "TAX INVOICE")
	assert.Contains(t, html, "MUM-INV-202503-0007")
	assert.Contains(t, html, "Sparkle Laundry")
	assert.Contains(t, html, "#0F9D58")
	assert.Contains(t, html, "Tax ID: 27AAAPL1234C1ZV")
	assert.Contains(t, html, "Asha Rao")
	assert.Contains(t, html, "Wash &amp; Fold")
	assert.Contains(t, html, "INR 200.00")
	assert.Contains(t, html, "INR -50.00")
	assert.Contains(t, html, "INR 600.00")
	assert.Contains(t, html, "Tax (18%)")
	assert.Contains(t, html, "INR 108.00")
	assert.Contains(t, html, "INR 708.00")
	assert.Contains(t, html, "15 Mar 2025")
	assert.Contains(t, html, "Issued")
	assert.Contains(t, html, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, html, "Thank you for choosing us")
	assert.Contains(t, html, `class="discount"`)
}

func TestInvoiceTemplate_RenderDefaults(t *testing.T) {
	tmpl, err := NewInvoiceTemplate()
	require.NoError(t, err)

	inv := sampleInvoice(t)
	inv.Type = billing.TypeAck
	html, err := tmpl.Render(InvoiceDocument{Invoice: inv, LogoDataURL: "javascript:alert(1)"})
	require.NoError(t, err)

	assert.Contains(t, html, "ACKNOWLEDGEMENT")
	assert.Contains(t, html, branch.DefaultPrimaryColor)
	assert.NotContains(t, html, "javascript:")
	assert.NotContains(t, html, "<img")

	_, err = tmpl.Render(InvoiceDocument{})
	assert.Error(t, err)
}

func TestInvoiceTemplate_Footer(t *testing.T) {
	tmpl, err := NewInvoiceTemplate()
	require.NoError(t, err)

	footer := tmpl.Footer(InvoiceDocument{Invoice: &billing.Invoice{InvoiceNumber: "A<B"}})
	assert.Contains(t, footer, "A&lt;B")
	assert.Contains(t, footer, `class="pageNumber"`)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"1234.5", "INR", "INR 1,234.50"},
		{"0", "INR", "INR 0.00"},
		{"-1234567.891", "usd", "USD -1,234,567.89"},
		{"999", "XYZ1", "XYZ1 999.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2.5", formatQuantity(decimal.RequireFromString("2.500")))
	assert.Equal(t, "3", formatQuantity(decimal.RequireFromString("3.000")))
}
