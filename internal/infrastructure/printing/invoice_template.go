package printing

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

//go:embed templates/invoice.html
var invoiceHTML string

// InvoiceDocument is everything printed on an invoice
type InvoiceDocument struct {
	Invoice  *billing.Invoice
	Branch   *branch.Branch
	Branding *branch.BrandingSettings
	Customer *customer.Customer
	// LogoDataURL is an inline data: URL of the tenant logo, empty for none
	LogoDataURL string
	Location    *time.Location
}

// InvoiceTemplate renders invoices to HTML ready for a PDFRenderer
type InvoiceTemplate struct {
	tmpl *template.Template
}

// NewInvoiceTemplate parses the built-in invoice layout
func NewInvoiceTemplate() (*InvoiceTemplate, error) {
	title := cases.Title(language.English)
	funcs := template.FuncMap{
		"money": formatMoney,
		"qty":   formatQuantity,
		"add1":  func(i int) int { return i + 1 },
		"date": func(t *time.Time, loc *time.Location) string {
			if t == nil {
				return ""
			}
			if loc == nil {
				loc = time.UTC
			}
			return t.In(loc).Format("02 Jan 2006")
		},
		"title": func(s string) string {
			return title.String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
		},
		"safeURL": func(s string) template.URL {
			if strings.HasPrefix(s, "data:image/") {
				return template.URL(s)
			}
			return ""
		},
		"safeCSS": func(color string) template.CSS {
			if branch.IsHexColor(color) {
				return template.CSS(color)
			}
			return ""
		},
	}

	tmpl, err := template.New("invoice").Funcs(funcs).Parse(invoiceHTML)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse invoice template", err)
	}
	return &InvoiceTemplate{tmpl: tmpl}, nil
}

// Render produces the invoice HTML
func (t *InvoiceTemplate) Render(doc InvoiceDocument) (string, error) {
	if doc.Invoice == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "invoice is required", nil)
	}
	if doc.Branding == nil {
		doc.Branding = branch.DefaultBrandingSettings(doc.Invoice.TenantID)
	}
	if doc.Branch == nil {
		doc.Branch = &branch.Branch{}
	}
	if doc.Customer == nil {
		doc.Customer = &customer.Customer{}
	}
	if doc.Location == nil {
		doc.Location = time.UTC
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// Footer returns the page footer template with page numbers
func (t *InvoiceTemplate) Footer(doc InvoiceDocument) string {
	number := ""
	if doc.Invoice != nil {
		number = template.HTMLEscapeString(doc.Invoice.InvoiceNumber)
	}
	return `<div style="font-size:8px;width:100%;text-align:center;color:#888">` + number +
		` &middot; page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
}

// formatMoney formats an amount with its ISO currency code and thousands
// separators, e.g. "INR 1,234.50". Unknown codes are printed as given.
func formatMoney(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	intPart, frac, _ := strings.Cut(amount.StringFixed(2), ".")

	var grouped strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(c)
	}
	return fmt.Sprintf("%s %s%s.%s", code, sign, grouped.String(), frac)
}

// formatQuantity drops trailing zeros: 2.500 -> 2.5, 3.000 -> 3
func formatQuantity(q decimal.Decimal) string {
	return q.String()
}
