package branch

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Default palette used until the tenant saves its own branding
const (
	DefaultPrimaryColor   = "#1E88E5"
	DefaultSecondaryColor = "#FFFFFF"
)

// BrandingSettings is the tenant wide look and contact details shown by
// the customer apps and printed on invoices. There is one per tenant.
type BrandingSettings struct {
	shared.TenantAggregateRoot
	BusinessName   string
	Tagline        string
	LogoAssetID    *uuid.UUID
	PrimaryColor   string
	SecondaryColor string
	SupportEmail   string
	SupportPhone   string
	Website        string
	InvoiceFooter  string
}

// DefaultBrandingSettings returns the settings used before any are saved
func DefaultBrandingSettings(tenantID uuid.UUID) *BrandingSettings {
	return &BrandingSettings{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BusinessName:        "Laundry",
		PrimaryColor:        DefaultPrimaryColor,
		SecondaryColor:      DefaultSecondaryColor,
	}
}

// BrandingUpdate carries the editable branding fields
type BrandingUpdate struct {
	BusinessName   string
	Tagline        string
	PrimaryColor   string
	SecondaryColor string
	SupportEmail   string
	SupportPhone   string
	Website        string
	InvoiceFooter  string
}

// Apply validates and applies an update
func (s *BrandingSettings) Apply(u BrandingUpdate) error {
	name := strings.TrimSpace(u.BusinessName)
	if name == "" {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_BUSINESS_NAME", "Business name cannot exceed 120 characters")
	}
	primary := strings.ToUpper(strings.TrimSpace(u.PrimaryColor))
	if primary == "" {
		primary = DefaultPrimaryColor
	}
	secondary := strings.ToUpper(strings.TrimSpace(u.SecondaryColor))
	if secondary == "" {
		secondary = DefaultSecondaryColor
	}
	if !hexColorPattern.MatchString(primary) || !hexColorPattern.MatchString(secondary) {
		return shared.NewDomainError("INVALID_COLOR", "Colors must be hex values like #1E88E5")
	}
	if len(u.Tagline) > 200 {
		return shared.NewDomainError("INVALID_TAGLINE", "Tagline cannot exceed 200 characters")
	}
	if len(u.InvoiceFooter) > 1000 {
		return shared.NewDomainError("INVALID_INVOICE_FOOTER", "Invoice footer cannot exceed 1000 characters")
	}

	s.BusinessName = name
	s.Tagline = strings.TrimSpace(u.Tagline)
	s.PrimaryColor = primary
	s.SecondaryColor = secondary
	s.SupportEmail = strings.ToLower(strings.TrimSpace(u.SupportEmail))
	s.SupportPhone = strings.TrimSpace(u.SupportPhone)
	s.Website = strings.TrimSpace(u.Website)
	s.InvoiceFooter = strings.TrimSpace(u.InvoiceFooter)
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewBrandingUpdatedEvent(s))
	return nil
}

// SetLogo points the branding at an uploaded image asset
func (s *BrandingSettings) SetLogo(assetID uuid.UUID) {
	s.LogoAssetID = &assetID
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewBrandingUpdatedEvent(s))
}

// IsHexColor reports whether s is a #RRGGBB color
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
