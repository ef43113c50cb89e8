package branch

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/branch"
)

// =============================================================================
// Branch DTOs
// =============================================================================

// CreateBranchRequest represents a request to open a branch
type CreateBranchRequest struct {
	Code          string `json:"code" binding:"required,min=2,max=20"`
	Name          string `json:"name" binding:"required,min=1,max=100"`
	Address       string `json:"address" binding:"max=500"`
	City          string `json:"city" binding:"max=100"`
	State         string `json:"state" binding:"max=100"`
	Pincode       string `json:"pincode" binding:"omitempty,len=6,numeric"`
	Phone         string `json:"phone" binding:"max=20"`
	Email         string `json:"email" binding:"omitempty,email,max=200"`
	TaxID         string `json:"tax_id" binding:"max=30"`
	InvoicePrefix string `json:"invoice_prefix" binding:"max=10"`
	InvoiceFooter string `json:"invoice_footer" binding:"max=1000"`
}

// UpdateBranchRequest represents a request to update a branch. Nil fields
// keep their current value.
type UpdateBranchRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	City    *string `json:"city" binding:"omitempty,max=100"`
	State   *string `json:"state" binding:"omitempty,max=100"`
	Pincode *string `json:"pincode" binding:"omitempty,len=6,numeric"`
	Phone   *string `json:"phone" binding:"omitempty,max=20"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
}

// UpdateInvoiceDetailsRequest sets the invoice header data of a branch
type UpdateInvoiceDetailsRequest struct {
	TaxID         string `json:"tax_id" binding:"max=30"`
	InvoicePrefix string `json:"invoice_prefix" binding:"max=10"`
	InvoiceFooter string `json:"invoice_footer" binding:"max=1000"`
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Pincode       string    `json:"pincode"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	TaxID         string    `json:"tax_id"`
	InvoicePrefix string    `json:"invoice_prefix"`
	InvoiceFooter string    `json:"invoice_footer"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// BranchListFilter represents filter options for the branch list
type BranchListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToBranchResponse converts a domain Branch to BranchResponse
func ToBranchResponse(b *branch.Branch) BranchResponse {
	return BranchResponse{
		ID:            b.ID,
		TenantID:      b.TenantID,
		Code:          b.Code,
		Name:          b.Name,
		Address:       b.Address,
		City:          b.City,
		State:         b.State,
		Pincode:       b.Pincode,
		Phone:         b.Phone,
		Email:         b.Email,
		TaxID:         b.TaxID,
		InvoicePrefix: b.InvoicePrefix,
		InvoiceFooter: b.InvoiceFooter,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		Version:       b.Version,
	}
}

// =============================================================================
// Service area DTOs
// =============================================================================

// CreateServiceAreaRequest maps a pincode to a branch
type CreateServiceAreaRequest struct {
	Pincode  string    `json:"pincode" binding:"required,len=6,numeric"`
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
	Locality string    `json:"locality" binding:"max=100"`
}

// UpdateServiceAreaRequest changes the locality label or the active flag
type UpdateServiceAreaRequest struct {
	Locality *string `json:"locality" binding:"omitempty,max=100"`
	Active   *bool   `json:"active"`
}

// ReassignServiceAreaRequest moves a pincode to another branch
type ReassignServiceAreaRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
}

// ServiceAreaResponse represents a pincode mapping in API responses
type ServiceAreaResponse struct {
	ID        uuid.UUID `json:"id"`
	Pincode   string    `json:"pincode"`
	BranchID  uuid.UUID `json:"branch_id"`
	Locality  string    `json:"locality"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceAreaListFilter represents filter options for the service area list
type ServiceAreaListFilter struct {
	Search   string     `form:"search"`
	BranchID *uuid.UUID `form:"branch_id"`
	Active   *bool      `form:"active"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ServiceabilityResponse is the public answer to "do you serve my pincode"
type ServiceabilityResponse struct {
	Pincode    string    `json:"pincode"`
	Locality   string    `json:"locality"`
	BranchID   uuid.UUID `json:"branch_id"`
	BranchCode string    `json:"branch_code"`
	BranchName string    `json:"branch_name"`
	Phone      string    `json:"phone"`
}

// ToServiceAreaResponse converts a domain ServiceArea to ServiceAreaResponse
func ToServiceAreaResponse(a *branch.ServiceArea) ServiceAreaResponse {
	return ServiceAreaResponse{
		ID:        a.ID,
		Pincode:   a.Pincode,
		BranchID:  a.BranchID,
		Locality:  a.Locality,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// =============================================================================
// Branding DTOs
// =============================================================================

// UpdateBrandingRequest replaces the branding settings
type UpdateBrandingRequest struct {
	BusinessName   string `json:"business_name" binding:"required,min=1,max=120"`
	Tagline        string `json:"tagline" binding:"max=200"`
	PrimaryColor   string `json:"primary_color" binding:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" binding:"omitempty,hexcolor"`
	SupportEmail   string `json:"support_email" binding:"omitempty,email,max=200"`
	SupportPhone   string `json:"support_phone" binding:"max=20"`
	Website        string `json:"website" binding:"omitempty,url,max=200"`
	InvoiceFooter  string `json:"invoice_footer" binding:"max=1000"`
}

// BrandingResponse represents the branding settings in API responses
type BrandingResponse struct {
	BusinessName   string     `json:"business_name"`
	Tagline        string     `json:"tagline"`
	LogoAssetID    *uuid.UUID `json:"logo_asset_id,omitempty"`
	LogoURL        string     `json:"logo_url,omitempty"`
	PrimaryColor   string     `json:"primary_color"`
	SecondaryColor string     `json:"secondary_color"`
	SupportEmail   string     `json:"support_email"`
	SupportPhone   string     `json:"support_phone"`
	Website        string     `json:"website"`
	InvoiceFooter  string     `json:"invoice_footer"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LogoPath is the public route serving the tenant logo
const LogoPath = "/api/v1/branding/logo"

// ToBrandingResponse converts domain BrandingSettings to BrandingResponse
func ToBrandingResponse(s *branch.BrandingSettings) BrandingResponse {
	resp := BrandingResponse{
		BusinessName:   s.BusinessName,
		Tagline:        s.Tagline,
		LogoAssetID:    s.LogoAssetID,
		PrimaryColor:   s.PrimaryColor,
		SecondaryColor: s.SecondaryColor,
		SupportEmail:   s.SupportEmail,
		SupportPhone:   s.SupportPhone,
		Website:        s.Website,
		InvoiceFooter:  s.InvoiceFooter,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.LogoAssetID != nil {
		resp.LogoURL = LogoPath
	}
	return resp
}
