package models

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/branch"
)

// BranchModel is the persistence model for the Branch aggregate
type BranchModel struct {
	TenantAggregateModel
	Code          string        `gorm:"type:varchar(20);not null"`
	Name          string        `gorm:"type:varchar(100);not null"`
	Address       string        `gorm:"type:varchar(500)"`
	City          string        `gorm:"type:varchar(100)"`
	State         string        `gorm:"type:varchar(100)"`
	Pincode       string        `gorm:"type:varchar(6)"`
	Phone         string        `gorm:"type:varchar(20)"`
	Email         string        `gorm:"type:varchar(200)"`
	TaxID         string        `gorm:"type:varchar(30)"`
	InvoicePrefix string        `gorm:"type:varchar(10);not null"`
	InvoiceFooter string        `gorm:"type:text"`
	Status        branch.Status `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch
func (m *BranchModel) ToDomain() *branch.Branch {
	return &branch.Branch{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Address:             m.Address,
		City:                m.City,
		State:               m.State,
		Pincode:             m.Pincode,
		Phone:               m.Phone,
		Email:               m.Email,
		TaxID:               m.TaxID,
		InvoicePrefix:       m.InvoicePrefix,
		InvoiceFooter:       m.InvoiceFooter,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Branch
func (m *BranchModel) FromDomain(b *branch.Branch) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.Code = b.Code
	m.Name = b.Name
	m.Address = b.Address
	m.City = b.City
	m.State = b.State
	m.Pincode = b.Pincode
	m.Phone = b.Phone
	m.Email = b.Email
	m.TaxID = b.TaxID
	m.InvoicePrefix = b.InvoicePrefix
	m.InvoiceFooter = b.InvoiceFooter
	m.Status = b.Status
}

// ServiceAreaModel maps a pincode to its branch. The unique
// (tenant_id, pincode) index keeps a pincode on at most one branch.
type ServiceAreaModel struct {
	TenantAggregateModel
	Pincode  string    `gorm:"type:varchar(6);not null"`
	BranchID uuid.UUID `gorm:"type:char(36);not null;index"`
	Locality string    `gorm:"type:varchar(100)"`
	Active   bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ServiceAreaModel) TableName() string {
	return "service_areas"
}

// ToDomain converts the persistence model to a domain ServiceArea
func (m *ServiceAreaModel) ToDomain() *branch.ServiceArea {
	return &branch.ServiceArea{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Pincode:             m.Pincode,
		BranchID:            m.BranchID,
		Locality:            m.Locality,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain ServiceArea
func (m *ServiceAreaModel) FromDomain(a *branch.ServiceArea) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Pincode = a.Pincode
	m.BranchID = a.BranchID
	m.Locality = a.Locality
	m.Active = a.Active
}

// BrandingSettingsModel stores the single branding row of a tenant
type BrandingSettingsModel struct {
	TenantAggregateModel
	BusinessName   string     `gorm:"type:varchar(120);not null"`
	Tagline        string     `gorm:"type:varchar(200)"`
	LogoAssetID    *uuid.UUID `gorm:"type:char(36)"`
	PrimaryColor   string     `gorm:"type:varchar(7);not null"`
	SecondaryColor string     `gorm:"type:varchar(7);not null"`
	SupportEmail   string     `gorm:"type:varchar(200)"`
	SupportPhone   string     `gorm:"type:varchar(20)"`
	Website        string     `gorm:"type:varchar(200)"`
	InvoiceFooter  string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (BrandingSettingsModel) TableName() string {
	return "branding_settings"
}

// ToDomain converts the persistence model to domain BrandingSettings
func (m *BrandingSettingsModel) ToDomain() *branch.BrandingSettings {
	return &branch.BrandingSettings{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BusinessName:        m.BusinessName,
		Tagline:             m.Tagline,
		LogoAssetID:         m.LogoAssetID,
		PrimaryColor:        m.PrimaryColor,
		SecondaryColor:      m.SecondaryColor,
		SupportEmail:        m.SupportEmail,
		SupportPhone:        m.SupportPhone,
		Website:             m.Website,
		InvoiceFooter:       m.InvoiceFooter,
	}
}

// FromDomain populates the persistence model from domain BrandingSettings
func (m *BrandingSettingsModel) FromDomain(s *branch.BrandingSettings) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.BusinessName = s.BusinessName
	m.Tagline = s.Tagline
	m.LogoAssetID = s.LogoAssetID
	m.PrimaryColor = s.PrimaryColor
	m.SecondaryColor = s.SecondaryColor
	m.SupportEmail = s.SupportEmail
	m.SupportPhone = s.SupportPhone
	m.Website = s.Website
	m.InvoiceFooter = s.InvoiceFooter
}
