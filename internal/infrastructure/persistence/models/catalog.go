package models

import (
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ServiceItemModel is the persistence model for a price list entry
type ServiceItemModel struct {
	TenantAggregateModel
	Code        string              `gorm:"type:varchar(30);not null"`
	Name        string              `gorm:"type:varchar(100);not null"`
	Description string              `gorm:"type:varchar(500)"`
	Category    catalog.Category    `gorm:"type:varchar(20);not null;index"`
	PricingUnit catalog.PricingUnit `gorm:"type:varchar(10);not null"`
	UnitPrice   decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Active      bool                `gorm:"not null;default:true"`
	SortOrder   int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ServiceItemModel) TableName() string {
	return "service_items"
}

// ToDomain converts the persistence model to a domain ServiceItem
func (m *ServiceItemModel) ToDomain() *catalog.ServiceItem {
	return &catalog.ServiceItem{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		Category:            m.Category,
		PricingUnit:         m.PricingUnit,
		UnitPrice:           m.UnitPrice,
		Active:              m.Active,
		SortOrder:           m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain ServiceItem
func (m *ServiceItemModel) FromDomain(s *catalog.ServiceItem) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.Description = s.Description
	m.Category = s.Category
	m.PricingUnit = s.PricingUnit
	m.UnitPrice = s.UnitPrice
	m.Active = s.Active
	m.SortOrder = s.SortOrder
}
