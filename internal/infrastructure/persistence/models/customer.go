package models

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	TenantAggregateModel
	Name      string                 `gorm:"type:varchar(100);not null"`
	Email     string                 `gorm:"type:varchar(200);index"`
	Phone     string                 `gorm:"type:varchar(20);not null"`
	Status    customer.Status        `gorm:"type:varchar(20);not null;default:'active'"`
	Notes     string                 `gorm:"type:text"`
	Addresses []CustomerAddressModel `gorm:"foreignKey:CustomerID;references:ID"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *customer.Customer {
	c := &customer.Customer{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Status:              m.Status,
		Notes:               m.Notes,
		Addresses:           make([]customer.Address, len(m.Addresses)),
	}
	for i := range m.Addresses {
		c.Addresses[i] = m.Addresses[i].ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Status = c.Status
	m.Notes = c.Notes
	m.Addresses = make([]CustomerAddressModel, len(c.Addresses))
	for i, a := range c.Addresses {
		m.Addresses[i].FromDomain(c.TenantID, a, i)
	}
}

// CustomerAddressModel is a saved address row
type CustomerAddressModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	TenantID   uuid.UUID `gorm:"type:char(36);not null"`
	CustomerID uuid.UUID `gorm:"type:char(36);not null;index"`
	Label      string    `gorm:"type:varchar(50);not null"`
	Line1      string    `gorm:"type:varchar(200);not null"`
	Line2      string    `gorm:"type:varchar(200)"`
	City       string    `gorm:"type:varchar(100);not null"`
	State      string    `gorm:"type:varchar(100)"`
	Pincode    string    `gorm:"type:varchar(6);not null"`
	IsDefault  bool      `gorm:"not null;default:false"`
	SortOrder  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CustomerAddressModel) TableName() string {
	return "customer_addresses"
}

// ToDomain converts the row to a domain Address
func (m *CustomerAddressModel) ToDomain() customer.Address {
	return customer.Address{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		Label:      m.Label,
		PostalAddress: valueobject.PostalAddress{
			Line1:   m.Line1,
			Line2:   m.Line2,
			City:    m.City,
			State:   m.State,
			Pincode: m.Pincode,
		},
		IsDefault: m.IsDefault,
	}
}

// FromDomain populates the row from a domain Address
func (m *CustomerAddressModel) FromDomain(tenantID uuid.UUID, a customer.Address, sortOrder int) {
	m.ID = a.ID
	m.TenantID = tenantID
	m.CustomerID = a.CustomerID
	m.Label = a.Label
	m.Line1 = a.Line1
	m.Line2 = a.Line2
	m.City = a.City
	m.State = a.State
	m.Pincode = a.Pincode
	m.IsDefault = a.IsDefault
	m.SortOrder = sortOrder
}
