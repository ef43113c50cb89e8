package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/customer"
)

// AddressRequest is a pickup/delivery address in requests
type AddressRequest struct {
	Label     string `json:"label" binding:"max=50"`
	Line1     string `json:"line1" binding:"required,max=200"`
	Line2     string `json:"line2" binding:"max=200"`
	City      string `json:"city" binding:"required,max=100"`
	State     string `json:"state" binding:"max=100"`
	Pincode   string `json:"pincode" binding:"required,len=6,numeric"`
	IsDefault bool   `json:"is_default"`
}

// CreateCustomerRequest represents a back-office request to create a customer
type CreateCustomerRequest struct {
	Name    string          `json:"name" binding:"required,min=1,max=100"`
	Phone   string          `json:"phone" binding:"required,min=7,max=20"`
	Email   string          `json:"email" binding:"omitempty,email,max=200"`
	Notes   string          `json:"notes" binding:"max=2000"`
	Address *AddressRequest `json:"address"`
}

// UpdateCustomerRequest updates contact details. Nil fields keep their
// current value.
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone *string `json:"phone" binding:"omitempty,min=7,max=20"`
	Email *string `json:"email" binding:"omitempty,email,max=200"`
	Notes *string `json:"notes" binding:"omitempty,max=2000"`
}

// AddressResponse represents a saved address in API responses
type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Line1     string    `json:"line1"`
	Line2     string    `json:"line2,omitempty"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Pincode   string    `json:"pincode"`
	IsDefault bool      `json:"is_default"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID         `json:"id"`
	TenantID  uuid.UUID         `json:"tenant_id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Status    string            `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	Addresses []AddressResponse `json:"addresses"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Version   int               `json:"version"`
}

// CustomerListResponse is the compact list item for customers
type CustomerListResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToAddressResponse converts a domain Address to AddressResponse
func ToAddressResponse(a *customer.Address) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		Label:     a.Label,
		Line1:     a.Line1,
		Line2:     a.Line2,
		City:      a.City,
		State:     a.State,
		Pincode:   a.Pincode,
		IsDefault: a.IsDefault,
	}
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	addresses := make([]AddressResponse, len(c.Addresses))
	for i := range c.Addresses {
		addresses[i] = ToAddressResponse(&c.Addresses[i])
	}
	return CustomerResponse{
		ID:        c.ID,
		TenantID:  c.TenantID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		Notes:     c.Notes,
		Addresses: addresses,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// ToCustomerListResponse converts a domain Customer to a list item
func ToCustomerListResponse(c *customer.Customer) CustomerListResponse {
	return CustomerListResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}
