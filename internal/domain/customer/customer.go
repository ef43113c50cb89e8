package customer

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
)

// Status represents the status of a customer
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// MaxAddresses caps how many saved addresses a customer can keep
const MaxAddresses = 10

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Address is a saved pickup/delivery address of a customer
type Address struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Label      string
	valueobject.PostalAddress
	IsDefault bool
}

// Customer is a person who places laundry orders
type Customer struct {
	shared.TenantAggregateRoot
	Name      string
	Email     string
	Phone     string
	Status    Status
	Notes     string
	Addresses []Address
}

// NewCustomer creates an active customer
func NewCustomer(tenantID uuid.UUID, name, phone, email string) (*Customer, error) {
	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              StatusActive,
		Addresses:           make([]Address, 0),
	}
	if err := c.setContact(name, phone, email); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// Update replaces contact details and notes
func (c *Customer) Update(name, phone, email, notes string) error {
	if err := c.setContact(name, phone, email); err != nil {
		return err
	}
	if len(notes) > 2000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 2000 characters")
	}
	c.Notes = strings.TrimSpace(notes)
	c.Touch()
	c.IncrementVersion()
	return nil
}

func (c *Customer) setContact(name, phone, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 100 characters")
	}
	phone = NormalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone must be 7-15 digits, optionally starting with +")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	return nil
}

// AddAddress saves a new address. The first address becomes the default.
func (c *Customer) AddAddress(label string, addr valueobject.PostalAddress, makeDefault bool) (*Address, error) {
	if len(c.Addresses) >= MaxAddresses {
		return nil, shared.NewDomainError("ADDRESS_LIMIT_REACHED", "A customer can keep at most 10 addresses")
	}
	if addr.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address is required")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = "Home"
	}
	if len(label) > 50 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address label cannot exceed 50 characters")
	}

	a := Address{
		ID:            uuid.New(),
		CustomerID:    c.ID,
		Label:         label,
		PostalAddress: addr,
	}
	if makeDefault || len(c.Addresses) == 0 {
		c.clearDefault()
		a.IsDefault = true
	}
	c.Addresses = append(c.Addresses, a)
	c.Touch()
	c.IncrementVersion()
	return &c.Addresses[len(c.Addresses)-1], nil
}

// RemoveAddress deletes a saved address. When the default is removed the
// oldest remaining address becomes the default.
func (c *Customer) RemoveAddress(addressID uuid.UUID) error {
	idx := c.addressIndex(addressID)
	if idx < 0 {
		return shared.NotFound("Address")
	}
	wasDefault := c.Addresses[idx].IsDefault
	c.Addresses = append(c.Addresses[:idx], c.Addresses[idx+1:]...)
	if wasDefault && len(c.Addresses) > 0 {
		c.Addresses[0].IsDefault = true
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetDefaultAddress marks one address as the default
func (c *Customer) SetDefaultAddress(addressID uuid.UUID) error {
	idx := c.addressIndex(addressID)
	if idx < 0 {
		return shared.NotFound("Address")
	}
	c.clearDefault()
	c.Addresses[idx].IsDefault = true
	c.Touch()
	c.IncrementVersion()
	return nil
}

// GetAddress returns a saved address by ID
func (c *Customer) GetAddress(addressID uuid.UUID) *Address {
	if idx := c.addressIndex(addressID); idx >= 0 {
		return &c.Addresses[idx]
	}
	return nil
}

// DefaultAddress returns the default address, or nil when none is saved
func (c *Customer) DefaultAddress() *Address {
	for i := range c.Addresses {
		if c.Addresses[i].IsDefault {
			return &c.Addresses[i]
		}
	}
	return nil
}

// Activate re-enables ordering
func (c *Customer) Activate() error {
	if c.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}
	c.Status = StatusActive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate blocks new orders
func (c *Customer) Deactivate() error {
	if c.Status == StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}
	c.Status = StatusInactive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// IsActive reports whether the customer may place orders
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

func (c *Customer) addressIndex(id uuid.UUID) int {
	for i := range c.Addresses {
		if c.Addresses[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Customer) clearDefault() {
	for i := range c.Addresses {
		c.Addresses[i].IsDefault = false
	}
}

// NormalizePhone strips spaces, dashes and brackets from a phone number
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}
