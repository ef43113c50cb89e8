package branch

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
)

// Status represents whether a branch accepts new orders
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var (
	codePattern          = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{1,19}$`)
	invoicePrefixPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

// Branch is a physical service location. It carries the invoice details
// printed on every invoice raised for its orders.
type Branch struct {
	shared.TenantAggregateRoot
	Code          string
	Name          string
	Address       string
	City          string
	State         string
	Pincode       string
	Phone         string
	Email         string
	TaxID         string
	InvoicePrefix string
	InvoiceFooter string
	Status        Status
}

// NewBranch creates an active branch
func NewBranch(tenantID uuid.UUID, code, name string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Branch code must be 2-20 characters of A-Z, 0-9, '-' or '_'")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	b := &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
		InvoicePrefix:       defaultPrefix(code),
		Status:              StatusActive,
	}
	b.AddDomainEvent(NewBranchCreatedEvent(b))
	return b, nil
}

// Update replaces the descriptive fields
func (b *Branch) Update(name, address, city, state, pincode, phone, email string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if pincode != "" {
		p, err := valueobject.NormalizePincode(pincode)
		if err != nil {
			return err
		}
		pincode = p
	}
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	b.Name = strings.TrimSpace(name)
	b.Address = strings.TrimSpace(address)
	b.City = strings.TrimSpace(city)
	b.State = strings.TrimSpace(state)
	b.Pincode = pincode
	b.Phone = strings.TrimSpace(phone)
	b.Email = strings.ToLower(strings.TrimSpace(email))
	b.Touch()
	b.IncrementVersion()
	return nil
}

// SetInvoiceDetails sets the branch specific invoice header data
func (b *Branch) SetInvoiceDetails(taxID, prefix, footer string) error {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = defaultPrefix(b.Code)
	}
	if !invoicePrefixPattern.MatchString(prefix) {
		return shared.NewDomainError("INVALID_INVOICE_PREFIX", "Invoice prefix must be 2-10 letters or digits")
	}
	if len(taxID) > 30 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 30 characters")
	}
	if len(footer) > 1000 {
		return shared.NewDomainError("INVALID_INVOICE_FOOTER", "Invoice footer cannot exceed 1000 characters")
	}

	b.TaxID = strings.ToUpper(strings.TrimSpace(taxID))
	b.InvoicePrefix = prefix
	b.InvoiceFooter = strings.TrimSpace(footer)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Activate re-opens the branch for orders
func (b *Branch) Activate() error {
	if b.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Branch is already active")
	}
	b.Status = StatusActive
	b.Touch()
	b.IncrementVersion()
	return nil
}

// Deactivate stops the branch from accepting orders
func (b *Branch) Deactivate() error {
	if b.Status == StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Branch is already inactive")
	}
	b.Status = StatusInactive
	b.Touch()
	b.IncrementVersion()
	b.AddDomainEvent(NewBranchDeactivatedEvent(b))
	return nil
}

// IsActive reports whether the branch accepts orders
func (b *Branch) IsActive() bool {
	return b.Status == StatusActive
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Branch name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Branch name cannot exceed 100 characters")
	}
	return nil
}

func defaultPrefix(code string) string {
	p := strings.NewReplacer("-", "", "_", "").Replace(code)
	if len(p) > 10 {
		p = p[:10]
	}
	if len(p) < 2 {
		p = "BR"
	}
	return p
}
