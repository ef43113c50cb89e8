package valueobject

import (
	"strings"

	"github.com/laundry/backend/internal/domain/shared"
)

// PostalAddress is an immutable pickup/delivery address
type PostalAddress struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// NewPostalAddress validates and normalizes the address parts.
func NewPostalAddress(line1, line2, city, state, pincode string) (PostalAddress, error) {
	line1 = strings.TrimSpace(line1)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)

	if line1 == "" {
		return PostalAddress{}, shared.NewDomainError("INVALID_ADDRESS", "Address line 1 cannot be empty")
	}
	if len(line1) > 200 || len(line2) > 200 {
		return PostalAddress{}, shared.NewDomainError("INVALID_ADDRESS", "Address lines cannot exceed 200 characters")
	}
	if city == "" {
		return PostalAddress{}, shared.NewDomainError("INVALID_ADDRESS", "City cannot be empty")
	}
	p, err := NormalizePincode(pincode)
	if err != nil {
		return PostalAddress{}, err
	}

	return PostalAddress{
		Line1:   line1,
		Line2:   strings.TrimSpace(line2),
		City:    city,
		State:   state,
		Pincode: p,
	}, nil
}

// IsZero reports whether the address was never set
func (a PostalAddress) IsZero() bool {
	return a.Line1 == "" && a.Pincode == ""
}

// String renders the address on one line
func (a PostalAddress) String() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	parts = append(parts, a.City)
	if a.State != "" {
		parts = append(parts, a.State)
	}
	return strings.Join(parts, ", ") + " - " + a.Pincode
}
