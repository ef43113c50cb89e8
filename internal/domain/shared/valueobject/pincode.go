package valueobject

import (
	"regexp"
	"strings"

	"github.com/laundry/backend/internal/domain/shared"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// NormalizePincode trims spaces and validates a six digit postal index number.
func NormalizePincode(pincode string) (string, error) {
	p := strings.ReplaceAll(strings.TrimSpace(pincode), " ", "")
	if !pincodePattern.MatchString(p) {
		return "", shared.NewDomainError("INVALID_PINCODE", "Pincode must be 6 digits and cannot start with 0")
	}
	return p, nil
}
