package branch

import (
	"strings"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
)

// ServiceArea maps a pincode to the branch that serves it.
// A pincode maps to at most one branch per tenant; the repository enforces
// this with a unique (tenant_id, pincode) index.
type ServiceArea struct {
	shared.TenantAggregateRoot
	Pincode  string
	BranchID uuid.UUID
	Locality string
	Active   bool
}

// NewServiceArea creates an active mapping from pincode to branch
func NewServiceArea(tenantID, branchID uuid.UUID, pincode, locality string) (*ServiceArea, error) {
	p, err := valueobject.NormalizePincode(pincode)
	if err != nil {
		return nil, err
	}
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch is required")
	}
	if len(locality) > 100 {
		return nil, shared.NewDomainError("INVALID_LOCALITY", "Locality cannot exceed 100 characters")
	}

	return &ServiceArea{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Pincode:             p,
		BranchID:            branchID,
		Locality:            strings.TrimSpace(locality),
		Active:              true,
	}, nil
}

// Update changes the locality label and active flag
func (a *ServiceArea) Update(locality string, active bool) error {
	if len(locality) > 100 {
		return shared.NewDomainError("INVALID_LOCALITY", "Locality cannot exceed 100 characters")
	}
	a.Locality = strings.TrimSpace(locality)
	a.Active = active
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Reassign moves the pincode to another branch
func (a *ServiceArea) Reassign(branchID uuid.UUID) error {
	if branchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRANCH", "Branch is required")
	}
	if branchID == a.BranchID {
		return shared.NewDomainError("INVALID_STATE", "Pincode is already served by this branch")
	}
	from := a.BranchID
	a.BranchID = branchID
	a.Touch()
	a.IncrementVersion()
	a.AddDomainEvent(NewServiceAreaReassignedEvent(a, from))
	return nil
}

// ErrPincodeAlreadyMapped is returned when a pincode is claimed by another branch
var ErrPincodeAlreadyMapped = shared.NewDomainError("PINCODE_ALREADY_MAPPED", "Pincode is already mapped to a branch")

// ErrPincodeNotServiceable is returned when no active branch serves a pincode
var ErrPincodeNotServiceable = shared.NewDomainError("PINCODE_NOT_SERVICEABLE", "We do not serve this pincode yet")
