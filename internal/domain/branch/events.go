package branch

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
)

// Aggregate types
const (
	AggregateTypeBranch      = "Branch"
	AggregateTypeServiceArea = "ServiceArea"
	AggregateTypeBranding    = "BrandingSettings"
)

// Event types
const (
	EventTypeBranchCreated         = "branch.created"
	EventTypeBranchDeactivated     = "branch.deactivated"
	EventTypeServiceAreaReassigned = "service_area.reassigned"
	EventTypeBrandingUpdated       = "branding.updated"
)

// BranchCreatedEvent is published when a branch is opened
type BranchCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewBranchCreatedEvent creates a new BranchCreatedEvent
func NewBranchCreatedEvent(b *Branch) *BranchCreatedEvent {
	return &BranchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchCreated, AggregateTypeBranch, b.ID, b.TenantID),
		Code:            b.Code,
		Name:            b.Name,
	}
}

// BranchDeactivatedEvent is published when a branch stops taking orders
type BranchDeactivatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewBranchDeactivatedEvent creates a new BranchDeactivatedEvent
func NewBranchDeactivatedEvent(b *Branch) *BranchDeactivatedEvent {
	return &BranchDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBranchDeactivated, AggregateTypeBranch, b.ID, b.TenantID),
		Code:            b.Code,
	}
}

// ServiceAreaReassignedEvent is published when a pincode moves between branches
type ServiceAreaReassignedEvent struct {
	shared.BaseDomainEvent
	Pincode      string    `json:"pincode"`
	FromBranchID uuid.UUID `json:"from_branch_id"`
	ToBranchID   uuid.UUID `json:"to_branch_id"`
}

// NewServiceAreaReassignedEvent creates a new ServiceAreaReassignedEvent
func NewServiceAreaReassignedEvent(a *ServiceArea, from uuid.UUID) *ServiceAreaReassignedEvent {
	return &ServiceAreaReassignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceAreaReassigned, AggregateTypeServiceArea, a.ID, a.TenantID),
		Pincode:         a.Pincode,
		FromBranchID:    from,
		ToBranchID:      a.BranchID,
	}
}

// BrandingUpdatedEvent is published when branding settings change
type BrandingUpdatedEvent struct {
	shared.BaseDomainEvent
	BusinessName string `json:"business_name"`
}

// NewBrandingUpdatedEvent creates a new BrandingUpdatedEvent
func NewBrandingUpdatedEvent(s *BrandingSettings) *BrandingUpdatedEvent {
	return &BrandingUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandingUpdated, AggregateTypeBranding, s.ID, s.TenantID),
		BusinessName:    s.BusinessName,
	}
}
