package identity

import (
	"github.com/laundry/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type for user events
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserCreated  = "user.created"
	EventTypeUserDisabled = "user.disabled"
)

// UserCreatedEvent is published when an account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserDisabledEvent is published when an account is disabled
type UserDisabledEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserDisabledEvent creates a new UserDisabledEvent
func NewUserDisabledEvent(u *User) *UserDisabledEvent {
	return &UserDisabledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDisabled, AggregateTypeUser, u.ID, u.TenantID),
		Email:           u.Email,
	}
}
