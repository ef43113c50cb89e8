package customer

import "github.com/laundry/backend/internal/domain/shared"

// AggregateTypeCustomer is the aggregate type for customer events
const AggregateTypeCustomer = "Customer"

// EventTypeCustomerCreated is published when a customer is registered
const EventTypeCustomerCreated = "customer.created"

// CustomerCreatedEvent is published when a customer is registered
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.TenantID),
		Name:            c.Name,
		Phone:           c.Phone,
	}
}
