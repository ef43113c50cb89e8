package shared

import (
	"context"

	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/identity"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/subscription"
)

// TransactionScope runs a unit of work across several aggregates.
// Every repository handed to fn shares one database transaction, which is
// committed when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories that take part
// in cross-aggregate writes:
//   - customer registration creates a Customer and its login User together
//   - picking up an order consumes usage from the linked Subscription
//   - recording a payment checks the captured balance of its Invoice
type TransactionalRepositories interface {
	OrderRepo() order.OrderRepository
	SubscriptionRepo() subscription.SubscriptionRepository
	CustomerRepo() customer.CustomerRepository
	UserRepo() identity.UserRepository
	InvoiceRepo() billing.InvoiceRepository
	PaymentRepo() payment.PaymentRepository
}

// Repositories is the set of plain repositories backing a NoOpTransactionScope
type Repositories struct {
	Orders        order.OrderRepository
	Subscriptions subscription.SubscriptionRepository
	Customers     customer.CustomerRepository
	Users         identity.UserRepository
	Invoices      billing.InvoiceRepository
	Payments      payment.PaymentRepository
}

// NoOpTransactionScope calls fn directly with non-transactional repositories.
// Tests use it with mocked repositories.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over repos
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository { return s.repos.Orders }

// SubscriptionRepo returns the subscription repository
func (s *NoOpTransactionScope) SubscriptionRepo() subscription.SubscriptionRepository {
	return s.repos.Subscriptions
}

// CustomerRepo returns the customer repository
func (s *NoOpTransactionScope) CustomerRepo() customer.CustomerRepository { return s.repos.Customers }

// UserRepo returns the user repository
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository { return s.repos.Users }

// InvoiceRepo returns the invoice repository
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository { return s.repos.Invoices }

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() payment.PaymentRepository { return s.repos.Payments }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
