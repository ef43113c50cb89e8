package customer

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Customer errors
var (
	ErrPhoneExists       = shared.NewDomainError("PHONE_EXISTS", "A customer with this phone number already exists")
	ErrCustomerHasOrders = shared.NewDomainError("CUSTOMER_HAS_ORDERS", "Customer has orders and cannot be deleted")
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   customer.CustomerRepository
	orderRepo      order.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository, orderRepo order.OrderRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a customer on behalf of the back office
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	c, err := customer.NewCustomer(tenantID, req.Name, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, tenantID, c.Phone, uuid.Nil); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		if err := c.Update(c.Name, c.Phone, c.Email, req.Notes); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if _, err := addAddress(c, *req.Address); err != nil {
			return nil, err
		}
	}
	if createdBy != nil {
		c.SetCreatedBy(*createdBy)
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, c)

	s.logger.Info("Customer created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", c.ID.String()))

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID retrieves a customer with addresses
func (s *CustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List retrieves a page of customers. Search matches name, phone and email.
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerListResponse, int64, error) {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  orderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	f = f.Normalize()

	customers, total, err := s.customerRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]CustomerListResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerListResponse(&customers[i])
	}
	return out, total, nil
}

// Update changes contact details and notes
func (s *CustomerService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, phone, email, notes := c.Name, c.Phone, c.Email, c.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Notes != nil {
		notes = *req.Notes
	}

	if normalized := customer.NormalizePhone(phone); normalized != c.Phone {
		if err := s.ensurePhoneFree(ctx, tenantID, normalized, c.ID); err != nil {
			return nil, err
		}
	}
	if err := c.Update(name, phone, email, notes); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Activate re-enables ordering for a customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	return s.mutate(ctx, tenantID, id, (*customer.Customer).Activate)
}

// Deactivate blocks new orders from a customer
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	return s.mutate(ctx, tenantID, id, (*customer.Customer).Deactivate)
}

// AddAddress saves a new address for a customer
func (s *CustomerService) AddAddress(ctx context.Context, tenantID, id uuid.UUID, req AddressRequest) (*CustomerResponse, error) {
	return s.mutate(ctx, tenantID, id, func(c *customer.Customer) error {
		_, err := addAddress(c, req)
		return err
	})
}

// RemoveAddress deletes a saved address
func (s *CustomerService) RemoveAddress(ctx context.Context, tenantID, id, addressID uuid.UUID) (*CustomerResponse, error) {
	return s.mutate(ctx, tenantID, id, func(c *customer.Customer) error {
		return c.RemoveAddress(addressID)
	})
}

// SetDefaultAddress marks a saved address as the default
func (s *CustomerService) SetDefaultAddress(ctx context.Context, tenantID, id, addressID uuid.UUID) (*CustomerResponse, error) {
	return s.mutate(ctx, tenantID, id, func(c *customer.Customer) error {
		return c.SetDefaultAddress(addressID)
	})
}

// Delete removes a customer that never placed an order
func (s *CustomerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	count, err := s.orderRepo.CountByCustomer(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCustomerHasOrders
	}
	if err := s.customerRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", id.String()))
	return nil
}

func (s *CustomerService) mutate(ctx context.Context, tenantID, id uuid.UUID, apply func(*customer.Customer) error) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(c); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// ensurePhoneFree fails when phone belongs to a customer other than self
func (s *CustomerService) ensurePhoneFree(ctx context.Context, tenantID uuid.UUID, phone string, self uuid.UUID) error {
	existing, err := s.customerRepo.FindByPhone(ctx, tenantID, phone)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrPhoneExists
	}
	return nil
}

func addAddress(c *customer.Customer, req AddressRequest) (*customer.Address, error) {
	addr, err := valueobject.NewPostalAddress(req.Line1, req.Line2, req.City, req.State, req.Pincode)
	if err != nil {
		return nil, err
	}
	return c.AddAddress(req.Label, addr, req.IsDefault)
}
