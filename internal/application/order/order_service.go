package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/laundry/backend/internal/domain/subscription"
	"go.uber.org/zap"
)

// BranchResolver finds the branch that serves a pincode
type BranchResolver interface {
	ResolveBranch(ctx context.Context, tenantID uuid.UUID, pincode string) (*branch.Branch, *branch.ServiceArea, error)
}

// OrderService handles the pickup-to-delivery workflow
type OrderService struct {
	orderRepo      order.OrderRepository
	customerRepo   customer.CustomerRepository
	itemRepo       catalog.ServiceItemRepository
	subRepo        subscription.SubscriptionRepository
	branches       BranchResolver
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.OrderRepository,
	customerRepo customer.CustomerRepository,
	itemRepo catalog.ServiceItemRepository,
	subRepo subscription.SubscriptionRepository,
	branches BranchResolver,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		subRepo:      subRepo,
		branches:     branches,
		txScope:      txScope,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock replaces the time source
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

// Place books a pickup for a customer. The branch is resolved from the
// pickup pincode and requested items are priced from the active price list.
// An active subscription of the customer is linked to the order.
func (s *OrderService) Place(ctx context.Context, tenantID, customerID uuid.UUID, req PlaceOrderRequest) (*OrderResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Customer account is inactive")
	}

	pickup, err := pickupAddress(c, req)
	if err != nil {
		return nil, err
	}
	pickupDate, err := s.parsePickupDate(req.PickupDate)
	if err != nil {
		return nil, err
	}

	b, _, err := s.branches.ResolveBranch(ctx, tenantID, pickup.Pincode)
	if err != nil {
		return nil, err
	}

	number, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	o, err := order.NewOrder(tenantID, number, c.ID, b.ID, pickup, pickupDate, req.PickupSlot)
	if err != nil {
		return nil, err
	}
	if err := o.SetNotes(req.Notes); err != nil {
		return nil, err
	}

	if len(req.Items) > 0 {
		items, err := s.priceItems(ctx, tenantID, o.ID, req.Items)
		if err != nil {
			return nil, err
		}
		if err := o.ReplaceItems(items); err != nil {
			return nil, err
		}
	}

	sub, err := s.subRepo.FindActiveByCustomer(ctx, tenantID, c.ID)
	switch {
	case err == nil:
		if sub.IsUsableAt(s.now()) {
			if err := o.AttachSubscription(sub.ID); err != nil {
				return nil, err
			}
		}
	case !shared.IsNotFound(err):
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, o)

	s.logger.Info("Order placed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("branch", b.Code),
		zap.Bool("subscription", o.SubscriptionID != nil))

	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByID retrieves an order. When customerScope is set, orders of other
// customers are reported as not found.
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID, customerScope *uuid.UUID) (*OrderResponse, error) {
	o, err := s.load(ctx, tenantID, id, customerScope)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List retrieves a page of orders. A customer scope overrides the
// customer_id filter.
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter, customerScope *uuid.UUID) ([]OrderListResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]any{},
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.BranchID != nil {
		f.Filters["branch_id"] = *filter.BranchID
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if customerScope != nil {
		f.Filters["customer_id"] = *customerScope
	}
	if filter.From != "" {
		from, err := time.Parse(PickupDateLayout, filter.From)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "from must be YYYY-MM-DD")
		}
		f.Filters["from"] = from
	}
	if filter.To != "" {
		to, err := time.Parse(PickupDateLayout, filter.To)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "to must be YYYY-MM-DD")
		}
		f.Filters["to"] = to
	}
	f = f.Normalize()

	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderListResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderListResponse(&orders[i])
	}
	return out, total, nil
}

// ReplaceItems records the items actually collected, re-pricing them from
// the current price list. Subscription usage is drawn once at pickup and is
// not revised by later re-weighing.
func (s *OrderService) ReplaceItems(ctx context.Context, tenantID, id uuid.UUID, req ReplaceItemsRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !o.CanModifyItems() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change items of order in %s status", o.Status))
	}
	items, err := s.priceItems(ctx, tenantID, o.ID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := o.ReplaceItems(items); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Advance moves an order one step along its lifecycle. Reaching PICKED_UP
// draws the order's usage from the linked subscription in the same
// transaction; a subscription that ended before pickup is left untouched.
func (s *OrderService) Advance(ctx context.Context, tenantID, id uuid.UUID, req AdvanceOrderRequest) (*OrderResponse, error) {
	var (
		o   *order.Order
		sub *subscription.Subscription
	)
	now := s.now()

	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		o, err = repos.OrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		target := order.Status(req.Status)
		if target == "" {
			target = o.Status.Next()
		}
		if err := o.Advance(target, now); err != nil {
			return err
		}

		if target == order.StatusPickedUp && o.SubscriptionID != nil {
			sub, err = repos.SubscriptionRepo().FindByIDForTenant(ctx, tenantID, *o.SubscriptionID)
			if err != nil {
				return err
			}
			if sub.IsUsableAt(now) {
				usage := o.Usage()
				if err := sub.Consume(usage.Pickups, usage.WeightKg, usage.Items, now); err != nil {
					return err
				}
				if err := repos.SubscriptionRepo().SaveWithLock(ctx, sub); err != nil {
					return err
				}
			} else {
				s.logger.Warn("Subscription not usable at pickup, usage not recorded",
					zap.String("order_number", o.OrderNumber),
					zap.String("subscription_id", sub.ID.String()),
					zap.String("subscription_status", string(sub.Status)))
				sub = nil
			}
		}

		return repos.OrderRepo().SaveWithLock(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	if sub != nil {
		appshared.PublishEvents(ctx, s.eventPublisher, s.logger, o, sub)
	} else {
		appshared.PublishEvents(ctx, s.eventPublisher, s.logger, o)
	}

	s.logger.Info("Order advanced",
		zap.String("order_number", o.OrderNumber),
		zap.String("status", string(o.Status)))

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Cancel cancels an order that was not picked up yet
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelOrderRequest, customerScope *uuid.UUID) (*OrderResponse, error) {
	o, err := s.load(ctx, tenantID, id, customerScope)
	if err != nil {
		return nil, err
	}
	if err := o.Cancel(req.Reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// SubmitFeedback rates a delivered order of the customer
func (s *OrderService) SubmitFeedback(ctx context.Context, tenantID, id, customerID uuid.UUID, req FeedbackRequest) (*OrderResponse, error) {
	o, err := s.load(ctx, tenantID, id, &customerID)
	if err != nil {
		return nil, err
	}
	if err := o.SubmitFeedback(req.Rating, req.Comment, s.now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

func (s *OrderService) load(ctx context.Context, tenantID, id uuid.UUID, customerScope *uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if customerScope != nil && !o.IsOwnedBy(*customerScope) {
		return nil, shared.NotFound("Order")
	}
	return o, nil
}

func (s *OrderService) parsePickupDate(value string) (time.Time, error) {
	date, err := time.Parse(PickupDateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_PICKUP_DATE", "Pickup date must be YYYY-MM-DD")
	}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, shared.NewDomainError("INVALID_PICKUP_DATE", "Pickup date cannot be in the past")
	}
	return date, nil
}

// priceItems turns requested lines into priced order items. Every service
// must exist, be active and appear only once.
func (s *OrderService) priceItems(ctx context.Context, tenantID, orderID uuid.UUID, reqs []OrderItemRequest) ([]order.Item, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	seen := make(map[uuid.UUID]struct{}, len(reqs))
	for _, r := range reqs {
		if _, dup := seen[r.ServiceItemID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Each service may appear only once")
		}
		seen[r.ServiceItemID] = struct{}{}
		ids = append(ids, r.ServiceItemID)
	}

	services, err := s.itemRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.ServiceItem, len(services))
	for i := range services {
		byID[services[i].ID] = &services[i]
	}

	items := make([]order.Item, 0, len(reqs))
	for _, r := range reqs {
		svc, ok := byID[r.ServiceItemID]
		if !ok || !svc.Active {
			return nil, shared.NewDomainError("SERVICE_UNAVAILABLE",
				fmt.Sprintf("Service %s is not available", r.ServiceItemID))
		}
		item, err := order.NewItem(orderID, svc, r.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func pickupAddress(c *customer.Customer, req PlaceOrderRequest) (valueobject.PostalAddress, error) {
	switch {
	case req.AddressID != nil:
		addr := c.GetAddress(*req.AddressID)
		if addr == nil {
			return valueobject.PostalAddress{}, shared.NotFound("Address")
		}
		return addr.PostalAddress, nil
	case req.Address != nil:
		return valueobject.NewPostalAddress(req.Address.Line1, req.Address.Line2,
			req.Address.City, req.Address.State, req.Address.Pincode)
	}
	if addr := c.DefaultAddress(); addr != nil {
		return addr.PostalAddress, nil
	}
	return valueobject.PostalAddress{}, shared.NewDomainError("INVALID_ADDRESS", "Pickup address is required")
}
