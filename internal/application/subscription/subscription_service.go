package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/subscription"
	"go.uber.org/zap"
)

// DefaultExpiryBatchSize is how many subscriptions ExpireDue handles per call
const DefaultExpiryBatchSize = 200

// SubscriptionService sells plans to customers and ends subscriptions
type SubscriptionService struct {
	subRepo        subscription.SubscriptionRepository
	planRepo       subscription.PlanRepository
	customerRepo   customer.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	subRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	customerRepo customer.CustomerRepository,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:      subRepo,
		planRepo:     planRepo,
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SubscriptionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock replaces the time source
func (s *SubscriptionService) SetClock(now func() time.Time) {
	s.now = now
}

// Subscribe sells a plan to a customer. A customer holds at most one
// ACTIVE subscription; a stale one whose window already closed is expired
// first.
func (s *SubscriptionService) Subscribe(ctx context.Context, tenantID, customerID uuid.UUID, req SubscribeRequest) (*SubscriptionResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_INACTIVE", "Customer account is inactive")
	}
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, req.PlanID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	current, err := s.subRepo.FindActiveByCustomer(ctx, tenantID, customerID)
	switch {
	case err == nil:
		if !current.ExpireIfDue(now) {
			return nil, subscription.ErrActiveSubscriptionExists
		}
		if err := s.subRepo.SaveWithLock(ctx, current); err != nil {
			return nil, err
		}
		appshared.PublishEvents(ctx, s.eventPublisher, s.logger, current)
	case !shared.IsNotFound(err):
		return nil, err
	}

	startsAt := now
	if req.StartsAt != nil && req.StartsAt.After(now) {
		startsAt = *req.StartsAt
	}
	sub, err := subscription.Subscribe(tenantID, customerID, plan, startsAt)
	if err != nil {
		return nil, err
	}
	if err := s.subRepo.Save(ctx, sub); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// a concurrent Subscribe won the one-active index
			return nil, subscription.ErrActiveSubscriptionExists
		}
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, sub)

	s.logger.Info("Subscription created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("plan", plan.Code),
		zap.Time("expires_at", sub.ExpiresAt))

	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// GetByID retrieves a subscription
func (s *SubscriptionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// GetActiveForCustomer returns the customer's usable subscription
func (s *SubscriptionService) GetActiveForCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindActiveByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if !s.now().Before(sub.ExpiresAt) {
		return nil, shared.NotFound("Active subscription")
	}
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// List retrieves a page of subscriptions
func (s *SubscriptionService) List(ctx context.Context, tenantID uuid.UUID, filter SubscriptionListFilter) ([]SubscriptionResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.PlanID != nil {
		f.Filters["plan_id"] = *filter.PlanID
	}
	f = f.Normalize()

	subs, total, err := s.subRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		out[i] = ToSubscriptionResponse(&subs[i])
	}
	return out, total, nil
}

// Cancel ends an active subscription early
func (s *SubscriptionService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := sub.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.subRepo.SaveWithLock(ctx, sub); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, sub)

	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// ExpireDue marks ACTIVE subscriptions of every tenant whose window closed
// as EXPIRED, at most limit of them. A subscription changed concurrently is
// skipped and picked up by the next run.
func (s *SubscriptionService) ExpireDue(ctx context.Context, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = DefaultExpiryBatchSize
	}
	due, err := s.subRepo.FindDueForExpiry(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		sub := &due[i]
		if !sub.ExpireIfDue(now) {
			continue
		}
		if err := s.subRepo.SaveWithLock(ctx, sub); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				s.logger.Debug("Subscription changed during expiry, skipping",
					zap.String("subscription_id", sub.ID.String()))
				continue
			}
			return expired, err
		}
		appshared.PublishEvents(ctx, s.eventPublisher, s.logger, sub)
		expired++
	}

	if expired > 0 {
		s.logger.Info("Expired subscriptions", zap.Int("count", expired))
	}
	return expired, nil
}
