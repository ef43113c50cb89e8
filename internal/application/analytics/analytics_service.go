package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/analytics"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/subscription"
	"github.com/laundry/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultCacheTTL applies when no TTL is configured
const DefaultCacheTTL = 5 * time.Minute

// ReportCache stores computed reports
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// AnalyticsService builds revenue reports and the dashboard
type AnalyticsService struct {
	revenueRepo  analytics.RevenueRepository
	orderRepo    order.OrderRepository
	subRepo      subscription.SubscriptionRepository
	customerRepo customer.CustomerRepository
	cache        ReportCache
	cacheTTL     time.Duration
	location     *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. cache may be nil.
func NewAnalyticsService(
	revenueRepo analytics.RevenueRepository,
	orderRepo order.OrderRepository,
	subRepo subscription.SubscriptionRepository,
	customerRepo customer.CustomerRepository,
	cache ReportCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &AnalyticsService{
		revenueRepo:  revenueRepo,
		orderRepo:    orderRepo,
		subRepo:      subRepo,
		customerRepo: customerRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		location:     time.UTC,
		logger:       logger,
		now:          time.Now,
	}
}

// SetClock replaces the time source
func (s *AnalyticsService) SetClock(now func() time.Time) {
	s.now = now
}

// SetLocation sets the time zone whole days are measured in
func (s *AnalyticsService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// Revenue reports invoiced and collected revenue for a whole-day range
func (s *AnalyticsService) Revenue(ctx context.Context, tenantID uuid.UUID, req RevenueRequest) (*RevenueReportResponse, error) {
	period, err := s.period(req)
	if err != nil {
		return nil, err
	}
	report, err := s.revenue(ctx, tenantID, period, req.BranchID)
	if err != nil {
		return nil, err
	}
	resp := ToRevenueReportResponse(report)
	return &resp, nil
}

// Dashboard summarises orders, subscriptions, customers and the current
// month's revenue
func (s *AnalyticsService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*DashboardResponse, error) {
	counts, err := s.orderRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	d := analytics.Dashboard{OrdersByStatus: make(map[string]int64, len(counts))}
	for _, st := range order.AllStatuses() {
		n := counts[st]
		d.OrdersByStatus[string(st)] = n
		if !st.IsTerminal() {
			d.OpenOrders += n
		}
	}

	if d.ActiveSubscriptions, err = s.subRepo.CountActive(ctx, tenantID); err != nil {
		return nil, err
	}
	if d.Customers, err = s.customerRepo.CountForTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	month, err := s.revenue(ctx, tenantID, analytics.MonthToDate(s.now().In(s.location)), nil)
	if err != nil {
		return nil, err
	}
	d.MonthInvoiced = month.InvoicedRevenue
	d.MonthCollected = month.CollectedRevenue
	if d.AverageRating, err = s.revenueRepo.AverageRating(ctx, tenantID); err != nil {
		return nil, err
	}

	resp := ToDashboardResponse(d)
	return &resp, nil
}

// Invalidate drops the cached reports of a tenant
func (s *AnalyticsService) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, tenantCachePrefix(tenantID))
}

func (s *AnalyticsService) period(req RevenueRequest) (analytics.Period, error) {
	now := s.now().In(s.location)
	if req.From == "" && req.To == "" {
		return analytics.MonthToDate(now), nil
	}
	from, to := now, now
	var err error
	if req.From != "" {
		if from, err = time.ParseInLocation(DateLayout, req.From, s.location); err != nil {
			return analytics.Period{}, analytics.ErrInvalidDateRange
		}
	}
	if req.To != "" {
		if to, err = time.ParseInLocation(DateLayout, req.To, s.location); err != nil {
			return analytics.Period{}, analytics.ErrInvalidDateRange
		}
	}
	return analytics.NewPeriod(from, to, s.location)
}

func (s *AnalyticsService) revenue(ctx context.Context, tenantID uuid.UUID, period analytics.Period, branchID *uuid.UUID) (analytics.RevenueReport, error) {
	key := revenueCacheKey(tenantID, period, branchID)
	var report analytics.RevenueReport
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, &report)
		if err != nil {
			s.logger.Warn("Revenue cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return report, nil
		}
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "analytics", "revenue",
		telemetry.SpanAttrTenantID, tenantID.String())
	defer span.End()

	var err error
	telemetry.WithProfilingLabels(ctx,
		telemetry.OperationLabels(telemetry.OperationRevenueReport, tenantID.String()),
		func(c context.Context) {
			var invoices []analytics.InvoiceRecord
			var payments []analytics.PaymentRecord
			if invoices, err = s.revenueRepo.FindInvoiceRecords(c, tenantID, period, branchID); err != nil {
				return
			}
			if payments, err = s.revenueRepo.FindPaymentRecords(c, tenantID, period, branchID); err != nil {
				return
			}
			report = analytics.CalculateRevenue(invoices, payments, period)
		})
	if err != nil {
		telemetry.RecordError(span, err)
		return analytics.RevenueReport{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("Revenue cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return report, nil
}

func tenantCachePrefix(tenantID uuid.UUID) string {
	return "analytics:" + tenantID.String() + ":"
}

func revenueCacheKey(tenantID uuid.UUID, period analytics.Period, branchID *uuid.UUID) string {
	branch := "all"
	if branchID != nil {
		branch = branchID.String()
	}
	return fmt.Sprintf("%srevenue:%s:%s:%s:%s", tenantCachePrefix(tenantID),
		period.From.Format(DateLayout), period.To.Format(DateLayout), period.From.Location(), branch)
}

// CacheInvalidator drops cached reports when money moves
type CacheInvalidator struct {
	service *AnalyticsService
	logger  *zap.Logger
}

// NewCacheInvalidator creates a CacheInvalidator
func NewCacheInvalidator(service *AnalyticsService, logger *zap.Logger) *CacheInvalidator {
	return &CacheInvalidator{service: service, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *CacheInvalidator) EventTypes() []string {
	return []string{
		billing.EventTypeInvoiceIssued,
		billing.EventTypeInvoiceVoided,
		payment.EventTypePaymentCaptured,
		payment.EventTypePaymentRefunded,
	}
}

// Handle implements shared.EventHandler
func (h *CacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.service.Invalidate(ctx, event.TenantID()); err != nil {
		h.logger.Warn("Failed to invalidate analytics cache",
			zap.String("event_type", event.EventType()), zap.Error(err))
		return err
	}
	return nil
}

var _ shared.EventHandler = (*CacheInvalidator)(nil)
