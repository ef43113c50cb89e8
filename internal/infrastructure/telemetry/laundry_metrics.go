package telemetry

import (
	"context"
	"errors"

	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/subscription"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation name for business metrics
const MeterName = "laundry-backend/business"

// BusinessMetrics turns domain events into counters. It subscribes to the
// event bus like any other handler.
type BusinessMetrics struct {
	ordersPlaced       *Counter
	orderTransitions   *Counter
	ordersCancelled    *Counter
	orderWeight        *Histogram
	feedbackRating     *Histogram
	invoicesIssued     *Counter
	invoicedAmount     *FloatCounter
	paymentsCaptured   *Counter
	paymentAmount      *FloatCounter
	paymentsRefunded   *Counter
	subscriptionsNew   *Counter
	subscriptionsEnded *Counter
	usagePickups       *Counter
	customersCreated   *Counter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var errs []error
	counter := func(name, desc string) *Counter {
		c, err := NewCounter(meter, name, desc, "1")
		errs = append(errs, err)
		return c
	}
	amount := func(name, desc string) *FloatCounter {
		c, err := NewFloatCounter(meter, name, desc, "{currency}")
		errs = append(errs, err)
		return c
	}

	m.ordersPlaced = counter("laundry.orders.placed", "Orders booked")
	m.orderTransitions = counter("laundry.orders.transitions", "Order status changes by target status")
	m.ordersCancelled = counter("laundry.orders.cancelled", "Orders cancelled")
	m.invoicesIssued = counter("laundry.invoices.issued", "Invoices issued by type")
	m.invoicedAmount = amount("laundry.invoices.amount", "Total amount invoiced")
	m.paymentsCaptured = counter("laundry.payments.captured", "Payments captured by method")
	m.paymentAmount = amount("laundry.payments.amount", "Amount captured")
	m.paymentsRefunded = counter("laundry.payments.refunded", "Payments refunded")
	m.subscriptionsNew = counter("laundry.subscriptions.created", "Subscriptions started")
	m.subscriptionsEnded = counter("laundry.subscriptions.ended", "Subscriptions expired or cancelled")
	m.usagePickups = counter("laundry.subscriptions.pickups", "Pickups consumed from subscriptions")
	m.customersCreated = counter("laundry.customers.created", "Customers registered")

	var err error
	m.orderWeight, err = NewHistogram(meter, "laundry.orders.weight", "Weighed order weight", "kg", WeightBuckets...)
	errs = append(errs, err)
	m.feedbackRating, err = NewHistogram(meter, "laundry.orders.rating", "Customer feedback rating", "1", 1, 2, 3, 4, 5)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes implements shared.EventHandler
func (m *BusinessMetrics) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
		order.EventTypeOrderCancelled,
		order.EventTypeOrderFeedbackSubmitted,
		billing.EventTypeInvoiceIssued,
		payment.EventTypePaymentCaptured,
		payment.EventTypePaymentRefunded,
		subscription.EventTypeSubscriptionCreated,
		subscription.EventTypeUsageConsumed,
		subscription.EventTypeSubscriptionExpired,
		subscription.EventTypeSubscriptionCancelled,
		customer.EventTypeCustomerCreated,
	}
}

// Handle implements shared.EventHandler
func (m *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())

	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		m.ordersPlaced.Inc(ctx, tenant)
	case *order.OrderStatusChangedEvent:
		m.orderTransitions.Inc(ctx, tenant, AttrOrderStatus.String(string(e.To)))
		if e.To == order.StatusPickedUp && e.WeightKg.IsPositive() {
			m.orderWeight.Record(ctx, e.WeightKg.InexactFloat64(), tenant)
		}
	case *order.OrderCancelledEvent:
		m.ordersCancelled.Inc(ctx, tenant)
	case *order.OrderFeedbackSubmittedEvent:
		m.feedbackRating.Record(ctx, float64(e.Rating), tenant)
	case *billing.InvoiceIssuedEvent:
		attrs := []attribute.KeyValue{tenant, AttrInvoiceType.String(string(e.InvoiceType))}
		m.invoicesIssued.Inc(ctx, attrs...)
		m.invoicedAmount.Add(ctx, e.Total.InexactFloat64(), append(attrs, AttrCurrency.String(e.Currency))...)
	case *payment.PaymentEvent:
		method := AttrPaymentMethod.String(string(e.Method))
		if e.EventType() == payment.EventTypePaymentRefunded {
			m.paymentsRefunded.Inc(ctx, tenant, method)
			return nil
		}
		m.paymentsCaptured.Inc(ctx, tenant, method)
		m.paymentAmount.Add(ctx, e.Amount.InexactFloat64(), tenant, method)
	case *subscription.SubscriptionCreatedEvent:
		m.subscriptionsNew.Inc(ctx, tenant)
	case *subscription.UsageConsumedEvent:
		m.usagePickups.Add(ctx, int64(e.Pickups), tenant)
	case *subscription.SubscriptionEndedEvent:
		m.subscriptionsEnded.Inc(ctx, tenant, AttrEventType.String(e.EventType()))
	case *customer.CustomerCreatedEvent:
		m.customersCreated.Inc(ctx, tenant)
	}
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
