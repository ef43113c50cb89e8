package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/laundry/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, config.TelemetryConfig{ServiceName: "laundry-test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.NotNil(t, tel.Tracer.Tracer("x"))
	assert.NotNil(t, tel.Meter.Meter("x"))

	require.NoError(t, tel.Shutdown(ctx))
	require.NoError(t, tel.Profiler.Stop())
}

func TestLoggerProvider_BridgeDisabledReturnsBase(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)
	bridged := lp.Bridge(base, zapcore.InfoLevel)
	bridged.Info("hello")

	assert.Same(t, base, bridged)
	assert.Equal(t, 1, logs.Len())
}

func TestProfiler_RequiresURL(t *testing.T) {
	_, err := telemetry.NewProfiler(config.TelemetryConfig{ProfilingEnabled: true}, zap.NewNop())
	require.Error(t, err)
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tenantID := uuid.New()
	ctx, span := telemetry.StartServiceSpan(context.Background(), "order", "place",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrAmount, 120.5,
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderNumber, "LO-2025-00001")
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "order.place", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, tenantID.String(), attrs[telemetry.SpanAttrTenantID])
	assert.Equal(t, "120.5", attrs[telemetry.SpanAttrAmount])
	assert.Equal(t, "LO-2025-00001", attrs[telemetry.SpanAttrOrderNumber])
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}

func newBusinessMetrics(t *testing.T) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewBusinessMetrics(mp.Meter(telemetry.MeterName))
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func intSum(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func floatSum(t *testing.T, data metricdata.Aggregation) float64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[float64])
	require.True(t, ok)
	var total float64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestBusinessMetrics_Handle(t *testing.T) {
	ctx := context.Background()
	m, reader := newBusinessMetrics(t)
	tenantID := uuid.New()

	events := []shared.DomainEvent{
		&order.OrderPlacedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeOrderPlaced, order.AggregateTypeOrder, uuid.New(), tenantID),
		},
		&order.OrderPlacedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeOrderPlaced, order.AggregateTypeOrder, uuid.New(), tenantID),
		},
		&order.OrderStatusChangedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeOrderStatusChanged, order.AggregateTypeOrder, uuid.New(), tenantID),
			From:            order.StatusPlaced,
			To:              order.StatusPickedUp,
			WeightKg:        decimal.NewFromFloat(4.5),
		},
		&billing.InvoiceIssuedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(billing.EventTypeInvoiceIssued, billing.AggregateTypeInvoice, uuid.New(), tenantID),
			InvoiceType:     billing.TypeFinal,
			Total:           decimal.NewFromInt(708),
			Currency:        "INR",
		},
		&payment.PaymentEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(payment.EventTypePaymentCaptured, payment.AggregateTypePayment, uuid.New(), tenantID),
			Amount:          decimal.NewFromInt(500),
			Method:          payment.MethodUPI,
		},
		&payment.PaymentEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(payment.EventTypePaymentRefunded, payment.AggregateTypePayment, uuid.New(), tenantID),
			Amount:          decimal.NewFromInt(500),
			Method:          payment.MethodUPI,
		},
	}
	for _, evt := range events {
		require.NoError(t, m.Handle(ctx, evt))
	}

	data := collect(t, reader)
	assert.Equal(t, int64(2), intSum(t, data["laundry.orders.placed"]))
	assert.Equal(t, int64(1), intSum(t, data["laundry.orders.transitions"]))
	assert.Equal(t, int64(1), intSum(t, data["laundry.invoices.issued"]))
	assert.InDelta(t, 708.0, floatSum(t, data["laundry.invoices.amount"]), 0.001)
	assert.Equal(t, int64(1), intSum(t, data["laundry.payments.captured"]))
	assert.Equal(t, int64(1), intSum(t, data["laundry.payments.refunded"]))
	assert.InDelta(t, 500.0, floatSum(t, data["laundry.payments.amount"]), 0.001)

	weight, ok := data["laundry.orders.weight"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, weight.DataPoints, 1)
	assert.Equal(t, uint64(1), weight.DataPoints[0].Count)
}

func TestBusinessMetrics_EventTypes(t *testing.T) {
	m, _ := newBusinessMetrics(t)
	assert.Contains(t, m.EventTypes(), order.EventTypeOrderPlaced)
	assert.Contains(t, m.EventTypes(), payment.EventTypePaymentCaptured)
	assert.NotContains(t, m.EventTypes(), billing.EventTypeInvoiceVoided)
}
