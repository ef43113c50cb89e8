package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	analyticsapp "github.com/laundry/backend/internal/application/analytics"
	billingapp "github.com/laundry/backend/internal/application/billing"
	branchapp "github.com/laundry/backend/internal/application/branch"
	orderapp "github.com/laundry/backend/internal/application/order"
	paymentapp "github.com/laundry/backend/internal/application/payment"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/cache"
	"github.com/laundry/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type laundryFixture struct {
	tenantID   uuid.UUID
	customerID uuid.UUID
	branch     *branch.Branch
	washFold   *catalog.ServiceItem
	shirt      *catalog.ServiceItem

	orders    *orderapp.OrderService
	invoices  *billingapp.InvoiceService
	payments  *paymentapp.PaymentService
	analytics *analyticsapp.AnalyticsService
}

func newLaundryFixture(t *testing.T, testDB *TestDB) *laundryFixture {
	t.Helper()
	ctx := context.Background()
	db := testDB.DB
	log := zap.NewNop()
	tenantID := uuid.New()

	branchRepo := persistence.NewGormBranchRepository(db)
	areaRepo := persistence.NewGormServiceAreaRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	itemRepo := persistence.NewGormServiceItemRepository(db)
	subRepo := persistence.NewGormSubscriptionRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	txScope := persistence.NewGormTransactionScope(db)

	hsr, err := branch.NewBranch(tenantID, "HSR", "HSR Layout")
	require.NoError(t, err)
	require.NoError(t, branchRepo.Save(ctx, hsr))
	area, err := branch.NewServiceArea(tenantID, hsr.ID, "560102", "HSR Sector 2")
	require.NoError(t, err)
	require.NoError(t, areaRepo.Save(ctx, area))

	c, err := customer.NewCustomer(tenantID, "Asha Rao", "9845012345", "asha@example.com")
	require.NoError(t, err)
	require.NoError(t, customerRepo.Save(ctx, c))

	washFold, err := catalog.NewServiceItem(tenantID, "WF", "Wash & Fold", catalog.CategoryWashFold, catalog.PricingPerKg, decimal.NewFromInt(80))
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, washFold))
	shirt, err := catalog.NewServiceItem(tenantID, "SHIRT", "Shirt Iron", catalog.CategoryIron, catalog.PricingPerItem, decimal.NewFromInt(15))
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, shirt))

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })

	resolver := branchapp.NewServiceAreaService(areaRepo, branchRepo, log)
	invoices := billingapp.NewInvoiceService(invoiceRepo, orderRepo, branchRepo, billingapp.InvoiceConfig{
		Currency:       "INR",
		DefaultTaxRate: decimal.Zero,
		Prefix:         "LS",
	}, log)
	invoices.SetTransactionScope(txScope)
	return &laundryFixture{
		tenantID:   tenantID,
		customerID: c.ID,
		branch:     hsr,
		washFold:   washFold,
		shirt:      shirt,
		orders:     orderapp.NewOrderService(orderRepo, customerRepo, itemRepo, subRepo, resolver, txScope, log),
		invoices:   invoices,
		payments:   paymentapp.NewPaymentService(paymentRepo, invoiceRepo, txScope, idempotency, log),
		analytics: analyticsapp.NewAnalyticsService(persistence.NewGormRevenueRepository(db),
			orderRepo, subRepo, customerRepo, nil, 0, log),
	}
}

func (f *laundryFixture) placeOrder(t *testing.T) *orderapp.OrderResponse {
	t.Helper()
	resp, err := f.orders.Place(context.Background(), f.tenantID, f.customerID, orderapp.PlaceOrderRequest{
		Address: &orderapp.PickupAddressRequest{
			Line1:   "27th Main",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: "560102",
		},
		PickupDate: time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02"),
		PickupSlot: "09:00-12:00",
		Items: []orderapp.OrderItemRequest{
			{ServiceItemID: f.washFold.ID, Quantity: decimal.RequireFromString("3.5")},
			{ServiceItemID: f.shirt.ID, Quantity: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)
	return resp
}

func TestLaundryFlow_OrderToRevenue(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	f := newLaundryFixture(t, testDB)
	ctx := context.Background()

	placed := f.placeOrder(t)
	assert.Equal(t, "PLACED", placed.Status)
	assert.Equal(t, f.branch.ID, placed.BranchID)

	t.Run("final invoice needs a ready order", func(t *testing.T) {
		_, err := f.invoices.Generate(ctx, f.tenantID, nil, billingapp.GenerateInvoiceRequest{
			OrderID: placed.ID,
			Type:    "FINAL",
		})
		assert.ErrorIs(t, err, billingapp.ErrOrderNotBillable)
	})

	for range 3 {
		_, err := f.orders.Advance(ctx, f.tenantID, placed.ID, orderapp.AdvanceOrderRequest{})
		require.NoError(t, err)
	}
	ready, err := f.orders.GetByID(ctx, f.tenantID, placed.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "READY", ready.Status)

	inv, err := f.invoices.Generate(ctx, f.tenantID, nil, billingapp.GenerateInvoiceRequest{
		OrderID: placed.ID,
		Type:    "FINAL",
	})
	require.NoError(t, err)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(340)), "total %s", inv.Total)

	t.Run("only one final invoice per order", func(t *testing.T) {
		_, err := f.invoices.Generate(ctx, f.tenantID, nil, billingapp.GenerateInvoiceRequest{
			OrderID: placed.ID,
			Type:    "FINAL",
		})
		assert.Error(t, err)
	})

	issued, err := f.invoices.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ISSUED", issued.Status)

	first, created, err := f.payments.Record(ctx, f.tenantID, nil, "counter-1", paymentapp.RecordPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(200),
		Method:    "upi",
		Capture:   true,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "CAPTURED", first.Status)

	t.Run("retries with the same key replay the payment", func(t *testing.T) {
		again, created, err := f.payments.Record(ctx, f.tenantID, nil, "counter-1", paymentapp.RecordPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(200),
			Method:    "upi",
			Capture:   true,
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		_, _, err := f.payments.Record(ctx, f.tenantID, nil, "", paymentapp.RecordPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(141),
			Method:    "cash",
			Capture:   true,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PAYMENT_EXCEEDS_BALANCE", domainErr.Code)
	})

	_, _, err = f.payments.Record(ctx, f.tenantID, nil, "", paymentapp.RecordPaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.NewFromInt(140),
		Method:    "cash",
		Capture:   true,
	})
	require.NoError(t, err)

	today := time.Now().UTC().Format("2006-01-02")
	report, err := f.analytics.Revenue(ctx, f.tenantID, analyticsapp.RevenueRequest{From: today, To: today})
	require.NoError(t, err)
	assert.Equal(t, 1, report.InvoiceCount)
	assert.Equal(t, 2, report.PaymentCount)
	assert.True(t, report.InvoicedRevenue.Equal(decimal.NewFromInt(340)))
	assert.True(t, report.CollectedRevenue.Equal(decimal.NewFromInt(340)))
	assert.True(t, report.Outstanding.IsZero())
}

func TestLaundryFlow_UnserviceablePincode(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	f := newLaundryFixture(t, testDB)

	_, err := f.orders.Place(context.Background(), f.tenantID, f.customerID, orderapp.PlaceOrderRequest{
		Address: &orderapp.PickupAddressRequest{
			Line1:   "Connaught Place",
			City:    "New Delhi",
			State:   "Delhi",
			Pincode: "110001",
		},
		PickupDate: time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02"),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PINCODE_NOT_SERVICEABLE", domainErr.Code)
}

// readyOrder places an order and advances it to READY
func (f *laundryFixture) readyOrder(t *testing.T) uuid.UUID {
	t.Helper()
	placed := f.placeOrder(t)
	for range 3 {
		_, err := f.orders.Advance(context.Background(), f.tenantID, placed.ID, orderapp.AdvanceOrderRequest{})
		require.NoError(t, err)
	}
	return placed.ID
}

func TestLaundryFlow_ConcurrentFinalInvoices(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	f := newLaundryFixture(t, testDB)
	orderID := f.readyOrder(t)

	const workers = 5
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		rejected int
		errs     []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.invoices.Generate(context.Background(), f.tenantID, nil, billingapp.GenerateInvoiceRequest{
				OrderID: orderID,
				Type:    "FINAL",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, billing.ErrFinalInvoiceExist):
				rejected++
			default:
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, rejected)
}

func TestLaundryFlow_ConcurrentCapturesStayWithinInvoiceTotal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	f := newLaundryFixture(t, testDB)
	ctx := context.Background()
	orderID := f.readyOrder(t)

	inv, err := f.invoices.Generate(ctx, f.tenantID, nil, billingapp.GenerateInvoiceRequest{OrderID: orderID, Type: "FINAL"})
	require.NoError(t, err)
	require.True(t, inv.Total.Equal(decimal.NewFromInt(340)), "total %s", inv.Total)
	_, err = f.invoices.Issue(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		collected = decimal.Zero
		accepted  int
		exceeded  int
		errs      []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.payments.Record(ctx, f.tenantID, nil, "", paymentapp.RecordPaymentRequest{
				InvoiceID: inv.ID,
				Amount:    decimal.NewFromInt(100),
				Method:    "cash",
				Capture:   true,
			})
			mu.Lock()
			defer mu.Unlock()
			var domainErr *shared.DomainError
			switch {
			case err == nil:
				accepted++
				collected = collected.Add(decimal.NewFromInt(100))
			case errors.As(err, &domainErr) && domainErr.Code == "PAYMENT_EXCEEDS_BALANCE":
				exceeded++
			default:
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 3, accepted)
	assert.Equal(t, workers-3, exceeded)

	captured, err := persistence.NewGormPaymentRepository(testDB.DB).SumCapturedByInvoice(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.True(t, captured.Equal(collected), "captured %s", captured)
	assert.True(t, captured.LessThanOrEqual(inv.Total))
}
