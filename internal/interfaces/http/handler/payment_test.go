package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	paymentapp "github.com/laundry/backend/internal/application/payment"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/cache"
	"github.com/laundry/backend/internal/interfaces/http/dto"
	"github.com/laundry/backend/internal/interfaces/http/middleware"
	"github.com/laundry/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type paymentHandlerFixture struct {
	payments *testutil.MockPaymentRepository
	invoices *testutil.MockInvoiceRepository
	invoice  *billing.Invoice
	handler  *PaymentHandler
}

func newPaymentHandlerFixture(t *testing.T) *paymentHandlerFixture {
	t.Helper()
	inv, err := billing.NewInvoice(testutil.TestTenantID(), "BLR-INV-202605-0007", billing.TypeFinal,
		uuid.New(), uuid.New(), uuid.New(), "INR", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, inv.ReplaceItems([]billing.ItemInput{
		{Description: "Dry Clean", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(250)},
	}))
	require.NoError(t, inv.Issue(time.Now().Add(-time.Hour)))
	inv.ClearDomainEvents()

	f := &paymentHandlerFixture{
		payments: new(testutil.MockPaymentRepository),
		invoices: new(testutil.MockInvoiceRepository),
		invoice:  inv,
	}
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	tx := appshared.NewNoOpTransactionScope(appshared.Repositories{
		Invoices: f.invoices,
		Payments: f.payments,
	})
	f.handler = NewPaymentHandler(paymentapp.NewPaymentService(f.payments, f.invoices, tx, store, zap.NewNop()))
	return f
}

func TestPaymentHandler_Record_Idempotent(t *testing.T) {
	f := newPaymentHandlerFixture(t)
	tenantID := testutil.TestTenantID()
	admin := adminCaller(tenantID)

	var saved *payment.Payment
	f.invoices.On("FindByIDForTenant", mock.Anything, tenantID, f.invoice.ID).Return(f.invoice, nil)
	f.payments.On("GeneratePaymentNumber", mock.Anything, tenantID).Return("PAY-20260504-00001", nil)
	f.payments.On("SumCapturedByInvoice", mock.Anything, tenantID, f.invoice.ID).Return(decimal.Zero, nil)
	f.payments.On("Save", mock.Anything, mock.AnythingOfType("*payment.Payment")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*payment.Payment) }).
		Return(nil).Once()

	body := paymentapp.RecordPaymentRequest{
		InvoiceID: f.invoice.ID,
		Amount:    decimal.NewFromInt(500),
		Method:    "upi",
		Reference: "UPI-7781",
		Capture:   true,
	}
	record := func() (int, paymentapp.PaymentResponse, string) {
		req := jsonRequest(t, http.MethodPost, "/admin/payments", body)
		req.Header.Set(middleware.IdempotencyKeyHeader, "retry-42")
		w := serveRequest(admin, "/admin/payments", req, f.handler.Record)
		require.Contains(t, []int{http.StatusCreated, http.StatusOK}, w.Code, w.Body.String())
		return w.Code, decodeData[paymentapp.PaymentResponse](t, w), w.Header().Get(IdempotentReplayHeader)
	}

	code, first, replayed := record()
	assert.Equal(t, http.StatusCreated, code)
	assert.Empty(t, replayed)
	assert.Equal(t, "CAPTURED", first.Status)
	require.NotNil(t, saved)

	f.payments.On("FindByIDForTenant", mock.Anything, tenantID, saved.ID).Return(saved, nil)

	code, second, replayed := record()
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "true", replayed)
	assert.Equal(t, first.ID, second.ID)
	f.payments.AssertNumberOfCalls(t, "Save", 1)
}

func TestPaymentHandler_Record_Rejects(t *testing.T) {
	f := newPaymentHandlerFixture(t)
	admin := adminCaller(testutil.TestTenantID())

	t.Run("overlong idempotency key", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/admin/payments", paymentapp.RecordPaymentRequest{
			InvoiceID: f.invoice.ID, Amount: decimal.NewFromInt(1), Method: "cash",
		})
		req.Header.Set(middleware.IdempotencyKeyHeader, strings.Repeat("k", maxIdempotencyKeyLen+1))
		w := serveRequest(admin, "/admin/payments", req, f.handler.Record)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		w := serve(t, admin, http.MethodPost, "/admin/payments", "/admin/payments", map[string]any{
			"invoice_id": f.invoice.ID,
			"amount":     "10",
			"method":     "cheque",
		}, f.handler.Record)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCodeOf(t, w))
	})

	t.Run("invoice not found", func(t *testing.T) {
		missing := uuid.New()
		f.invoices.On("FindByIDForTenant", mock.Anything, testutil.TestTenantID(), missing).
			Return(nil, shared.NotFound("Invoice"))

		w := serve(t, admin, http.MethodPost, "/admin/payments", "/admin/payments", paymentapp.RecordPaymentRequest{
			InvoiceID: missing, Amount: decimal.NewFromInt(10), Method: "cash",
		}, f.handler.Record)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPaymentHandler_List_ScopesCustomers(t *testing.T) {
	f := newPaymentHandlerFixture(t)
	tenantID := testutil.TestTenantID()
	customerID := uuid.New()

	f.payments.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["customer_id"] == customerID
	})).Return([]payment.Payment{}, int64(0), nil)

	// a customer asking for someone else's payments still only gets their own
	w := serve(t, customerCaller(tenantID, customerID), http.MethodGet, "/payments",
		"/payments?customer_id="+uuid.NewString(), nil, f.handler.List)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f.payments.AssertExpectations(t)
}
