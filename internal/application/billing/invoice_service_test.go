package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/laundry/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type invoiceFixture struct {
	invoices  *testutil.MockInvoiceRepository
	orders    *testutil.MockOrderRepository
	branches  *testutil.MockBranchRepository
	publisher *testutil.RecordingPublisher
	svc       *InvoiceService
	now       time.Time
	branch    *branch.Branch
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	b, err := branch.NewBranch(testutil.TestTenantID(), "BLR", "Bangalore Central")
	require.NoError(t, err)

	f := &invoiceFixture{
		invoices:  new(testutil.MockInvoiceRepository),
		orders:    new(testutil.MockOrderRepository),
		branches:  new(testutil.MockBranchRepository),
		publisher: testutil.NewRecordingPublisher(),
		now:       time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC),
		branch:    b,
	}
	f.svc = NewInvoiceService(f.invoices, f.orders, f.branches, InvoiceConfig{
		Currency:       "INR",
		DefaultTaxRate: decimal.NewFromInt(18),
		Prefix:         "LS",
	}, zap.NewNop())
	f.svc.SetEventPublisher(f.publisher)
	f.svc.SetClock(testutil.FixedClock(f.now))
	return f
}

// orderAt builds an order with 5 kg of wash & fold (400.00) advanced to status
func (f *invoiceFixture) orderAt(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	tenantID := testutil.TestTenantID()
	addr, err := valueobject.NewPostalAddress("12 MG Road", "", "Bengaluru", "Karnataka", "560001")
	require.NoError(t, err)
	o, err := order.NewOrder(tenantID, "LO-2026-00042", uuid.New(), f.branch.ID, addr, f.now, "")
	require.NoError(t, err)
	svc, err := catalog.NewServiceItem(tenantID, "WF", "Wash & Fold", catalog.CategoryWashFold, catalog.PricingPerKg, decimal.NewFromInt(80))
	require.NoError(t, err)
	item, err := order.NewItem(o.ID, svc, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, o.ReplaceItems([]order.Item{item}))
	for o.Status != status {
		require.NoError(t, o.Advance(o.Status.Next(), f.now))
	}
	return o
}

func (f *invoiceFixture) draft(t *testing.T) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(testutil.TestTenantID(), "BLR-INV-202604-0001", billing.TypeFinal,
		uuid.New(), uuid.New(), f.branch.ID, "INR", decimal.NewFromInt(18))
	require.NoError(t, err)
	require.NoError(t, inv.ReplaceItems([]billing.ItemInput{
		{Description: "Wash & Fold", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(80)},
	}))
	return inv
}

func TestInvoiceService_Generate(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("final invoice with discount and branch prefix", func(t *testing.T) {
		f := newInvoiceFixture(t)
		o := f.orderAt(t, order.StatusReady)
		f.orders.On("FindByIDForUpdate", ctx, tenantID, o.ID).Return(o, nil)
		f.invoices.On("ExistsFinalForOrder", ctx, tenantID, o.ID).Return(false, nil)
		f.branches.On("FindByIDForTenant", ctx, tenantID, f.branch.ID).Return(f.branch, nil)
		f.invoices.On("NextSequence", ctx, tenantID, "BLR", billing.TypeFinal, f.now).Return(int64(7), nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		discount := decimal.NewFromInt(50)
		resp, err := f.svc.Generate(ctx, tenantID, nil, GenerateInvoiceRequest{
			OrderID:   o.ID,
			Type:      "FINAL",
			Discounts: []InvoiceItemRequest{{Description: "Loyalty", Amount: &discount}},
		})

		require.NoError(t, err)
		assert.Equal(t, "BLR-INV-202604-0007", resp.InvoiceNumber)
		assert.Equal(t, "DRAFT", resp.Status)
		require.Len(t, resp.Items, 2)
		assert.True(t, resp.Items[1].Amount.Equal(decimal.NewFromInt(-50)))
		assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(350)), resp.Subtotal.String())
		assert.True(t, resp.TaxAmount.Equal(decimal.NewFromInt(63)), resp.TaxAmount.String())
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(413)), resp.Total.String())
	})

	t.Run("ack before pickup is rejected", func(t *testing.T) {
		f := newInvoiceFixture(t)
		o := f.orderAt(t, order.StatusPlaced)
		f.orders.On("FindByIDForUpdate", ctx, tenantID, o.ID).Return(o, nil)

		_, err := f.svc.Generate(ctx, tenantID, nil, GenerateInvoiceRequest{OrderID: o.ID, Type: "ACK"})

		assert.ErrorIs(t, err, ErrOrderNotBillable)
	})

	t.Run("final before ready is rejected", func(t *testing.T) {
		f := newInvoiceFixture(t)
		o := f.orderAt(t, order.StatusProcessing)
		f.orders.On("FindByIDForUpdate", ctx, tenantID, o.ID).Return(o, nil)

		_, err := f.svc.Generate(ctx, tenantID, nil, GenerateInvoiceRequest{OrderID: o.ID, Type: "FINAL"})

		assert.ErrorIs(t, err, ErrOrderNotBillable)
	})

	t.Run("second final invoice", func(t *testing.T) {
		f := newInvoiceFixture(t)
		o := f.orderAt(t, order.StatusDelivered)
		f.orders.On("FindByIDForUpdate", ctx, tenantID, o.ID).Return(o, nil)
		f.invoices.On("ExistsFinalForOrder", ctx, tenantID, o.ID).Return(true, nil)

		_, err := f.svc.Generate(ctx, tenantID, nil, GenerateInvoiceRequest{OrderID: o.ID, Type: "FINAL"})

		assert.ErrorIs(t, err, billing.ErrFinalInvoiceExist)
		f.invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("final lost to a concurrent request at the unique index", func(t *testing.T) {
		f := newInvoiceFixture(t)
		o := f.orderAt(t, order.StatusReady)
		f.orders.On("FindByIDForUpdate", ctx, tenantID, o.ID).Return(o, nil)
		f.invoices.On("ExistsFinalForOrder", ctx, tenantID, o.ID).Return(false, nil)
		f.branches.On("FindByIDForTenant", ctx, tenantID, f.branch.ID).Return(f.branch, nil)
		f.invoices.On("NextSequence", ctx, tenantID, "BLR", billing.TypeFinal, f.now).Return(int64(8), nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).
			Return(fmt.Errorf("%w: Invoice", shared.ErrAlreadyExists))

		_, err := f.svc.Generate(ctx, tenantID, nil, GenerateInvoiceRequest{OrderID: o.ID, Type: "FINAL"})

		assert.ErrorIs(t, err, billing.ErrFinalInvoiceExist)
	})

	t.Run("ack falls back to billing prefix", func(t *testing.T) {
		f := newInvoiceFixture(t)
		o := f.orderAt(t, order.StatusPickedUp)
		f.orders.On("FindByIDForUpdate", ctx, tenantID, o.ID).Return(o, nil)
		f.branches.On("FindByIDForTenant", ctx, tenantID, f.branch.ID).Return(nil, shared.NotFound("Branch"))
		f.invoices.On("NextSequence", ctx, tenantID, "LS", billing.TypeAck, f.now).Return(int64(1), nil)
		f.invoices.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		zero := decimal.Zero
		resp, err := f.svc.Generate(ctx, tenantID, nil, GenerateInvoiceRequest{OrderID: o.ID, Type: "ACK", TaxRate: &zero})

		require.NoError(t, err)
		assert.Equal(t, "LS-ACK-202604-0001", resp.InvoiceNumber)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(400)))
	})
}

func TestInvoiceService_IssueFreezesTotals(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	f := newInvoiceFixture(t)
	inv := f.draft(t)
	f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)
	f.invoices.On("SaveWithLock", ctx, inv).Return(nil)

	resp, err := f.svc.SetTaxRate(ctx, tenantID, inv.ID, SetTaxRateRequest{TaxRate: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(420)), resp.Total.String())

	resp, err = f.svc.Issue(ctx, tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ISSUED", resp.Status)
	assert.Equal(t, []string{billing.EventTypeInvoiceIssued}, f.publisher.EventTypes())

	_, err = f.svc.ReplaceItems(ctx, tenantID, inv.ID, ReplaceInvoiceItemsRequest{
		Items: []InvoiceItemRequest{{Description: "Extra", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, billing.ErrInvoiceImmutable)

	_, err = f.svc.SetTaxRate(ctx, tenantID, inv.ID, SetTaxRateRequest{TaxRate: decimal.Zero})
	assert.ErrorIs(t, err, billing.ErrInvoiceImmutable)

	resp, err = f.svc.Void(ctx, tenantID, inv.ID, VoidInvoiceRequest{Reason: "Duplicate"})
	require.NoError(t, err)
	assert.Equal(t, "VOID", resp.Status)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(420)))
}

func TestInvoiceService_CustomerScope(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("draft is hidden from its customer", func(t *testing.T) {
		f := newInvoiceFixture(t)
		inv := f.draft(t)
		f.invoices.On("FindByIDForTenant", ctx, tenantID, inv.ID).Return(inv, nil)

		_, err := f.svc.GetByID(ctx, tenantID, inv.ID, &inv.CustomerID)

		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("list restricts to own issued and void invoices", func(t *testing.T) {
		f := newInvoiceFixture(t)
		customerID := uuid.New()
		f.invoices.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(fl shared.Filter) bool {
			statuses, ok := fl.Filters["statuses"].([]string)
			return ok && len(statuses) == 2 && fl.Filters["customer_id"] == customerID
		})).Return([]billing.Invoice{}, int64(0), nil)

		_, _, err := f.svc.List(ctx, tenantID, InvoiceListFilter{}, &customerID)

		require.NoError(t, err)
		f.invoices.AssertExpectations(t)
	})
}
