package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type customerFixture struct {
	customers *testutil.MockCustomerRepository
	orders    *testutil.MockOrderRepository
	publisher *testutil.RecordingPublisher
	service   *CustomerService
}

func newCustomerFixture() *customerFixture {
	f := &customerFixture{
		customers: new(testutil.MockCustomerRepository),
		orders:    new(testutil.MockOrderRepository),
		publisher: testutil.NewRecordingPublisher(),
	}
	f.service = NewCustomerService(f.customers, f.orders, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	return f
}

func newTestCustomer(t *testing.T, tenantID uuid.UUID, phone string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(tenantID, "Meera", phone, "meera@example.com")
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("creates with first address as default", func(t *testing.T) {
		f := newCustomerFixture()
		f.customers.On("FindByPhone", ctx, tenantID, "9876543210").Return(nil, shared.NotFound("Customer"))
		f.customers.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, nil, CreateCustomerRequest{
			Name:  "Meera",
			Phone: "98765 43210",
			Address: &AddressRequest{
				Line1: "12 Lake View", City: "Pune", Pincode: "411001",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "9876543210", resp.Phone)
		require.Len(t, resp.Addresses, 1)
		assert.True(t, resp.Addresses[0].IsDefault)
		assert.Equal(t, "Home", resp.Addresses[0].Label)
		assert.Equal(t, []string{customer.EventTypeCustomerCreated}, f.publisher.EventTypes())
	})

	t.Run("phone taken", func(t *testing.T) {
		f := newCustomerFixture()
		existing := newTestCustomer(t, tenantID, "9876543210")
		f.customers.On("FindByPhone", ctx, tenantID, "9876543210").Return(existing, nil)

		_, err := f.service.Create(ctx, tenantID, nil, CreateCustomerRequest{Name: "Meera", Phone: "9876543210"})

		assert.ErrorIs(t, err, ErrPhoneExists)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("own phone is not a conflict", func(t *testing.T) {
		f := newCustomerFixture()
		c := newTestCustomer(t, tenantID, "9876543210")
		f.customers.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		f.customers.On("Save", ctx, c).Return(nil)
		name := "Meera K"
		phone := "98765-43210"

		resp, err := f.service.Update(ctx, tenantID, c.ID, UpdateCustomerRequest{Name: &name, Phone: &phone})

		require.NoError(t, err)
		assert.Equal(t, "Meera K", resp.Name)
		f.customers.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("phone of another customer", func(t *testing.T) {
		f := newCustomerFixture()
		c := newTestCustomer(t, tenantID, "9876543210")
		other := newTestCustomer(t, tenantID, "9000000000")
		f.customers.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		f.customers.On("FindByPhone", ctx, tenantID, "9000000000").Return(other, nil)
		phone := "9000000000"

		_, err := f.service.Update(ctx, tenantID, c.ID, UpdateCustomerRequest{Phone: &phone})

		assert.ErrorIs(t, err, ErrPhoneExists)
		f.customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Addresses(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	f := newCustomerFixture()
	c := newTestCustomer(t, tenantID, "9876543210")
	f.customers.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
	f.customers.On("Save", ctx, c).Return(nil)

	resp, err := f.service.AddAddress(ctx, tenantID, c.ID, AddressRequest{Label: "Home", Line1: "1 A St", City: "Pune", Pincode: "411001"})
	require.NoError(t, err)
	home := resp.Addresses[0].ID

	resp, err = f.service.AddAddress(ctx, tenantID, c.ID, AddressRequest{Label: "Office", Line1: "2 B St", City: "Pune", Pincode: "411002"})
	require.NoError(t, err)
	office := resp.Addresses[1].ID
	assert.True(t, resp.Addresses[0].IsDefault)

	resp, err = f.service.SetDefaultAddress(ctx, tenantID, c.ID, office)
	require.NoError(t, err)
	assert.False(t, resp.Addresses[0].IsDefault)
	assert.True(t, resp.Addresses[1].IsDefault)

	resp, err = f.service.RemoveAddress(ctx, tenantID, c.ID, office)
	require.NoError(t, err)
	require.Len(t, resp.Addresses, 1)
	assert.Equal(t, home, resp.Addresses[0].ID)
	assert.True(t, resp.Addresses[0].IsDefault)

	_, err = f.service.RemoveAddress(ctx, tenantID, c.ID, uuid.New())
	assert.True(t, shared.IsNotFound(err))

	_, err = f.service.AddAddress(ctx, tenantID, c.ID, AddressRequest{Line1: "3 C St", City: "Pune", Pincode: "011002"})
	assert.Error(t, err)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("refuses with orders", func(t *testing.T) {
		f := newCustomerFixture()
		c := newTestCustomer(t, tenantID, "9876543210")
		f.customers.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		f.orders.On("CountByCustomer", ctx, tenantID, c.ID).Return(int64(3), nil)

		err := f.service.Delete(ctx, tenantID, c.ID)

		assert.ErrorIs(t, err, ErrCustomerHasOrders)
		f.customers.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes without orders", func(t *testing.T) {
		f := newCustomerFixture()
		c := newTestCustomer(t, tenantID, "9876543210")
		f.customers.On("FindByIDForTenant", ctx, tenantID, c.ID).Return(c, nil)
		f.orders.On("CountByCustomer", ctx, tenantID, c.ID).Return(int64(0), nil)
		f.customers.On("DeleteForTenant", ctx, tenantID, c.ID).Return(nil)

		require.NoError(t, f.service.Delete(ctx, tenantID, c.ID))
	})
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	f := newCustomerFixture()
	c := newTestCustomer(t, tenantID, "9876543210")
	f.customers.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.Search == "meera" && fl.OrderBy == "name" && fl.OrderDir == "asc"
	})).Return([]customer.Customer{*c}, int64(1), nil)

	items, total, err := f.service.List(ctx, tenantID, CustomerListFilter{Search: "meera", OrderBy: "name", OrderDir: "asc"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, c.ID, items[0].ID)
}
