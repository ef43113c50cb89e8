package testutil

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/analytics"
	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/identity"
	"github.com/laundry/backend/internal/domain/order"
	"github.com/laundry/backend/internal/domain/payment"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/subscription"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Identity
// =============================================================================

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// =============================================================================
// Branch
// =============================================================================

// MockBranchRepository is a mock implementation of branch.BranchRepository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*branch.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*branch.Branch, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]branch.Branch, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]branch.Branch), args.Get(1).(int64), args.Error(2)
}

func (m *MockBranchRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]branch.Branch, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBranchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockServiceAreaRepository is a mock implementation of branch.ServiceAreaRepository
type MockServiceAreaRepository struct {
	mock.Mock
}

func (m *MockServiceAreaRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*branch.ServiceArea, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.ServiceArea), args.Error(1)
}

func (m *MockServiceAreaRepository) FindByPincode(ctx context.Context, tenantID uuid.UUID, pincode string) (*branch.ServiceArea, error) {
	args := m.Called(ctx, tenantID, pincode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.ServiceArea), args.Error(1)
}

func (m *MockServiceAreaRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]branch.ServiceArea, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]branch.ServiceArea), args.Get(1).(int64), args.Error(2)
}

func (m *MockServiceAreaRepository) CountByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockServiceAreaRepository) Save(ctx context.Context, area *branch.ServiceArea) error {
	return m.Called(ctx, area).Error(0)
}

func (m *MockServiceAreaRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockBrandingRepository is a mock implementation of branch.BrandingRepository
type MockBrandingRepository struct {
	mock.Mock
}

func (m *MockBrandingRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*branch.BrandingSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*branch.BrandingSettings), args.Error(1)
}

func (m *MockBrandingRepository) Save(ctx context.Context, settings *branch.BrandingSettings) error {
	return m.Called(ctx, settings).Error(0)
}

// =============================================================================
// Customer and catalog
// =============================================================================

// MockCustomerRepository is a mock implementation of customer.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*customer.Customer, error) {
	args := m.Called(ctx, tenantID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]customer.Customer, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]customer.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ExistsByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (bool, error) {
	args := m.Called(ctx, tenantID, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockServiceItemRepository is a mock implementation of catalog.ServiceItemRepository
type MockServiceItemRepository struct {
	mock.Mock
}

func (m *MockServiceItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ServiceItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceItem), args.Error(1)
}

func (m *MockServiceItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.ServiceItem, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.ServiceItem), args.Error(1)
}

func (m *MockServiceItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.ServiceItem, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.ServiceItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockServiceItemRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockServiceItemRepository) Save(ctx context.Context, item *catalog.ServiceItem) error {
	return m.Called(ctx, item).Error(0)
}

// =============================================================================
// Order
// =============================================================================

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[order.Status]int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[order.Status]int64), args.Error(1)
}

func (m *MockOrderRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// =============================================================================
// Subscription
// =============================================================================

// MockPlanRepository is a mock implementation of subscription.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*subscription.Plan, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]subscription.Plan, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]subscription.Plan), args.Get(1).(int64), args.Error(2)
}

func (m *MockPlanRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *subscription.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

// MockSubscriptionRepository is a mock implementation of subscription.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*subscription.Subscription, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindActiveByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*subscription.Subscription, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]subscription.Subscription, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]subscription.Subscription), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubscriptionRepository) FindDueForExpiry(ctx context.Context, now time.Time, limit int) ([]subscription.Subscription, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]subscription.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *subscription.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) SaveWithLock(ctx context.Context, sub *subscription.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

// =============================================================================
// Billing and payment
// =============================================================================

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) ExistsFinalForOrder(ctx context.Context, tenantID, orderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, prefix string, invoiceType billing.InvoiceType, at time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, prefix, invoiceType, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock implementation of payment.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]payment.Payment, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]payment.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) SumCapturedByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// =============================================================================
// Analytics, assets, idempotency
// =============================================================================

// MockRevenueRepository is a mock implementation of analytics.RevenueRepository
type MockRevenueRepository struct {
	mock.Mock
}

func (m *MockRevenueRepository) FindInvoiceRecords(ctx context.Context, tenantID uuid.UUID, period analytics.Period, branchID *uuid.UUID) ([]analytics.InvoiceRecord, error) {
	args := m.Called(ctx, tenantID, period, branchID)
	return args.Get(0).([]analytics.InvoiceRecord), args.Error(1)
}

func (m *MockRevenueRepository) FindPaymentRecords(ctx context.Context, tenantID uuid.UUID, period analytics.Period, branchID *uuid.UUID) ([]analytics.PaymentRecord, error) {
	args := m.Called(ctx, tenantID, period, branchID)
	return args.Get(0).([]analytics.PaymentRecord), args.Error(1)
}

func (m *MockRevenueRepository) AverageRating(ctx context.Context, tenantID uuid.UUID) (*decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*decimal.Decimal), args.Error(1)
}

// MockAssetRepository is a mock implementation of asset.AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]asset.Asset, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]asset.Asset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAssetRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockStorage is a mock implementation of asset.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, content, size, contentType).Error(0)
}

func (m *MockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

var (
	_ identity.UserRepository             = (*MockUserRepository)(nil)
	_ branch.BranchRepository             = (*MockBranchRepository)(nil)
	_ branch.ServiceAreaRepository        = (*MockServiceAreaRepository)(nil)
	_ branch.BrandingRepository           = (*MockBrandingRepository)(nil)
	_ customer.CustomerRepository         = (*MockCustomerRepository)(nil)
	_ catalog.ServiceItemRepository       = (*MockServiceItemRepository)(nil)
	_ order.OrderRepository               = (*MockOrderRepository)(nil)
	_ subscription.PlanRepository         = (*MockPlanRepository)(nil)
	_ subscription.SubscriptionRepository = (*MockSubscriptionRepository)(nil)
	_ billing.InvoiceRepository           = (*MockInvoiceRepository)(nil)
	_ payment.PaymentRepository           = (*MockPaymentRepository)(nil)
	_ analytics.RevenueRepository         = (*MockRevenueRepository)(nil)
	_ asset.AssetRepository               = (*MockAssetRepository)(nil)
	_ asset.Storage                       = (*MockStorage)(nil)
)
