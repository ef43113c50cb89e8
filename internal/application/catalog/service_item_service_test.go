package catalog

import (
	"context"
	"testing"

	"github.com/laundry/backend/internal/domain/catalog"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServiceItemService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("creates with rounded price", func(t *testing.T) {
		repo := new(testutil.MockServiceItemRepository)
		svc := NewServiceItemService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, tenantID, "WF-KG").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.ServiceItem")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, nil, CreateServiceItemRequest{
			Code:        "wf-kg",
			Name:        "Wash & Fold",
			Description: "Everyday wear",
			Category:    "wash_fold",
			PricingUnit: "per_kg",
			UnitPrice:   decimal.RequireFromString("79.999"),
			SortOrder:   1,
		})

		require.NoError(t, err)
		assert.Equal(t, "WF-KG", resp.Code)
		assert.True(t, resp.UnitPrice.Equal(decimal.RequireFromString("80.00")))
		assert.Equal(t, "Everyday wear", resp.Description)
		assert.True(t, resp.Active)
	})

	t.Run("negative price", func(t *testing.T) {
		repo := new(testutil.MockServiceItemRepository)
		svc := NewServiceItemService(repo, zap.NewNop())

		_, err := svc.Create(ctx, tenantID, nil, CreateServiceItemRequest{
			Code: "DC", Name: "Dry clean", Category: "dry_clean", PricingUnit: "per_item",
			UnitPrice: decimal.NewFromInt(-1),
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(testutil.MockServiceItemRepository)
		svc := NewServiceItemService(repo, zap.NewNop())
		repo.On("ExistsByCode", ctx, tenantID, "DC").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, nil, CreateServiceItemRequest{
			Code: "DC", Name: "Dry clean", Category: "dry_clean", PricingUnit: "per_item",
			UnitPrice: decimal.NewFromInt(150),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CODE_EXISTS", domainErr.Code)
	})
}

func TestServiceItemService_UpdateAndDeactivate(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	repo := new(testutil.MockServiceItemRepository)
	svc := NewServiceItemService(repo, zap.NewNop())
	item, err := catalog.NewServiceItem(tenantID, "IRON", "Ironing", catalog.CategoryIron, catalog.PricingPerItem, decimal.NewFromInt(15))
	require.NoError(t, err)
	repo.On("FindByIDForTenant", ctx, tenantID, item.ID).Return(item, nil)
	repo.On("Save", ctx, item).Return(nil)

	price := decimal.NewFromInt(20)
	resp, err := svc.Update(ctx, tenantID, item.ID, UpdateServiceItemRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.True(t, resp.UnitPrice.Equal(price))
	assert.Equal(t, "Ironing", resp.Name)

	resp, err = svc.Deactivate(ctx, tenantID, item.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	_, err = svc.Deactivate(ctx, tenantID, item.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestServiceItemService_ListActive(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	repo := new(testutil.MockServiceItemRepository)
	svc := NewServiceItemService(repo, zap.NewNop())
	repo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["active"] == true && f.OrderBy == "sort_order"
	})).Return([]catalog.ServiceItem{}, int64(0), nil)

	items, total, err := svc.ListActive(ctx, tenantID, ServiceItemListFilter{})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	repo.AssertExpectations(t)
}
