package branch

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBranch(t *testing.T, tenantID uuid.UUID, code string) *branch.Branch {
	t.Helper()
	b, err := branch.NewBranch(tenantID, code, "Branch "+code)
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func TestBranchService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("creates with invoice details", func(t *testing.T) {
		branches := new(testutil.MockBranchRepository)
		publisher := testutil.NewRecordingPublisher()
		svc := NewBranchService(branches, new(testutil.MockServiceAreaRepository), zap.NewNop())
		svc.SetEventPublisher(publisher)
		branches.On("ExistsByCode", ctx, tenantID, "KOR-01").Return(false, nil)
		branches.On("Save", ctx, mock.AnythingOfType("*branch.Branch")).Return(nil)

		resp, err := svc.Create(ctx, tenantID, nil, CreateBranchRequest{
			Code:          "kor-01",
			Name:          "Koramangala",
			City:          "Bengaluru",
			Pincode:       "560034",
			TaxID:         "29abcde1234f1z5",
			InvoicePrefix: "kor",
		})

		require.NoError(t, err)
		assert.Equal(t, "KOR-01", resp.Code)
		assert.Equal(t, "KOR", resp.InvoicePrefix)
		assert.Equal(t, "29ABCDE1234F1Z5", resp.TaxID)
		assert.Equal(t, "560034", resp.Pincode)
		assert.Equal(t, []string{branch.EventTypeBranchCreated}, publisher.EventTypes())
	})

	t.Run("duplicate code", func(t *testing.T) {
		branches := new(testutil.MockBranchRepository)
		svc := NewBranchService(branches, new(testutil.MockServiceAreaRepository), zap.NewNop())
		branches.On("ExistsByCode", ctx, tenantID, "KOR-01").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, nil, CreateBranchRequest{Code: "KOR-01", Name: "Koramangala"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CODE_EXISTS", domainErr.Code)
		branches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestBranchService_UpdateKeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	branches := new(testutil.MockBranchRepository)
	svc := NewBranchService(branches, new(testutil.MockServiceAreaRepository), zap.NewNop())
	b := newTestBranch(t, tenantID, "HSR")
	require.NoError(t, b.Update("HSR Layout", "27th Main", "Bengaluru", "KA", "560102", "080-1234", ""))
	branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)
	branches.On("Save", ctx, b).Return(nil)

	city := "Bangalore"
	resp, err := svc.Update(ctx, tenantID, b.ID, UpdateBranchRequest{City: &city})

	require.NoError(t, err)
	assert.Equal(t, "Bangalore", resp.City)
	assert.Equal(t, "27th Main", resp.Address)
	assert.Equal(t, "560102", resp.Pincode)
}

func TestBranchService_Deactivate(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	branches := new(testutil.MockBranchRepository)
	publisher := testutil.NewRecordingPublisher()
	svc := NewBranchService(branches, new(testutil.MockServiceAreaRepository), zap.NewNop())
	svc.SetEventPublisher(publisher)
	b := newTestBranch(t, tenantID, "HSR")
	branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)
	branches.On("Save", ctx, b).Return(nil)

	resp, err := svc.Deactivate(ctx, tenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)
	assert.Equal(t, []string{branch.EventTypeBranchDeactivated}, publisher.EventTypes())

	_, err = svc.Deactivate(ctx, tenantID, b.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err = svc.Activate(ctx, tenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)
}

func TestBranchService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("refuses while pincodes are mapped", func(t *testing.T) {
		branches := new(testutil.MockBranchRepository)
		areas := new(testutil.MockServiceAreaRepository)
		svc := NewBranchService(branches, areas, zap.NewNop())
		b := newTestBranch(t, tenantID, "HSR")
		branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)
		areas.On("CountByBranch", ctx, tenantID, b.ID).Return(int64(2), nil)

		err := svc.Delete(ctx, tenantID, b.ID)

		assert.ErrorIs(t, err, ErrBranchInUse)
		branches.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes an unused branch", func(t *testing.T) {
		branches := new(testutil.MockBranchRepository)
		areas := new(testutil.MockServiceAreaRepository)
		svc := NewBranchService(branches, areas, zap.NewNop())
		b := newTestBranch(t, tenantID, "HSR")
		branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)
		areas.On("CountByBranch", ctx, tenantID, b.ID).Return(int64(0), nil)
		branches.On("DeleteForTenant", ctx, tenantID, b.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, tenantID, b.ID))
		branches.AssertExpectations(t)
	})
}

func TestBranchService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	branches := new(testutil.MockBranchRepository)
	svc := NewBranchService(branches, new(testutil.MockServiceAreaRepository), zap.NewNop())
	b := newTestBranch(t, tenantID, "HSR")
	branches.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "active" && f.PageSize == shared.MaxPageSize
	})).Return([]branch.Branch{*b}, int64(1), nil)

	items, total, err := svc.List(ctx, tenantID, BranchListFilter{Status: "active", PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "HSR", items[0].Code)
}
