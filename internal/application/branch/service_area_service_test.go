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

type areaFixture struct {
	areas     *testutil.MockServiceAreaRepository
	branches  *testutil.MockBranchRepository
	publisher *testutil.RecordingPublisher
	service   *ServiceAreaService
}

func newAreaFixture() *areaFixture {
	f := &areaFixture{
		areas:     new(testutil.MockServiceAreaRepository),
		branches:  new(testutil.MockBranchRepository),
		publisher: testutil.NewRecordingPublisher(),
	}
	f.service = NewServiceAreaService(f.areas, f.branches, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	return f
}

func newTestArea(t *testing.T, tenantID, branchID uuid.UUID, pincode string) *branch.ServiceArea {
	t.Helper()
	a, err := branch.NewServiceArea(tenantID, branchID, pincode, "Locality")
	require.NoError(t, err)
	return a
}

func TestServiceAreaService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("maps a free pincode", func(t *testing.T) {
		f := newAreaFixture()
		b := newTestBranch(t, tenantID, "HSR")
		f.branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)
		f.areas.On("FindByPincode", ctx, tenantID, "560102").Return(nil, shared.NotFound("Service area"))
		f.areas.On("Save", ctx, mock.AnythingOfType("*branch.ServiceArea")).Return(nil)

		resp, err := f.service.Create(ctx, tenantID, CreateServiceAreaRequest{Pincode: " 560 102 ", BranchID: b.ID, Locality: "HSR"})

		require.NoError(t, err)
		assert.Equal(t, "560102", resp.Pincode)
		assert.True(t, resp.Active)
	})

	t.Run("pincode already mapped to another branch", func(t *testing.T) {
		f := newAreaFixture()
		b := newTestBranch(t, tenantID, "HSR")
		other := newTestArea(t, tenantID, uuid.New(), "560102")
		f.branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)
		f.areas.On("FindByPincode", ctx, tenantID, "560102").Return(other, nil)

		_, err := f.service.Create(ctx, tenantID, CreateServiceAreaRequest{Pincode: "560102", BranchID: b.ID})

		assert.ErrorIs(t, err, branch.ErrPincodeAlreadyMapped)
		f.areas.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unique index race surfaces the same error", func(t *testing.T) {
		f := newAreaFixture()
		b := newTestBranch(t, tenantID, "HSR")
		f.branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)
		f.areas.On("FindByPincode", ctx, tenantID, "560102").Return(nil, shared.NotFound("Service area"))
		f.areas.On("Save", ctx, mock.Anything).Return(branch.ErrPincodeAlreadyMapped)

		_, err := f.service.Create(ctx, tenantID, CreateServiceAreaRequest{Pincode: "560102", BranchID: b.ID})

		assert.ErrorIs(t, err, branch.ErrPincodeAlreadyMapped)
	})

	t.Run("unknown branch", func(t *testing.T) {
		f := newAreaFixture()
		branchID := uuid.New()
		f.branches.On("FindByIDForTenant", ctx, tenantID, branchID).Return(nil, shared.NotFound("Branch"))

		_, err := f.service.Create(ctx, tenantID, CreateServiceAreaRequest{Pincode: "560102", BranchID: branchID})

		assert.True(t, shared.IsNotFound(err))
	})
}

func TestServiceAreaService_Reassign(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	f := newAreaFixture()
	from := newTestBranch(t, tenantID, "HSR")
	to := newTestBranch(t, tenantID, "KOR")
	area := newTestArea(t, tenantID, from.ID, "560102")
	f.areas.On("FindByIDForTenant", ctx, tenantID, area.ID).Return(area, nil)
	f.branches.On("FindByIDForTenant", ctx, tenantID, to.ID).Return(to, nil)
	f.areas.On("Save", ctx, area).Return(nil)

	resp, err := f.service.Reassign(ctx, tenantID, area.ID, ReassignServiceAreaRequest{BranchID: to.ID})

	require.NoError(t, err)
	assert.Equal(t, to.ID, resp.BranchID)
	require.Len(t, f.publisher.Events(), 1)
	event := f.publisher.Events()[0].(*branch.ServiceAreaReassignedEvent)
	assert.Equal(t, from.ID, event.FromBranchID)
	assert.Equal(t, to.ID, event.ToBranchID)
}

func TestServiceAreaService_ResolvePincode(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("resolves to the active branch", func(t *testing.T) {
		f := newAreaFixture()
		b := newTestBranch(t, tenantID, "HSR")
		area := newTestArea(t, tenantID, b.ID, "560102")
		f.areas.On("FindByPincode", ctx, tenantID, "560102").Return(area, nil)
		f.branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)

		resp, err := f.service.ResolvePincode(ctx, tenantID, "560102")

		require.NoError(t, err)
		assert.Equal(t, b.ID, resp.BranchID)
		assert.Equal(t, "HSR", resp.BranchCode)
	})

	t.Run("unmapped pincode", func(t *testing.T) {
		f := newAreaFixture()
		f.areas.On("FindByPincode", ctx, tenantID, "110001").Return(nil, shared.NotFound("Service area"))

		_, err := f.service.ResolvePincode(ctx, tenantID, "110001")

		assert.ErrorIs(t, err, branch.ErrPincodeNotServiceable)
	})

	t.Run("inactive mapping", func(t *testing.T) {
		f := newAreaFixture()
		area := newTestArea(t, tenantID, uuid.New(), "560102")
		require.NoError(t, area.Update("", false))
		f.areas.On("FindByPincode", ctx, tenantID, "560102").Return(area, nil)

		_, err := f.service.ResolvePincode(ctx, tenantID, "560102")

		assert.ErrorIs(t, err, branch.ErrPincodeNotServiceable)
	})

	t.Run("inactive branch", func(t *testing.T) {
		f := newAreaFixture()
		b := newTestBranch(t, tenantID, "HSR")
		require.NoError(t, b.Deactivate())
		area := newTestArea(t, tenantID, b.ID, "560102")
		f.areas.On("FindByPincode", ctx, tenantID, "560102").Return(area, nil)
		f.branches.On("FindByIDForTenant", ctx, tenantID, b.ID).Return(b, nil)

		_, err := f.service.ResolvePincode(ctx, tenantID, "560102")

		assert.ErrorIs(t, err, branch.ErrPincodeNotServiceable)
	})

	t.Run("malformed pincode", func(t *testing.T) {
		f := newAreaFixture()

		_, err := f.service.ResolvePincode(ctx, tenantID, "12ab")

		require.Error(t, err)
		f.areas.AssertNotCalled(t, "FindByPincode", mock.Anything, mock.Anything, mock.Anything)
	})
}
