package branch

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBranch(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalizes code and derives invoice prefix", func(t *testing.T) {
		b, err := NewBranch(tenantID, " blr-01 ", "Bengaluru Central")
		require.NoError(t, err)
		assert.Equal(t, "BLR-01", b.Code)
		assert.Equal(t, "BLR01", b.InvoicePrefix)
		assert.True(t, b.IsActive())
		assert.Len(t, b.GetDomainEvents(), 1)
	})

	t.Run("rejects bad code and name", func(t *testing.T) {
		_, err := NewBranch(tenantID, "x", "Name")
		assert.Error(t, err)
		_, err = NewBranch(tenantID, "BLR", "  ")
		assert.Error(t, err)
	})
}

func TestBranch_Update(t *testing.T) {
	b, err := NewBranch(uuid.New(), "BLR", "Bengaluru")
	require.NoError(t, err)

	require.NoError(t, b.Update("Bengaluru Central", "1 MG Road", "Bengaluru", "KA", "560001", "080-1234", "BLR@Example.com"))
	assert.Equal(t, "560001", b.Pincode)
	assert.Equal(t, "blr@example.com", b.Email)
	assert.Equal(t, 2, b.Version)

	assert.Error(t, b.Update("Bengaluru", "", "", "", "12", "", ""))
}

func TestBranch_SetInvoiceDetails(t *testing.T) {
	b, err := NewBranch(uuid.New(), "BLR", "Bengaluru")
	require.NoError(t, err)

	require.NoError(t, b.SetInvoiceDetails("29abcde1234f1z5", "blrc", "Thank you"))
	assert.Equal(t, "29ABCDE1234F1Z5", b.TaxID)
	assert.Equal(t, "BLRC", b.InvoicePrefix)

	require.NoError(t, b.SetInvoiceDetails("", "", ""))
	assert.Equal(t, "BLR", b.InvoicePrefix)

	assert.Error(t, b.SetInvoiceDetails("", "B-1", ""))
}

func TestBranch_Status(t *testing.T) {
	b, err := NewBranch(uuid.New(), "BLR", "Bengaluru")
	require.NoError(t, err)

	assert.Error(t, b.Activate())
	require.NoError(t, b.Deactivate())
	assert.False(t, b.IsActive())
	assert.Error(t, b.Deactivate())
	require.NoError(t, b.Activate())
	assert.True(t, b.IsActive())
}

func TestServiceArea(t *testing.T) {
	tenantID := uuid.New()
	branchA := uuid.New()
	branchB := uuid.New()

	area, err := NewServiceArea(tenantID, branchA, "560 001", "MG Road")
	require.NoError(t, err)
	assert.Equal(t, "560001", area.Pincode)
	assert.True(t, area.Active)

	_, err = NewServiceArea(tenantID, uuid.Nil, "560001", "")
	assert.Error(t, err)
	_, err = NewServiceArea(tenantID, branchA, "abc", "")
	assert.Error(t, err)

	assert.Error(t, area.Reassign(branchA))
	require.NoError(t, area.Reassign(branchB))
	assert.Equal(t, branchB, area.BranchID)

	events := area.GetDomainEvents()
	require.Len(t, events, 1)
	ev := events[0].(*ServiceAreaReassignedEvent)
	assert.Equal(t, branchA, ev.FromBranchID)
	assert.Equal(t, branchB, ev.ToBranchID)

	require.NoError(t, area.Update("Brigade Road", false))
	assert.False(t, area.Active)
}

func TestBrandingSettings_Apply(t *testing.T) {
	s := DefaultBrandingSettings(uuid.New())
	assert.Equal(t, DefaultPrimaryColor, s.PrimaryColor)

	err := s.Apply(BrandingUpdate{BusinessName: "Fresh Fold", PrimaryColor: "#00aa11"})
	require.NoError(t, err)
	assert.Equal(t, "Fresh Fold", s.BusinessName)
	assert.Equal(t, "#00AA11", s.PrimaryColor)
	assert.Equal(t, DefaultSecondaryColor, s.SecondaryColor)

	assert.Error(t, s.Apply(BrandingUpdate{BusinessName: ""}))
	assert.Error(t, s.Apply(BrandingUpdate{BusinessName: "X", PrimaryColor: "red"}))

	logo := uuid.New()
	s.SetLogo(logo)
	require.NotNil(t, s.LogoAssetID)
	assert.Equal(t, logo, *s.LogoAssetID)
}
