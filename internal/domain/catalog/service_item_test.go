package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceItem(t *testing.T) {
	tenantID := uuid.New()

	s, err := NewServiceItem(tenantID, "wf-kg", "Wash & Fold", CategoryWashFold, PricingPerKg, decimal.RequireFromString("79.999"))
	require.NoError(t, err)
	assert.Equal(t, "WF-KG", s.Code)
	assert.True(t, s.UnitPrice.Equal(decimal.NewFromInt(80)))
	assert.True(t, s.Active)

	_, err = NewServiceItem(tenantID, "x", "Wash", CategoryWashFold, PricingPerKg, decimal.NewFromInt(10))
	assert.Error(t, err)
	_, err = NewServiceItem(tenantID, "WF", "Wash", Category("bleach"), PricingPerKg, decimal.NewFromInt(10))
	assert.Error(t, err)
	_, err = NewServiceItem(tenantID, "WF", "Wash", CategoryWashFold, PricingUnit("per_bag"), decimal.NewFromInt(10))
	assert.Error(t, err)
	_, err = NewServiceItem(tenantID, "WF", "Wash", CategoryWashFold, PricingPerKg, decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestServiceItem_UpdateAndStatus(t *testing.T) {
	s, err := NewServiceItem(uuid.New(), "DC-SHIRT", "Dry clean shirt", CategoryDryClean, PricingPerItem, decimal.NewFromInt(120))
	require.NoError(t, err)

	require.NoError(t, s.Update("Dry clean shirt", "Per piece", CategoryDryClean, PricingPerItem, decimal.NewFromInt(130), 3))
	assert.True(t, s.UnitPrice.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, 3, s.SortOrder)
	assert.Equal(t, 2, s.Version)

	require.NoError(t, s.Deactivate())
	assert.Error(t, s.Deactivate())
	require.NoError(t, s.Activate())
	assert.Error(t, s.Activate())
}
