package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePincode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"560001", "560001", false},
		{" 560 001 ", "560001", false},
		{"060001", "", true},
		{"56001", "", true},
		{"56000a", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePincode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPostalAddress(t *testing.T) {
	addr, err := NewPostalAddress(" 12 MG Road ", "Flat 4", "Bengaluru", "KA", "560001")
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", addr.Line1)
	assert.Equal(t, "12 MG Road, Flat 4, Bengaluru, KA - 560001", addr.String())
	assert.False(t, addr.IsZero())

	_, err = NewPostalAddress("", "", "Bengaluru", "KA", "560001")
	assert.Error(t, err)

	_, err = NewPostalAddress("12 MG Road", "", "", "KA", "560001")
	assert.Error(t, err)

	_, err = NewPostalAddress("12 MG Road", "", "Bengaluru", "KA", "12")
	assert.Error(t, err)

	assert.True(t, PostalAddress{}.IsZero())
}

func TestRounding(t *testing.T) {
	assert.True(t, RoundMoney(decimal.RequireFromString("10.005")).Equal(decimal.RequireFromString("10.01")))
	assert.True(t, RoundMoney(decimal.RequireFromString("-10.005")).Equal(decimal.RequireFromString("-10.01")))
	assert.True(t, RoundWeight(decimal.RequireFromString("2.34567")).Equal(decimal.RequireFromString("2.346")))
	assert.True(t, Percent(decimal.NewFromInt(250), decimal.NewFromInt(18)).Equal(decimal.NewFromInt(45)))
}
