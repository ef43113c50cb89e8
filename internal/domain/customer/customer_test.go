package customer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, pincode string) valueobject.PostalAddress {
	t.Helper()
	addr, err := valueobject.NewPostalAddress("12 MG Road", "", "Bengaluru", "KA", pincode)
	require.NoError(t, err)
	return addr
}

func TestNewCustomer(t *testing.T) {
	tenantID := uuid.New()

	c, err := NewCustomer(tenantID, "  Priya  ", "+91 98450-12345", "Priya@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Priya", c.Name)
	assert.Equal(t, "+919845012345", c.Phone)
	assert.Equal(t, "priya@example.com", c.Email)
	assert.True(t, c.IsActive())
	assert.Len(t, c.GetDomainEvents(), 1)

	_, err = NewCustomer(tenantID, "", "9845012345", "")
	assert.Error(t, err)
	_, err = NewCustomer(tenantID, "Priya", "12ab", "")
	assert.Error(t, err)
	_, err = NewCustomer(tenantID, "Priya", "9845012345", "bad")
	assert.Error(t, err)
}

func TestCustomer_Addresses(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Priya", "9845012345", "")
	require.NoError(t, err)

	home, err := c.AddAddress("", testAddress(t, "560001"), false)
	require.NoError(t, err)
	assert.Equal(t, "Home", home.Label)
	assert.True(t, home.IsDefault, "first address becomes the default")
	homeID := home.ID

	office, err := c.AddAddress("Office", testAddress(t, "560002"), false)
	require.NoError(t, err)
	assert.False(t, office.IsDefault)
	officeID := office.ID

	require.NoError(t, c.SetDefaultAddress(officeID))
	assert.Equal(t, officeID, c.DefaultAddress().ID)
	assert.False(t, c.GetAddress(homeID).IsDefault)

	require.NoError(t, c.RemoveAddress(officeID))
	require.Len(t, c.Addresses, 1)
	assert.Equal(t, homeID, c.DefaultAddress().ID, "remaining address is promoted to default")

	assert.Error(t, c.RemoveAddress(uuid.New()))
	assert.Error(t, c.SetDefaultAddress(uuid.New()))
}

func TestCustomer_AddressLimit(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Priya", "9845012345", "")
	require.NoError(t, err)

	for i := 0; i < MaxAddresses; i++ {
		_, err := c.AddAddress("A", testAddress(t, "560001"), false)
		require.NoError(t, err)
	}
	_, err = c.AddAddress("A", testAddress(t, "560001"), false)
	assert.Error(t, err)
}

func TestCustomer_Status(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Priya", "9845012345", "")
	require.NoError(t, err)

	assert.Error(t, c.Activate())
	require.NoError(t, c.Deactivate())
	assert.False(t, c.IsActive())
	require.NoError(t, c.Activate())
}
