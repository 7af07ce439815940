package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	s, err := NewSupplier("aurum", SupplierContact{
		Name:             "Aurum Castings",
		Email:            "Orders@Aurum.example",
		PaymentTermsDays: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, "AURUM", s.Code)
	assert.Equal(t, "orders@aurum.example", s.Email)
	assert.True(t, s.IsActive)

	_, err = NewSupplier("X", SupplierContact{Name: "X", Email: "nope"})
	assert.Error(t, err)

	_, err = NewSupplier("X", SupplierContact{Name: "X", PaymentTermsDays: 400})
	assert.Error(t, err)
}

func TestSupplier_Deactivate(t *testing.T) {
	s, err := NewSupplier("GEM", SupplierContact{Name: "Gem House"})
	require.NoError(t, err)

	require.NoError(t, s.Deactivate())
	assert.False(t, s.IsActive)
	assert.Error(t, s.Deactivate())
}
