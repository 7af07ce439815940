package catalog

import (
	"testing"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() ProductDetails {
	return ProductDetails{
		Name:        "Solitaire Ring 1ct",
		Metal:       MetalPlatinum,
		Purity:      "PT950",
		WeightGrams: decimal.NewFromFloat(4.2),
		CostPrice:   decimal.NewFromInt(2400),
		RetailPrice: decimal.NewFromInt(5200),
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("normalizes sku", func(t *testing.T) {
		p, err := NewProduct(" rng-001 ", validDetails())
		require.NoError(t, err)
		assert.Equal(t, "RNG-001", p.SKU)
		assert.True(t, p.IsSellable())
	})

	t.Run("defaults metal to other", func(t *testing.T) {
		d := validDetails()
		d.Metal = ""
		p, err := NewProduct("RNG-002", d)
		require.NoError(t, err)
		assert.Equal(t, MetalOther, p.Metal)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		cases := map[string]func(d *ProductDetails){
			"INVALID_NAME":   func(d *ProductDetails) { d.Name = "" },
			"INVALID_METAL":  func(d *ProductDetails) { d.Metal = "bronze" },
			"INVALID_WEIGHT": func(d *ProductDetails) { d.WeightGrams = decimal.NewFromInt(-1) },
			"INVALID_PRICE":  func(d *ProductDetails) { d.RetailPrice = decimal.NewFromInt(-5) },
		}
		for code, mutate := range cases {
			d := validDetails()
			mutate(&d)
			_, err := NewProduct("RNG-003", d)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de, code)
			assert.Equal(t, code, de.Code)
		}
		_, err := NewProduct("", validDetails())
		assert.Error(t, err)
	})
}

func TestProduct_Discontinue(t *testing.T) {
	p, err := NewProduct("NCK-010", validDetails())
	require.NoError(t, err)

	require.NoError(t, p.Discontinue())
	assert.False(t, p.IsSellable())
	assert.Error(t, p.Discontinue())
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("rings", "Rings", nil)
	require.NoError(t, err)
	assert.Equal(t, "RINGS", c.Code)

	err = c.Update("Rings", "", &c.ID)
	assert.Error(t, err)

	_, err = NewCategory("", "Rings", nil)
	assert.Error(t, err)
}
