package inventory_test

import (
	"testing"

	"stock-sync/core/inventory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellableUnits(t *testing.T) {
	products := []inventory.Product{
		{ID: 1, SKU: "SIMPLE", Type: inventory.TypeSimple, Stock: inventory.IntPtr(4), Status: "publish"},
		{
			ID: 2, SKU: "SHIRT", Name: "Shirt", Type: inventory.TypeVariable, Status: "publish",
			Variants: []inventory.Variant{
				{ID: 21, SKU: "SHIRT-S", Stock: inventory.IntPtr(3), Attributes: []inventory.Attribute{{Name: "Size", Option: "S"}}},
				{ID: 22, SKU: "SHIRT-M", Stock: inventory.IntPtr(0), Name: "Shirt - M", Status: "private"},
			},
		},
		{ID: 3, SKU: "EMPTY-VAR", Type: inventory.TypeVariable},
	}

	units := inventory.SellableUnits(products)
	require.Len(t, units, 4)

	assert.Equal(t, inventory.KindProduct, units[0].Kind)
	assert.Equal(t, "product:1", units[0].Ref())

	assert.Equal(t, inventory.KindVariant, units[1].Kind)
	assert.Equal(t, "variant:2/21", units[1].Ref())
	assert.Equal(t, "Shirt - S", units[1].Name)
	assert.Equal(t, "publish", units[1].Status, "empty variant status inherits the parent")
	require.NotNil(t, units[1].Parent)
	assert.Equal(t, "Shirt", units[1].Parent.Name)

	assert.Equal(t, "private", units[2].Status)
	assert.Equal(t, 0, units[2].StockValue())

	assert.Equal(t, "EMPTY-VAR", units[3].SKU, "variable product without variants syncs as itself")
}

func TestVariantName(t *testing.T) {
	assert.Equal(t, "Shirt - Red", inventory.VariantName("Shirt", []inventory.Attribute{{Option: "Red"}}))
	assert.Equal(t, "Shirt - XL", inventory.VariantName("Shirt", []inventory.Attribute{{Options: []string{"XL", "L"}}}))
	assert.Equal(t, "Shirt - Variant", inventory.VariantName("Shirt", nil))
}

func TestStockValue(t *testing.T) {
	assert.Equal(t, 0, inventory.Product{}.StockValue())
	assert.Equal(t, 7, inventory.InventoryRecord{Stock: inventory.IntPtr(7)}.StockValue())
}

func TestParsePrice(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, ok, err := inventory.ParsePrice(" 19.90 ")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, d.Equal(decimal.RequireFromString("19.9")))
	})

	t.Run("Empty", func(t *testing.T) {
		_, ok, err := inventory.ParsePrice("")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, ok, err := inventory.ParsePrice("12,5 EUR")
		assert.ErrorIs(t, err, inventory.ErrMalformedField)
		assert.False(t, ok)
	})
}

func TestRecordMeta_Differs(t *testing.T) {
	price := decimal.RequireFromString("10.50")
	same := 10.5
	other := 9.0

	meta := inventory.RecordMeta{Brand: "Acme", Price: &price, Category: "Tools"}
	record := inventory.InventoryRecord{Brand: "Acme", Price: &same, Category: "Tools"}

	assert.False(t, meta.Differs(record))

	changed := record
	changed.Price = &other
	assert.True(t, meta.Differs(changed))

	changed = record
	changed.Brand = "Other"
	assert.True(t, meta.Differs(changed))

	changed = record
	changed.Price = nil
	assert.True(t, meta.Differs(changed))

	// Empty catalog metadata never overwrites what the record has.
	assert.False(t, inventory.RecordMeta{}.Differs(changed))

	f, ok := meta.PriceFloat()
	assert.True(t, ok)
	assert.Equal(t, 10.5, f)
}
