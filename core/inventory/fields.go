package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RecordMeta is the metadata the catalog owns on a record. Empty values are
// left untouched on write.
type RecordMeta struct {
	Brand    string
	Price    *decimal.Decimal
	Category string
}

// Differs reports whether writing m would change r.
func (m RecordMeta) Differs(r InventoryRecord) bool {
	if m.Brand != "" && m.Brand != strings.TrimSpace(r.Brand) {
		return true
	}
	if m.Category != "" && m.Category != strings.TrimSpace(r.Category) {
		return true
	}
	if m.Price != nil {
		if r.Price == nil || !decimal.NewFromFloat(*r.Price).Equal(*m.Price) {
			return true
		}
	}
	return false
}

// PriceFloat returns the price as sent to numeric columns.
func (m RecordMeta) PriceFloat() (float64, bool) {
	if m.Price == nil {
		return 0, false
	}
	return m.Price.InexactFloat64(), true
}

// RecordFields is the payload of a new record.
type RecordFields struct {
	Name  string
	SKU   string
	Stock int
	Meta  RecordMeta
}

// ParsePrice reads a catalog price. ok is false for an empty price; an
// unparseable one yields ErrMalformedField.
func ParsePrice(raw string) (price decimal.Decimal, ok bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: price %q", ErrMalformedField, raw)
	}
	return d, true, nil
}
