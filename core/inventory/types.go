package inventory

import (
	"errors"
	"fmt"
)

// Product types reported by the catalog.
const (
	TypeSimple   = "simple"
	TypeVariable = "variable"
)

// StatusPublish is the catalog status of a product visible in the shop.
const StatusPublish = "publish"

var (
	// ErrMalformedField is returned when a field value cannot be parsed. The
	// field is skipped and processing continues.
	ErrMalformedField = errors.New("malformed field")
	// ErrNotFound is returned by writes addressed to a unit that does not exist.
	ErrNotFound = errors.New("unit not found")
)

// MetaEntry is a free-form key/value pair attached to a catalog product.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attribute is a product or variant attribute. Variants carry a single Option,
// products list their Options.
type Attribute struct {
	Name    string   `json:"name"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Value returns the selected option, or the first listed one.
func (a Attribute) Value() string {
	if a.Option != "" {
		return a.Option
	}
	for _, o := range a.Options {
		if o != "" {
			return o
		}
	}
	return ""
}

// Product is a catalog product. SKU is never empty once a gateway returns it.
type Product struct {
	ID           int64       `json:"id"`
	SKU          string      `json:"sku"`
	GeneratedSKU bool        `json:"generated_sku"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Stock        *int        `json:"stock_quantity"`
	Price        string      `json:"price"`
	Status       string      `json:"status"`
	Categories   []string    `json:"categories,omitempty"`
	Brands       []string    `json:"brands,omitempty"`
	Meta         []MetaEntry `json:"meta,omitempty"`
	Attributes   []Attribute `json:"attributes,omitempty"`
	Variants     []Variant   `json:"variants,omitempty"`
}

// StockValue returns the stock with missing values read as zero.
func (p Product) StockValue() int {
	return intValue(p.Stock)
}

// HasVariants reports whether the product is variable and sells through variants.
func (p Product) HasVariants() bool {
	return p.Type == TypeVariable && len(p.Variants) > 0
}

// Variant is one sellable variation of a variable product.
type Variant struct {
	ID           int64       `json:"id"`
	ProductID    int64       `json:"product_id"`
	SKU          string      `json:"sku"`
	GeneratedSKU bool        `json:"generated_sku"`
	Name         string      `json:"name"`
	Stock        *int        `json:"stock_quantity"`
	Price        string      `json:"price"`
	Status       string      `json:"status"`
	Attributes   []Attribute `json:"attributes,omitempty"`
}

// StockValue returns the stock with missing values read as zero.
func (v Variant) StockValue() int {
	return intValue(v.Stock)
}

// VariantName builds the display name of a variant from its parent and its
// first attribute option.
func VariantName(parent string, attrs []Attribute) string {
	option := "Variant"
	if len(attrs) > 0 && attrs[0].Value() != "" {
		option = attrs[0].Value()
	}
	return fmt.Sprintf("%s - %s", parent, option)
}

// InventoryRecord is one row of the record database.
type InventoryRecord struct {
	PageID   string   `json:"page_id"`
	SKU      string   `json:"sku"`
	Stock    *int     `json:"stock"`
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Price    *float64 `json:"price"`
	Category string   `json:"category"`
}

// StockValue returns the stock with missing values read as zero.
func (r InventoryRecord) StockValue() int {
	return intValue(r.Stock)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
