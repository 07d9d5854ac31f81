package woocommerce

import (
	"strings"

	"stock-sync/core/inventory"
	"stock-sync/core/sku"
	"stock-sync/core/utils"
)

// wireProduct is the REST shape shared by products and variations. Numeric
// fields are decoded loosely because stores and plugins disagree on whether
// prices and stock are strings or numbers.
type wireProduct struct {
	ID            int64           `json:"id"`
	ParentID      int64           `json:"parent_id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	SKU           string          `json:"sku"`
	Price         any             `json:"price"`
	RegularPrice  any             `json:"regular_price"`
	StockQuantity any             `json:"stock_quantity"`
	Categories    []wireTerm      `json:"categories"`
	Brands        []wireTerm      `json:"brands"`
	MetaData      []wireMeta      `json:"meta_data"`
	Attributes    []wireAttribute `json:"attributes"`
}

type wireTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type wireMeta struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type wireAttribute struct {
	Name    string   `json:"name"`
	Option  string   `json:"option"`
	Options []string `json:"options"`
}

func stockOf(raw any) *int {
	if raw == nil {
		return nil
	}
	return inventory.IntPtr(utils.ToInt(raw))
}

func termNames(terms []wireTerm) []string {
	var names []string
	for _, t := range terms {
		if name := strings.TrimSpace(t.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func attributesOf(raw []wireAttribute) []inventory.Attribute {
	if len(raw) == 0 {
		return nil
	}
	attrs := make([]inventory.Attribute, 0, len(raw))
	for _, a := range raw {
		attrs = append(attrs, inventory.Attribute{Name: a.Name, Option: a.Option, Options: a.Options})
	}
	return attrs
}

// price is the sale price, or the regular price when no sale price is set.
func (w wireProduct) price() string {
	if p := strings.TrimSpace(utils.ToString(w.Price)); p != "" {
		return p
	}
	return strings.TrimSpace(utils.ToString(w.RegularPrice))
}

func toProduct(w wireProduct) inventory.Product {
	p := inventory.Product{
		ID:         w.ID,
		SKU:        strings.TrimSpace(w.SKU),
		Name:       w.Name,
		Type:       w.Type,
		Stock:      stockOf(w.StockQuantity),
		Price:      w.price(),
		Status:     w.Status,
		Categories: termNames(w.Categories),
		Brands:     termNames(w.Brands),
		Attributes: attributesOf(w.Attributes),
	}
	if p.Type == "" {
		p.Type = inventory.TypeSimple
	}
	if p.SKU == "" {
		p.SKU = sku.Generate(w.ID, 0)
		p.GeneratedSKU = true
	}
	for _, m := range w.MetaData {
		p.Meta = append(p.Meta, inventory.MetaEntry{Key: m.Key, Value: utils.ToString(m.Value)})
	}
	return p
}

func toVariant(productID int64, w wireProduct) inventory.Variant {
	v := inventory.Variant{
		ID:         w.ID,
		ProductID:  productID,
		SKU:        strings.TrimSpace(w.SKU),
		Name:       w.Name,
		Stock:      stockOf(w.StockQuantity),
		Price:      w.price(),
		Status:     w.Status,
		Attributes: attributesOf(w.Attributes),
	}
	if v.SKU == "" {
		v.SKU = sku.Generate(productID, w.ID)
		v.GeneratedSKU = true
	}
	return v
}

// variationUnit builds a unit from a single variation lookup, without the
// parent listing.
func variationUnit(productID int64, w wireProduct) inventory.Unit {
	v := toVariant(productID, w)
	unit := inventory.VariantUnit(inventory.Product{ID: productID}, v)
	unit.Parent = nil
	return unit
}
