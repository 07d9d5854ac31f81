package inventory

import "fmt"

// Kind tells products and variants apart.
type Kind string

const (
	KindProduct Kind = "product"
	KindVariant Kind = "variant"
)

// Unit is one sellable unit: a simple product, a variable product without
// variants, or a single variant.
type Unit struct {
	Kind         Kind
	ProductID    int64
	VariantID    int64
	SKU          string
	GeneratedSKU bool
	Name         string
	Stock        *int
	Price        string
	Status       string
	Attributes   []Attribute
	// Parent is the owning product. It may be nil for units resolved by a
	// single lookup rather than a full listing.
	Parent *Product
}

// StockValue returns the stock with missing values read as zero.
func (u Unit) StockValue() int {
	return intValue(u.Stock)
}

// Ref identifies the unit inside the catalog, independent of its SKU.
func (u Unit) Ref() string {
	if u.Kind == KindVariant {
		return fmt.Sprintf("variant:%d/%d", u.ProductID, u.VariantID)
	}
	return fmt.Sprintf("product:%d", u.ProductID)
}

// ProductUnit wraps a product that sells on its own.
func ProductUnit(p Product) Unit {
	parent := p
	return Unit{
		Kind:         KindProduct,
		ProductID:    p.ID,
		SKU:          p.SKU,
		GeneratedSKU: p.GeneratedSKU,
		Name:         p.Name,
		Stock:        p.Stock,
		Price:        p.Price,
		Status:       p.Status,
		Attributes:   p.Attributes,
		Parent:       &parent,
	}
}

// VariantUnit wraps one variant of p. An empty variant status inherits the
// parent's.
func VariantUnit(p Product, v Variant) Unit {
	parent := p
	status := v.Status
	if status == "" {
		status = p.Status
	}
	name := v.Name
	if name == "" {
		name = VariantName(p.Name, v.Attributes)
	}
	return Unit{
		Kind:         KindVariant,
		ProductID:    p.ID,
		VariantID:    v.ID,
		SKU:          v.SKU,
		GeneratedSKU: v.GeneratedSKU,
		Name:         name,
		Stock:        v.Stock,
		Price:        v.Price,
		Status:       status,
		Attributes:   v.Attributes,
		Parent:       &parent,
	}
}

// SellableUnits flattens products into units. A variable product with at least
// one variant contributes only its variants.
func SellableUnits(products []Product) []Unit {
	units := make([]Unit, 0, len(products))
	for _, p := range products {
		if !p.HasVariants() {
			units = append(units, ProductUnit(p))
			continue
		}
		for _, v := range p.Variants {
			units = append(units, VariantUnit(p, v))
		}
	}
	return units
}
