package reconcile

import (
	"strings"

	"stock-sync/core/inventory"
)

var (
	brandMetaTokens      = []string{"brand", "marca", "marchio", "marchi", "manufacturer"}
	brandAttributeTokens = append(append([]string{}, brandMetaTokens...), "produttore")
)

// DeriveBrand returns the first non-empty brand found on the product: the
// brand taxonomy, then brand-like meta keys, then brand-like attributes.
func DeriveBrand(p inventory.Product) string {
	for _, b := range p.Brands {
		if b = strings.TrimSpace(b); b != "" {
			return b
		}
	}
	for _, m := range p.Meta {
		if containsToken(m.Key, brandMetaTokens) {
			if v := strings.TrimSpace(m.Value); v != "" {
				return v
			}
		}
	}
	return brandFromAttributes(p.Attributes)
}

// DeriveCategory returns the first category name. Records hold one category.
func DeriveCategory(p inventory.Product) string {
	if len(p.Categories) == 0 {
		return ""
	}
	return strings.TrimSpace(p.Categories[0])
}

func brandFromAttributes(attrs []inventory.Attribute) string {
	for _, a := range attrs {
		if containsToken(a.Name, brandAttributeTokens) {
			if v := strings.TrimSpace(a.Value()); v != "" {
				return v
			}
		}
	}
	return ""
}

func containsToken(s string, tokens []string) bool {
	s = strings.ToLower(s)
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// unitBrand derives the brand of a unit from its parent product, falling back
// to the unit's own attributes.
func unitBrand(u inventory.Unit) string {
	if u.Parent != nil {
		if b := DeriveBrand(*u.Parent); b != "" {
			return b
		}
	}
	return brandFromAttributes(u.Attributes)
}

func unitCategory(u inventory.Unit) string {
	if u.Parent == nil {
		return ""
	}
	return DeriveCategory(*u.Parent)
}
