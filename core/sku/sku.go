package sku

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Prefix marks every SKU generated for a catalog unit without a business SKU.
const Prefix = "ADIVO-"

// ErrMalformedIdentity is returned when a SKU does not follow the generated pattern.
var ErrMalformedIdentity = errors.New("malformed synthetic sku")

var syntheticPattern = regexp.MustCompile(`(?i)^ADIVO-(\d+)(?:-V(\d+))?$`)

// Key is a normalized SKU, the only identity shared by the catalog and the records.
type Key string

// String returns the key as plain text.
func (k Key) String() string {
	return string(k)
}

// Generate builds the synthetic SKU for a product, or for one of its variants
// when variantID is positive.
func Generate(productID, variantID int64) string {
	if variantID > 0 {
		return fmt.Sprintf("%s%d-V%d", Prefix, productID, variantID)
	}
	return fmt.Sprintf("%s%d", Prefix, productID)
}

// Normalize trims and case-folds a SKU. The boolean is false when nothing is
// left after trimming; the empty key is never a valid identity.
func Normalize(s string) (Key, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}
	// A Caser keeps state, so each call gets its own.
	return Key(cases.Fold().String(trimmed)), true
}

// Equal reports whether two SKUs resolve to the same identity.
func Equal(a, b string) bool {
	ka, ok := Normalize(a)
	if !ok {
		return false
	}
	kb, ok := Normalize(b)
	return ok && ka == kb
}

// IsSynthetic reports whether s has the generated shape.
func IsSynthetic(s string) bool {
	_, _, err := ParseSynthetic(s)
	return err == nil
}

// ParseSynthetic decodes a generated SKU. variantID is zero for plain products.
func ParseSynthetic(s string) (productID, variantID int64, err error) {
	m := syntheticPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedIdentity, s)
	}

	productID, err = strconv.ParseInt(m[1], 10, 64)
	if err != nil || productID <= 0 {
		return 0, 0, fmt.Errorf("%w: bad product id in %q", ErrMalformedIdentity, s)
	}

	if m[2] != "" {
		variantID, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil || variantID <= 0 {
			return 0, 0, fmt.Errorf("%w: bad variant id in %q", ErrMalformedIdentity, s)
		}
	}

	return productID, variantID, nil
}
