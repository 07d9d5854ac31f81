package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stock-sync/core/inventory"
	"stock-sync/core/reconcile"
	"stock-sync/core/retry"
	"stock-sync/core/sku"
	"stock-sync/core/utils"

	"go.uber.org/zap"
)

var _ reconcile.CatalogGateway = (*Catalog)(nil)

// Catalog exposes the store's products as a reconcile.CatalogGateway.
type Catalog struct {
	client  *Client
	perPage int
	logger  *zap.Logger
}

// NewCatalog creates a gateway over client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{client: client, perPage: client.cfg.perPage(), logger: client.logger}
}

// ListProducts returns every product page by page. With includeVariants,
// variable products also carry their variations; a product whose variations
// cannot be read is returned without them.
func (c *Catalog) ListProducts(ctx context.Context, includeVariants bool) ([]inventory.Product, error) {
	var products []inventory.Product

	for page := 1; ; page++ {
		var batch []wireProduct
		header, err := c.client.call(ctx, retry.Read, http.MethodGet, "products", c.pageQuery(page), nil, &batch)
		if err != nil {
			return nil, fmt.Errorf("list products page %d: %w", page, err)
		}

		for _, w := range batch {
			p := toProduct(w)
			if includeVariants && p.Type == inventory.TypeVariable {
				variants, err := c.listVariations(ctx, p.ID)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					c.logger.Warn("Failed to list variations",
						zap.Int64("product_id", p.ID),
						zap.Error(err))
				}
				p.Variants = variants
			}
			products = append(products, p)
		}

		if len(batch) < c.perPage || lastPage(header, page) {
			break
		}
	}

	c.logger.Debug("Listed catalog products", zap.Int("count", len(products)))
	return products, nil
}

func (c *Catalog) listVariations(ctx context.Context, productID int64) ([]inventory.Variant, error) {
	var variants []inventory.Variant
	path := fmt.Sprintf("products/%d/variations", productID)

	for page := 1; ; page++ {
		var batch []wireProduct
		header, err := c.client.call(ctx, retry.Read, http.MethodGet, path, c.pageQuery(page), nil, &batch)
		if err != nil {
			return nil, err
		}
		for _, w := range batch {
			variants = append(variants, toVariant(productID, w))
		}
		if len(batch) < c.perPage || lastPage(header, page) {
			return variants, nil
		}
	}
}

func (c *Catalog) pageQuery(page int) url.Values {
	return url.Values{
		"per_page": {strconv.Itoa(c.perPage)},
		"page":     {strconv.Itoa(page)},
	}
}

func lastPage(header http.Header, page int) bool {
	if header == nil {
		return false
	}
	raw := header.Get("X-WP-TotalPages")
	if raw == "" {
		return false
	}
	return page >= utils.ToInt(raw)
}

// FindBySku resolves a SKU to a sellable unit. Generated SKUs are resolved by
// the ids they encode when that unit still carries the SKU; anything else,
// including a generated SKU whose ids do not resolve, goes through the
// store's exact SKU query.
func (c *Catalog) FindBySku(ctx context.Context, raw string) (inventory.Unit, bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return inventory.Unit{}, false, nil
	}

	if productID, variantID, err := sku.ParseSynthetic(value); err == nil {
		unit, found, err := c.findByIDs(ctx, productID, variantID)
		if err != nil && !isClientError(err) {
			return inventory.Unit{}, false, err
		}
		// A unit whose stored SKU was changed no longer owns the generated one.
		if found && sku.Equal(unit.SKU, value) {
			return unit, true, nil
		}
		c.logger.Debug("Generated SKU did not resolve by id",
			zap.String("sku", value),
			zap.Error(err))
	}

	return c.findByQuery(ctx, value)
}

func (c *Catalog) findByIDs(ctx context.Context, productID, variantID int64) (inventory.Unit, bool, error) {
	var w wireProduct

	if variantID == 0 {
		path := fmt.Sprintf("products/%d", productID)
		if _, err := c.client.call(ctx, retry.Read, http.MethodGet, path, nil, nil, &w); err != nil {
			if isNotFound(err) {
				return inventory.Unit{}, false, nil
			}
			return inventory.Unit{}, false, err
		}
		return inventory.ProductUnit(toProduct(w)), true, nil
	}

	path := fmt.Sprintf("products/%d/variations/%d", productID, variantID)
	if _, err := c.client.call(ctx, retry.Read, http.MethodGet, path, nil, nil, &w); err != nil {
		if isNotFound(err) {
			return inventory.Unit{}, false, nil
		}
		return inventory.Unit{}, false, err
	}
	return variationUnit(productID, w), true, nil
}

func (c *Catalog) findByQuery(ctx context.Context, value string) (inventory.Unit, bool, error) {
	var results []wireProduct
	if _, err := c.client.call(ctx, retry.Read, http.MethodGet, "products", url.Values{"sku": {value}}, nil, &results); err != nil {
		if isNotFound(err) {
			return inventory.Unit{}, false, nil
		}
		return inventory.Unit{}, false, fmt.Errorf("query sku %q: %w", value, err)
	}

	for _, w := range results {
		if !sku.Equal(w.SKU, value) {
			continue
		}
		if w.ParentID > 0 {
			return variationUnit(w.ParentID, w), true, nil
		}
		return inventory.ProductUnit(toProduct(w)), true, nil
	}
	return inventory.Unit{}, false, nil
}

// UpdateStock sets the stock quantity of the unit identified by raw.
func (c *Catalog) UpdateStock(ctx context.Context, raw string, quantity int) error {
	return c.UpdateFields(ctx, raw, map[string]any{"stock_quantity": quantity})
}

// UpdateFields writes arbitrary fields on the unit identified by raw.
func (c *Catalog) UpdateFields(ctx context.Context, raw string, fields map[string]any) error {
	unit, found, err := c.FindBySku(ctx, raw)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: sku %q", inventory.ErrNotFound, raw)
	}

	path := unitPath(unit)
	if _, err := c.client.call(ctx, retry.Write, http.MethodPut, path, nil, fields, nil); err != nil {
		return fmt.Errorf("update %s: %w", unit.Ref(), err)
	}

	c.logger.Debug("Updated catalog unit",
		zap.String("ref", unit.Ref()),
		zap.Any("fields", fields))
	return nil
}

func unitPath(u inventory.Unit) string {
	if u.Kind == inventory.KindVariant {
		return fmt.Sprintf("products/%d/variations/%d", u.ProductID, u.VariantID)
	}
	return fmt.Sprintf("products/%d", u.ProductID)
}
