package reconcile

import (
	"context"

	"stock-sync/core/inventory"
)

// CatalogGateway is typed access to the commerce catalog.
//
// Lookups report a missing unit through the boolean result, never through an
// error. Errors are reserved for transport and parse failures.
type CatalogGateway interface {
	// ListProducts returns every product. When includeVariants is true each
	// variable product carries its variants.
	ListProducts(ctx context.Context, includeVariants bool) ([]inventory.Product, error)

	// FindBySku resolves a product or variant. Generated SKUs are decoded
	// directly; anything else goes through an exact SKU query.
	FindBySku(ctx context.Context, sku string) (inventory.Unit, bool, error)

	// UpdateStock sets the absolute stock of the unit behind sku.
	UpdateStock(ctx context.Context, sku string, quantity int) error

	// UpdateFields writes arbitrary catalog fields on the unit behind sku.
	UpdateFields(ctx context.Context, sku string, fields map[string]any) error
}

// RecordGateway is typed access to the record database.
type RecordGateway interface {
	// ListAll follows the cursor until every record is read.
	ListAll(ctx context.Context) ([]inventory.InventoryRecord, error)

	// FindBySku tries an exact server-side filter first and falls back to a
	// scan comparing normalized SKUs.
	FindBySku(ctx context.Context, sku string) (inventory.InventoryRecord, bool, error)

	// UpdateStock writes the stock and any non-empty metadata of a record.
	UpdateStock(ctx context.Context, pageID string, stock int, meta inventory.RecordMeta) error

	// Create inserts a new record.
	Create(ctx context.Context, fields inventory.RecordFields) (inventory.InventoryRecord, error)
}
