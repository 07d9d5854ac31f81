package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"stock-sync/core/inventory"
	"stock-sync/core/reconcile"
	"stock-sync/core/retry"
	"stock-sync/core/sku"

	"go.uber.org/zap"
)

const pageSize = 100

var _ reconcile.RecordGateway = (*Records)(nil)

// Records exposes the inventory database as a reconcile.RecordGateway.
type Records struct {
	client *Client
	index  *index
	logger *zap.Logger
}

// NewRecords creates a gateway over client.
func NewRecords(client *Client) *Records {
	return &Records{
		client: client,
		index:  newIndex(client.cfg.indexTTL()),
		logger: client.logger,
	}
}

func (r *Records) queryPath() string {
	return fmt.Sprintf("databases/%s/query", r.client.cfg.DatabaseID)
}

// ListAll follows the cursor until every record is read. Archived pages are
// skipped.
func (r *Records) ListAll(ctx context.Context) ([]inventory.InventoryRecord, error) {
	var (
		records []inventory.InventoryRecord
		cursor  string
	)

	for {
		var resp queryResponse
		req := queryRequest{StartCursor: cursor, PageSize: pageSize}
		if err := r.client.call(ctx, retry.Op{Kind: retry.Read}, http.MethodPost, r.queryPath(), req, &resp); err != nil {
			return nil, fmt.Errorf("query records: %w", err)
		}

		for _, pg := range resp.Results {
			if pg.Archived {
				continue
			}
			records = append(records, toRecord(pg))
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	r.index.store(records)
	r.logger.Debug("Listed records", zap.Int("count", len(records)))
	return records, nil
}

// FindBySku asks the database for an exact SKU match first. When that finds
// nothing or fails, it scans all records comparing normalized SKUs.
func (r *Records) FindBySku(ctx context.Context, raw string) (inventory.InventoryRecord, bool, error) {
	key, ok := sku.Normalize(raw)
	if !ok {
		return inventory.InventoryRecord{}, false, nil
	}
	value := strings.TrimSpace(raw)

	var resp queryResponse
	err := r.client.call(ctx, retry.Op{Kind: retry.Read}, http.MethodPost, r.queryPath(), exactQuery(value), &resp)
	if err == nil {
		if rec, found := firstLive(resp.Results); found {
			return rec, true, nil
		}
		r.logger.Info("Exact SKU query missed, scanning records", zap.String("sku", value))
	} else {
		if ctx.Err() != nil {
			return inventory.InventoryRecord{}, false, ctx.Err()
		}
		r.logger.Warn("Exact SKU query failed, scanning records",
			zap.String("sku", value),
			zap.Error(err))
	}

	rec, found, err := r.index.lookup(ctx, key, r.ListAll)
	if err != nil {
		return inventory.InventoryRecord{}, false, fmt.Errorf("scan records for %q: %w", value, err)
	}
	if found {
		r.logger.Debug("Record matched by normalized SKU",
			zap.String("sku", value),
			zap.String("stored_sku", rec.SKU))
	}
	return rec, found, nil
}

func exactQuery(value string) queryRequest {
	return queryRequest{
		Filter:   &filter{Property: PropSKU, RichText: textFilter{Equals: value}},
		PageSize: pageSize,
	}
}

func firstLive(pages []page) (inventory.InventoryRecord, bool) {
	for _, pg := range pages {
		if !pg.Archived {
			return toRecord(pg), true
		}
	}
	return inventory.InventoryRecord{}, false
}

// UpdateStock writes the stock and the non-empty parts of meta.
func (r *Records) UpdateStock(ctx context.Context, pageID string, stock int, meta inventory.RecordMeta) error {
	props := map[string]any{PropStock: map[string]any{"number": stock}}
	metaProperties(props, meta)

	path := "pages/" + pageID
	if err := r.client.call(ctx, retry.Op{Kind: retry.Write}, http.MethodPatch, path, map[string]any{"properties": props}, nil); err != nil {
		r.index.invalidate()
		return fmt.Errorf("update record %s: %w", pageID, err)
	}

	r.index.update(pageID, func(rec *inventory.InventoryRecord) {
		rec.Stock = inventory.IntPtr(stock)
		if meta.Brand != "" {
			rec.Brand = meta.Brand
		}
		if price, ok := meta.PriceFloat(); ok {
			rec.Price = &price
		}
		if meta.Category != "" {
			rec.Category = meta.Category
		}
	})
	return nil
}

// Create inserts a record. A retried create first checks whether the failed
// attempt went through, so a lost response never produces a duplicate.
func (r *Records) Create(ctx context.Context, fields inventory.RecordFields) (inventory.InventoryRecord, error) {
	body := map[string]any{
		"parent":     map[string]string{"database_id": r.client.cfg.DatabaseID},
		"properties": createProperties(fields),
	}

	var (
		created page
		rec     inventory.InventoryRecord
	)
	op := retry.Op{
		Kind: retry.Write,
		BeforeRetry: func(ctx context.Context) (bool, error) {
			var resp queryResponse
			if err := r.client.send(ctx, http.MethodPost, r.queryPath(), exactQuery(fields.SKU), &resp); err != nil {
				return false, nil
			}
			existing, found := firstLive(resp.Results)
			if found {
				rec = existing
			}
			return found, nil
		},
	}
	if err := r.client.call(ctx, op, http.MethodPost, "pages", body, &created); err != nil {
		r.index.invalidate()
		return inventory.InventoryRecord{}, fmt.Errorf("create record %q: %w", fields.SKU, err)
	}
	if created.ID != "" {
		rec = toRecord(created)
		if rec.SKU == "" {
			rec.SKU = fields.SKU
		}
	}

	r.index.put(rec)
	r.logger.Debug("Created record",
		zap.String("sku", rec.SKU),
		zap.String("page_id", rec.PageID))
	return rec, nil
}
