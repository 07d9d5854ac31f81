package cycle

import (
	"context"
	"fmt"
	"sync"

	"stock-sync/core/events"
	"stock-sync/core/inventory"
	"stock-sync/core/sku"
	"stock-sync/feature/report"
)

type memCatalog struct {
	mu       sync.Mutex
	products []inventory.Product
	listErr  error
	writes   int
	// afterStock runs after each stock write.
	afterStock func()
}

func (c *memCatalog) ListProducts(context.Context, bool) ([]inventory.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]inventory.Product(nil), c.products...), nil
}

func (c *memCatalog) FindBySku(_ context.Context, s string) (inventory.Unit, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, u := range inventory.SellableUnits(c.products) {
		if sku.Equal(u.SKU, s) {
			return u, true, nil
		}
	}
	return inventory.Unit{}, false, nil
}

func (c *memCatalog) UpdateStock(ctx context.Context, s string, qty int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if sku.Equal(c.products[i].SKU, s) {
			c.products[i].Stock = inventory.IntPtr(qty)
			c.writes++
			if c.afterStock != nil {
				c.afterStock()
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", inventory.ErrNotFound, s)
}

func (c *memCatalog) UpdateFields(_ context.Context, s string, fields map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if sku.Equal(c.products[i].SKU, s) {
			if v, ok := fields["sku"].(string); ok {
				c.products[i].SKU = v
				c.products[i].GeneratedSKU = false
			}
			c.writes++
			return nil
		}
	}
	return fmt.Errorf("%w: %s", inventory.ErrNotFound, s)
}

func (c *memCatalog) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

type memRecords struct {
	mu      sync.Mutex
	records []inventory.InventoryRecord
	listErr error
	writes  int
}

func (r *memRecords) ListAll(context.Context) ([]inventory.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]inventory.InventoryRecord(nil), r.records...), nil
}

func (r *memRecords) FindBySku(_ context.Context, s string) (inventory.InventoryRecord, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if sku.Equal(rec.SKU, s) {
			return rec, true, nil
		}
	}
	return inventory.InventoryRecord{}, false, nil
}

func (r *memRecords) UpdateStock(_ context.Context, pageID string, stock int, meta inventory.RecordMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].PageID == pageID {
			r.records[i].Stock = inventory.IntPtr(stock)
			applyMeta(&r.records[i], meta)
			r.writes++
			return nil
		}
	}
	return fmt.Errorf("%w: %s", inventory.ErrNotFound, pageID)
}

func (r *memRecords) Create(_ context.Context, fields inventory.RecordFields) (inventory.InventoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := inventory.InventoryRecord{
		PageID: fmt.Sprintf("page-%d", len(r.records)+1),
		SKU:    fields.SKU,
		Name:   fields.Name,
		Stock:  inventory.IntPtr(fields.Stock),
	}
	applyMeta(&rec, fields.Meta)
	r.records = append(r.records, rec)
	r.writes++
	return rec, nil
}

func applyMeta(rec *inventory.InventoryRecord, meta inventory.RecordMeta) {
	if meta.Brand != "" {
		rec.Brand = meta.Brand
	}
	if meta.Category != "" {
		rec.Category = meta.Category
	}
	if f, ok := meta.PriceFloat(); ok {
		rec.Price = &f
	}
}

type memPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *memPublisher) Publish(_ context.Context, evs ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

func (p *memPublisher) Close() error { return nil }

func (p *memPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type memRecorder struct {
	mu      sync.Mutex
	reports []report.Report
}

func (r *memRecorder) Record(_ context.Context, rep report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	return nil
}

func (r *memRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

type stubLocker struct {
	acquired bool
	err      error
	releases int
}

func (l *stubLocker) Acquire(context.Context) (bool, error) { return l.acquired, l.err }

func (l *stubLocker) Release(context.Context) error {
	l.releases++
	return nil
}
