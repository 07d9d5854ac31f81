package reconcile

import (
	"context"
	"fmt"

	"stock-sync/core/inventory"
	"stock-sync/core/sku"
)

// fakeCatalog keeps products in memory and counts writes.
type fakeCatalog struct {
	products    []inventory.Product
	listErr     error
	findErr     map[string]error
	updateErr   map[string]error
	fieldsErr   error
	stockWrites []stockWrite
	fieldWrites []fieldWrite
	onFind      func(sku string)
}

type stockWrite struct {
	SKU   string
	Stock int
}

type fieldWrite struct {
	SKU    string
	Fields map[string]any
}

func (c *fakeCatalog) ListProducts(_ context.Context, _ bool) ([]inventory.Product, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	out := make([]inventory.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p
		out[i].Variants = append([]inventory.Variant(nil), p.Variants...)
	}
	return out, nil
}

func (c *fakeCatalog) FindBySku(ctx context.Context, s string) (inventory.Unit, bool, error) {
	if c.onFind != nil {
		c.onFind(s)
	}
	if err := ctx.Err(); err != nil {
		return inventory.Unit{}, false, err
	}
	if err := c.findErr[s]; err != nil {
		return inventory.Unit{}, false, err
	}
	for _, u := range inventory.SellableUnits(c.products) {
		if sku.Equal(u.SKU, s) {
			return u, true, nil
		}
	}
	return inventory.Unit{}, false, nil
}

func (c *fakeCatalog) UpdateStock(ctx context.Context, s string, qty int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.updateErr[s]; err != nil {
		return err
	}
	if !c.mutate(s, func(stock **int, _ *string, _ *bool) { *stock = inventory.IntPtr(qty) }) {
		return fmt.Errorf("%w: %s", inventory.ErrNotFound, s)
	}
	c.stockWrites = append(c.stockWrites, stockWrite{SKU: s, Stock: qty})
	return nil
}

func (c *fakeCatalog) UpdateFields(ctx context.Context, s string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.fieldsErr != nil {
		return c.fieldsErr
	}
	if !c.mutate(s, func(_ **int, skuField *string, generated *bool) {
		if v, ok := fields["sku"].(string); ok {
			*skuField = v
			*generated = false
		}
	}) {
		return fmt.Errorf("%w: %s", inventory.ErrNotFound, s)
	}
	c.fieldWrites = append(c.fieldWrites, fieldWrite{SKU: s, Fields: fields})
	return nil
}

func (c *fakeCatalog) mutate(s string, fn func(stock **int, skuField *string, generated *bool)) bool {
	for i := range c.products {
		p := &c.products[i]
		if p.HasVariants() {
			for j := range p.Variants {
				v := &p.Variants[j]
				if sku.Equal(v.SKU, s) {
					fn(&v.Stock, &v.SKU, &v.GeneratedSKU)
					return true
				}
			}
			continue
		}
		if sku.Equal(p.SKU, s) {
			fn(&p.Stock, &p.SKU, &p.GeneratedSKU)
			return true
		}
	}
	return false
}

func (c *fakeCatalog) stockOf(s string) int {
	for _, u := range inventory.SellableUnits(c.products) {
		if sku.Equal(u.SKU, s) {
			return u.StockValue()
		}
	}
	return -1
}

// fakeRecords keeps records in memory and counts writes.
type fakeRecords struct {
	records   []inventory.InventoryRecord
	listErr   error
	createErr map[string]error
	onFind    func(sku string)
	updates   int
	creates   int
	nextID    int
}

func (r *fakeRecords) ListAll(_ context.Context) ([]inventory.InventoryRecord, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]inventory.InventoryRecord(nil), r.records...), nil
}

func (r *fakeRecords) FindBySku(ctx context.Context, s string) (inventory.InventoryRecord, bool, error) {
	if r.onFind != nil {
		r.onFind(s)
	}
	if err := ctx.Err(); err != nil {
		return inventory.InventoryRecord{}, false, err
	}
	for _, rec := range r.records {
		if sku.Equal(rec.SKU, s) {
			return rec, true, nil
		}
	}
	return inventory.InventoryRecord{}, false, nil
}

func (r *fakeRecords) UpdateStock(ctx context.Context, pageID string, stock int, meta inventory.RecordMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for i := range r.records {
		if r.records[i].PageID != pageID {
			continue
		}
		r.records[i].Stock = inventory.IntPtr(stock)
		applyMeta(&r.records[i], meta)
		r.updates++
		return nil
	}
	return fmt.Errorf("page %s: %w", pageID, inventory.ErrNotFound)
}

func (r *fakeRecords) Create(ctx context.Context, fields inventory.RecordFields) (inventory.InventoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return inventory.InventoryRecord{}, err
	}
	if err := r.createErr[fields.SKU]; err != nil {
		return inventory.InventoryRecord{}, err
	}
	r.nextID++
	rec := inventory.InventoryRecord{
		PageID: fmt.Sprintf("page-%d", r.nextID),
		SKU:    fields.SKU,
		Stock:  inventory.IntPtr(fields.Stock),
		Name:   fields.Name,
	}
	applyMeta(&rec, fields.Meta)
	r.records = append(r.records, rec)
	r.creates++
	return rec, nil
}

func (r *fakeRecords) find(s string) (inventory.InventoryRecord, bool) {
	for _, rec := range r.records {
		if sku.Equal(rec.SKU, s) {
			return rec, true
		}
	}
	return inventory.InventoryRecord{}, false
}

func (r *fakeRecords) count(s string) int {
	n := 0
	for _, rec := range r.records {
		if sku.Equal(rec.SKU, s) {
			n++
		}
	}
	return n
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
