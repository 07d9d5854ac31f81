package notion

import (
	"context"
	"sync"
	"time"

	"stock-sync/core/inventory"
	"stock-sync/core/sku"

	"golang.org/x/sync/singleflight"
)

// index holds the last full listing keyed by normalized SKU. It answers the
// scan fallback of FindBySku without re-reading the whole database for every
// unit of a cycle.
type index struct {
	mu    sync.RWMutex
	bySKU map[sku.Key]inventory.InventoryRecord
	built time.Time
	ttl   time.Duration
	now   func() time.Time
	sf    singleflight.Group
}

func newIndex(ttl time.Duration) *index {
	return &index{ttl: ttl, now: time.Now}
}

// fresh reports whether the index can answer lookups. A zero TTL disables it.
func (i *index) fresh() bool {
	if i.ttl == 0 || i.bySKU == nil {
		return false
	}
	return i.now().Sub(i.built) <= i.ttl
}

// store replaces the index. The first record of a SKU wins.
func (i *index) store(records []inventory.InventoryRecord) {
	bySKU := make(map[sku.Key]inventory.InventoryRecord, len(records))
	for _, r := range records {
		key, ok := sku.Normalize(r.SKU)
		if !ok {
			continue
		}
		if _, dup := bySKU[key]; !dup {
			bySKU[key] = r
		}
	}

	i.mu.Lock()
	i.bySKU = bySKU
	i.built = i.now()
	i.mu.Unlock()
}

// put adds or replaces one record in a built index.
func (i *index) put(r inventory.InventoryRecord) {
	key, ok := sku.Normalize(r.SKU)
	if !ok {
		return
	}
	i.mu.Lock()
	if i.bySKU != nil {
		i.bySKU[key] = r
	}
	i.mu.Unlock()
}

// update applies fn to the record with the given page id.
func (i *index) update(pageID string, fn func(*inventory.InventoryRecord)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for key, r := range i.bySKU {
		if r.PageID == pageID {
			fn(&r)
			i.bySKU[key] = r
			return
		}
	}
}

// invalidate drops the index after a write whose outcome is unknown, so the
// next scan reads the database again.
func (i *index) invalidate() {
	i.mu.Lock()
	i.bySKU = nil
	i.mu.Unlock()
}

// lookup finds key, rebuilding the index through load when it is stale.
// Concurrent rebuilds share one load.
func (i *index) lookup(ctx context.Context, key sku.Key, load func(context.Context) ([]inventory.InventoryRecord, error)) (inventory.InventoryRecord, bool, error) {
	i.mu.RLock()
	if i.fresh() {
		r, ok := i.bySKU[key]
		i.mu.RUnlock()
		return r, ok, nil
	}
	i.mu.RUnlock()

	_, err, _ := i.sf.Do("records", func() (interface{}, error) {
		i.mu.RLock()
		ok := i.fresh()
		i.mu.RUnlock()
		if ok {
			return nil, nil
		}

		records, err := load(ctx)
		if err != nil {
			return nil, err
		}
		i.store(records)
		return nil, nil
	})
	if err != nil {
		return inventory.InventoryRecord{}, false, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	r, ok := i.bySKU[key]
	return r, ok, nil
}
