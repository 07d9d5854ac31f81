package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-sync/core/inventory"
	"stock-sync/core/metrics"
	"stock-sync/core/sku"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Engine runs reconciliation cycles between a catalog and a record database.
// An Engine holds no state between runs; each Run owns its own Session.
type Engine struct {
	catalog CatalogGateway
	records RecordGateway
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Registry
	tracer  trace.Tracer
	now     func() time.Time
}

// NewEngine creates an engine over the two gateways.
func NewEngine(catalog CatalogGateway, records RecordGateway, opts Options, logger *zap.Logger, m *metrics.Registry) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog: catalog,
		records: records,
		opts:    opts,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("stock-sync/reconcile"),
		now:     time.Now,
	}
}

// Run executes one cycle: both snapshots are read, then record stock is pushed
// onto the catalog, then catalog stock and metadata are pulled onto the
// records.
//
// The returned result is never nil. A store that cannot be listed yields an
// error wrapping ErrStoreUnreachable and no writes. Cancellation is honoured
// between units and returns ctx.Err() with the partial result. A unit that
// has started runs to completion, so a lookup is never left without its
// write or a created record without its SKU back-write.
func (e *Engine) Run(ctx context.Context) (*CycleResult, error) {
	ctx, span := e.tracer.Start(ctx, "reconcile.cycle")
	defer span.End()

	result := &CycleResult{
		ID:        uuid.NewString(),
		StartedAt: e.now(),
		DryRun:    e.opts.DryRun,
	}
	log := e.logger.With(zap.String("cycle_id", result.ID))
	span.SetAttributes(attribute.String("cycle.id", result.ID), attribute.Bool("cycle.dry_run", e.opts.DryRun))

	err := e.run(ctx, log, result)
	result.FinishedAt = e.now()

	span.SetAttributes(
		attribute.Int("push.updated", result.Push.Updated),
		attribute.Int("pull.created", result.Pull.Created),
		attribute.Int("pull.updated", result.Pull.Updated),
		attribute.Int("failures", len(result.Failures)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

func (e *Engine) run(ctx context.Context, log *zap.Logger, result *CycleResult) error {
	records, err := e.records.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: list records: %w", ErrStoreUnreachable, err)
	}
	products, err := e.catalog.ListProducts(ctx, true)
	if err != nil {
		return fmt.Errorf("%w: list products: %w", ErrStoreUnreachable, err)
	}
	result.Records = records
	result.Products = products

	log.Info("Starting reconciliation",
		zap.Int("records", len(records)),
		zap.Int("products", len(products)),
		zap.Bool("dry_run", e.opts.DryRun),
	)

	pushed, err := e.push(ctx, log, records, result)
	if err != nil {
		return err
	}

	session := NewSession()
	if err := e.pull(ctx, log, products, pushed, session, result); err != nil {
		return err
	}

	log.Info("Reconciliation finished",
		zap.Int("catalog_updates", result.Push.Updated),
		zap.Int("records_created", result.Pull.Created),
		zap.Int("records_updated", result.Pull.Updated),
		zap.Int("duplicates", result.Pull.Duplicates),
		zap.Int("failures", len(result.Failures)),
		zap.Int("synced_skus", session.Len()),
	)
	return nil
}

// push treats the records as manual edits and overwrites catalog stock. It
// returns the stock written per catalog unit so the pull phase sees it.
func (e *Engine) push(ctx context.Context, log *zap.Logger, records []inventory.InventoryRecord, result *CycleResult) (map[string]int, error) {
	ctx, span := e.tracer.Start(ctx, "reconcile.push")
	defer span.End()

	pushed := make(map[string]int)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return pushed, err
		}

		if _, ok := sku.Normalize(rec.SKU); !ok || rec.Stock == nil {
			result.Push.Skipped++
			e.metrics.Unit(string(PhasePush), "skipped")
			continue
		}
		result.Push.Considered++

		outcome, err := e.pushRecord(context.WithoutCancel(ctx), rec, pushed, result)
		if err != nil {
			result.fail(PhasePush, rec.SKU, "page:"+rec.PageID, err)
			e.metrics.Unit(string(PhasePush), "failed")
			log.Error("Failed to push record stock",
				zap.String("sku", rec.SKU),
				zap.String("page_id", rec.PageID),
				zap.Error(err),
			)
			continue
		}
		e.metrics.Unit(string(PhasePush), outcome)
	}
	return pushed, nil
}

func (e *Engine) pushRecord(ctx context.Context, rec inventory.InventoryRecord, pushed map[string]int, result *CycleResult) (string, error) {
	unit, found, err := e.catalog.FindBySku(ctx, rec.SKU)
	if err != nil {
		return "", fmt.Errorf("find catalog unit: %w", err)
	}
	if !found {
		result.Push.Skipped++
		e.logger.Debug("Record has no catalog unit", zap.String("sku", rec.SKU))
		return "skipped", nil
	}

	want := *rec.Stock
	if unit.StockValue() == want {
		result.Push.Unchanged++
		return "unchanged", nil
	}

	action := Action{
		Type: ActionUpdateCatalogStock,
		SKU:  rec.SKU,
		Ref:  unit.Ref(),
		From: inventory.IntPtr(unit.StockValue()),
		To:   want,
	}
	if !e.opts.DryRun {
		if err := e.catalog.UpdateStock(ctx, rec.SKU, want); err != nil {
			return "", fmt.Errorf("update catalog stock: %w", err)
		}
		action.Applied = true
	}

	pushed[unit.Ref()] = want
	result.Push.Updated++
	result.Actions = append(result.Actions, action)
	e.logger.Info("Catalog stock overwritten from record",
		zap.String("sku", rec.SKU),
		zap.String("ref", unit.Ref()),
		zap.Int("from", unit.StockValue()),
		zap.Int("to", want),
		zap.Bool("dry_run", e.opts.DryRun),
	)
	return "updated", nil
}

// pull copies catalog units onto records. Record stock may only stay or go
// down; metadata always follows the catalog.
func (e *Engine) pull(ctx context.Context, log *zap.Logger, products []inventory.Product, pushed map[string]int, session *Session, result *CycleResult) error {
	ctx, span := e.tracer.Start(ctx, "reconcile.pull")
	defer span.End()

	for _, unit := range inventory.SellableUnits(products) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if stock, ok := pushed[unit.Ref()]; ok {
			unit.Stock = inventory.IntPtr(stock)
		}

		outcome, err := e.pullUnit(context.WithoutCancel(ctx), log, unit, session, result)
		if err != nil {
			result.fail(PhasePull, unit.SKU, unit.Ref(), err)
			e.metrics.Unit(string(PhasePull), "failed")
			log.Error("Failed to sync catalog unit",
				zap.String("sku", unit.SKU),
				zap.String("ref", unit.Ref()),
				zap.Error(err),
			)
			continue
		}
		e.metrics.Unit(string(PhasePull), outcome)
	}
	return nil
}

func (e *Engine) pullUnit(ctx context.Context, log *zap.Logger, unit inventory.Unit, session *Session, result *CycleResult) (string, error) {
	key, ok := sku.Normalize(unit.SKU)
	if !ok {
		result.Pull.Skipped++
		log.Warn("Catalog unit has no SKU", zap.String("ref", unit.Ref()))
		return "skipped", nil
	}
	if session.Seen(key) {
		result.Pull.Duplicates++
		log.Warn("Duplicate SKU in catalog, skipping unit",
			zap.String("sku", unit.SKU),
			zap.String("ref", unit.Ref()),
		)
		return "duplicate", nil
	}
	defer session.Mark(key)
	result.Pull.Considered++

	meta := e.recordMeta(log, unit)

	rec, found, err := e.records.FindBySku(ctx, unit.SKU)
	if err != nil {
		return "", fmt.Errorf("find record: %w", err)
	}
	if found {
		return e.updateRecord(ctx, unit, rec, meta, result)
	}
	return e.createRecord(ctx, log, unit, meta, result)
}

func (e *Engine) updateRecord(ctx context.Context, unit inventory.Unit, rec inventory.InventoryRecord, meta inventory.RecordMeta, result *CycleResult) (string, error) {
	catalogStock := unit.StockValue()
	target := catalogStock
	if rec.Stock != nil && *rec.Stock < target {
		target = *rec.Stock
	}

	stockChanged := rec.Stock == nil || *rec.Stock != target
	if !stockChanged && !meta.Differs(rec) {
		result.Pull.Unchanged++
		return "unchanged", nil
	}

	action := Action{
		Type: ActionUpdateRecord,
		SKU:  unit.SKU,
		Ref:  "page:" + rec.PageID,
		From: rec.Stock,
		To:   target,
	}
	if !e.opts.DryRun {
		if err := e.records.UpdateStock(ctx, rec.PageID, target, meta); err != nil {
			return "", fmt.Errorf("update record: %w", err)
		}
		action.Applied = true
	}

	result.Pull.Updated++
	result.Actions = append(result.Actions, action)
	e.logger.Info("Record updated from catalog",
		zap.String("sku", unit.SKU),
		zap.String("page_id", rec.PageID),
		zap.Int("catalog_stock", catalogStock),
		zap.Int("stock", target),
		zap.Bool("stock_changed", stockChanged),
		zap.Bool("dry_run", e.opts.DryRun),
	)
	return "updated", nil
}

func (e *Engine) createRecord(ctx context.Context, log *zap.Logger, unit inventory.Unit, meta inventory.RecordMeta, result *CycleResult) (string, error) {
	fields := inventory.RecordFields{
		Name:  unit.Name,
		SKU:   unit.SKU,
		Stock: unit.StockValue(),
		Meta:  meta,
	}

	action := Action{
		Type: ActionCreateRecord,
		SKU:  unit.SKU,
		Ref:  unit.Ref(),
		To:   fields.Stock,
	}
	if !e.opts.DryRun {
		created, err := e.records.Create(ctx, fields)
		if err != nil {
			return "", fmt.Errorf("create record: %w", err)
		}
		action.Applied = true
		action.Ref = "page:" + created.PageID
	}
	result.Pull.Created++
	result.Actions = append(result.Actions, action)
	log.Info("Record created from catalog",
		zap.String("sku", unit.SKU),
		zap.String("ref", unit.Ref()),
		zap.Int("stock", fields.Stock),
		zap.Bool("dry_run", e.opts.DryRun),
	)

	if e.opts.BackfillSKU && sku.IsSynthetic(unit.SKU) {
		e.backfill(ctx, log, unit, result)
	}
	return "created", nil
}

// backfill stores a generated SKU on the catalog unit. Failure is logged and
// never fails the record creation.
func (e *Engine) backfill(ctx context.Context, log *zap.Logger, unit inventory.Unit, result *CycleResult) {
	action := Action{
		Type: ActionBackfillSKU,
		SKU:  unit.SKU,
		Ref:  unit.Ref(),
		To:   unit.StockValue(),
	}
	if !e.opts.DryRun {
		if err := e.catalog.UpdateFields(ctx, unit.SKU, map[string]any{"sku": unit.SKU}); err != nil {
			log.Warn("Failed to store generated SKU on catalog unit",
				zap.String("sku", unit.SKU),
				zap.String("ref", unit.Ref()),
				zap.Error(err),
			)
			result.Actions = append(result.Actions, action)
			return
		}
		action.Applied = true
	}
	result.Actions = append(result.Actions, action)
}

func (e *Engine) recordMeta(log *zap.Logger, unit inventory.Unit) inventory.RecordMeta {
	meta := inventory.RecordMeta{
		Brand:    unitBrand(unit),
		Category: unitCategory(unit),
	}

	price, ok, err := inventory.ParsePrice(unit.Price)
	switch {
	case errors.Is(err, inventory.ErrMalformedField):
		log.Warn("Skipping unparseable price",
			zap.String("sku", unit.SKU),
			zap.String("price", unit.Price),
		)
	case ok:
		meta.Price = &price
	}
	return meta
}
