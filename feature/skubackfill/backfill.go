package skubackfill

import (
	"context"
	"fmt"

	"stock-sync/core/inventory"
	"stock-sync/core/reconcile"

	"go.uber.org/zap"
)

// Options controls a backfill run.
type Options struct {
	// Limit caps the number of units written; zero means no cap.
	Limit int
	// DryRun lists the units without writing.
	DryRun bool
}

// Entry is one unit that had no SKU of its own.
type Entry struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	SKU     string `json:"sku"`
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
}

// Result lists what a run did.
type Result struct {
	Candidates int     `json:"candidates"`
	Written    int     `json:"written"`
	Failed     int     `json:"failed"`
	Entries    []Entry `json:"entries"`
}

// Run stores a generated SKU on every sellable catalog unit that has none.
// A failed write is recorded and the run continues.
func Run(ctx context.Context, catalog reconcile.CatalogGateway, opts Options, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	products, err := catalog.ListProducts(ctx, true)
	if err != nil {
		return Result{}, fmt.Errorf("list products: %w", err)
	}

	var result Result
	for _, u := range inventory.SellableUnits(products) {
		if !u.GeneratedSKU {
			continue
		}
		result.Candidates++
		if opts.Limit > 0 && len(result.Entries) >= opts.Limit {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entry := Entry{Ref: u.Ref(), Name: u.Name, SKU: u.SKU}
		if !opts.DryRun {
			if err := catalog.UpdateFields(ctx, u.SKU, map[string]any{"sku": u.SKU}); err != nil {
				entry.Error = err.Error()
				result.Failed++
				logger.Warn("Failed to store generated SKU",
					zap.String("ref", u.Ref()),
					zap.String("sku", u.SKU),
					zap.Error(err),
				)
			} else {
				entry.Applied = true
				result.Written++
				logger.Info("Generated SKU stored",
					zap.String("ref", u.Ref()),
					zap.String("sku", u.SKU),
				)
			}
		}
		result.Entries = append(result.Entries, entry)
	}

	logger.Info("SKU backfill finished",
		zap.Int("candidates", result.Candidates),
		zap.Int("written", result.Written),
		zap.Int("failed", result.Failed),
		zap.Bool("dry_run", opts.DryRun),
	)
	return result, nil
}
