package cycle

import (
	"time"

	"stock-sync/core/reconcile"
)

// Config holds the cycle settings.
type Config struct {
	// Interval is the time between scheduled cycles in seconds.
	Interval int `mapstructure:"interval" default:"300"`
	// DryRun plans every write without performing it.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// BackfillSKU stores generated SKUs on the catalog after creating a record.
	BackfillSKU bool `mapstructure:"backfill_sku" default:"true"`
	// ReorderThreshold is the stock at or below which a reorder is suggested.
	ReorderThreshold int `mapstructure:"reorder_threshold" default:"10"`
}

// Options converts the settings for the engine.
func (c Config) Options() reconcile.Options {
	return reconcile.Options{DryRun: c.DryRun, BackfillSKU: c.BackfillSKU}
}

// IntervalDuration returns the scheduling interval. A non-positive setting
// falls back to five minutes.
func (c Config) IntervalDuration() time.Duration {
	if c.Interval <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.Interval) * time.Second
}
