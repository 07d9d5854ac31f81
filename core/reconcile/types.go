package reconcile

import (
	"errors"
	"time"

	"stock-sync/core/inventory"
)

// ErrStoreUnreachable aborts a cycle before any write: one of the stores could
// not be listed.
var ErrStoreUnreachable = errors.New("store unreachable")

// Phase names a reconciliation pass.
type Phase string

const (
	// PhasePush copies record stock onto the catalog.
	PhasePush Phase = "push"
	// PhasePull copies catalog stock and metadata onto the records.
	PhasePull Phase = "pull"
)

// ActionType represents the type of write a cycle performs.
type ActionType string

const (
	// ActionUpdateCatalogStock overwrites catalog stock with the record value.
	ActionUpdateCatalogStock ActionType = "update_catalog_stock"
	// ActionUpdateRecord writes stock and metadata onto an existing record.
	ActionUpdateRecord ActionType = "update_record"
	// ActionCreateRecord inserts a record for a catalog unit.
	ActionCreateRecord ActionType = "create_record"
	// ActionBackfillSKU stores a generated SKU on the catalog unit.
	ActionBackfillSKU ActionType = "backfill_sku"
)

// Action represents one planned or executed write.
type Action struct {
	// Type specifies the write.
	Type ActionType `json:"type"`

	// SKU is the identity the write is keyed on.
	SKU string `json:"sku"`

	// Ref is the catalog unit or record page the write targets.
	Ref string `json:"ref"`

	// From is the stock before the write, if known.
	From *int `json:"from,omitempty"`

	// To is the stock after the write.
	To int `json:"to"`

	// Applied is false in dry-run mode or when the write failed.
	Applied bool `json:"applied"`
}

// PhaseStats counts what happened to the units of one phase.
type PhaseStats struct {
	Considered int `json:"considered"`
	Updated    int `json:"updated"`
	Created    int `json:"created"`
	Unchanged  int `json:"unchanged"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

// UnitFailure is a failure contained to one record or catalog unit.
type UnitFailure struct {
	Phase Phase  `json:"phase"`
	SKU   string `json:"sku"`
	Ref   string `json:"ref"`
	Err   error  `json:"-"`
	// Message is Err rendered for serialized reports.
	Message string `json:"error"`
}

// Error implements error.
func (f UnitFailure) Error() string {
	return string(f.Phase) + " " + f.SKU + " (" + f.Ref + "): " + f.Message
}

// Unwrap returns the underlying failure.
func (f UnitFailure) Unwrap() error {
	return f.Err
}

// Options controls engine behavior.
type Options struct {
	// DryRun plans every write without performing it.
	DryRun bool

	// BackfillSKU stores generated SKUs on the catalog after a record is created.
	BackfillSKU bool
}

// DefaultOptions writes for real and backfills generated SKUs.
func DefaultOptions() Options {
	return Options{BackfillSKU: true}
}

// CycleResult is the outcome of Engine.Run.
type CycleResult struct {
	// ID identifies the cycle across logs, history and events.
	ID string `json:"id"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	DryRun bool `json:"dry_run"`

	Push PhaseStats `json:"push"`
	Pull PhaseStats `json:"pull"`

	Actions  []Action      `json:"actions"`
	Failures []UnitFailure `json:"failures"`

	// Products and Records are the snapshots read at the start of the cycle.
	Products []inventory.Product         `json:"-"`
	Records  []inventory.InventoryRecord `json:"-"`
}

// Duration returns how long the cycle took.
func (r *CycleResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Applied counts the actions that were executed.
func (r *CycleResult) Applied() int {
	n := 0
	for _, a := range r.Actions {
		if a.Applied {
			n++
		}
	}
	return n
}

func (r *CycleResult) fail(phase Phase, skuValue, ref string, err error) {
	r.Failures = append(r.Failures, UnitFailure{
		Phase:   phase,
		SKU:     skuValue,
		Ref:     ref,
		Err:     err,
		Message: err.Error(),
	})
	switch phase {
	case PhasePush:
		r.Push.Failed++
	case PhasePull:
		r.Pull.Failed++
	}
}
