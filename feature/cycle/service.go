package cycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"stock-sync/core/events"
	"stock-sync/core/inventory"
	"stock-sync/core/lock"
	"stock-sync/core/logger"
	"stock-sync/core/metrics"
	"stock-sync/core/reconcile"
	"stock-sync/feature/analysis"
	"stock-sync/feature/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCycleInProgress is returned when a cycle is requested while another one
// runs, in this process or, with a distributed lock, in another.
var ErrCycleInProgress = errors.New("cycle already in progress")

// Recorder persists finished cycles.
type Recorder interface {
	Record(ctx context.Context, r report.Report) error
}

// Deps are the collaborators of a Service. Locker, Recorder, Publisher and
// Metrics are optional.
type Deps struct {
	Catalog   reconcile.CatalogGateway
	Records   reconcile.RecordGateway
	Locker    lock.Locker
	Recorder  Recorder
	Publisher events.Publisher
	Metrics   *metrics.Registry
	Logger    *zap.Logger
}

// Service runs cycles one at a time and remembers the last report.
type Service struct {
	cfg       Config
	catalog   reconcile.CatalogGateway
	records   reconcile.RecordGateway
	locker    lock.Locker
	recorder  Recorder
	publisher events.Publisher
	notifier  *report.Notifier
	metrics   *metrics.Registry
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	running atomic.Bool
	// triggered tracks cycles started by Trigger.
	triggered sync.WaitGroup

	latestMu sync.RWMutex
	latest   *report.Report
}

// NewService creates a cycle service.
func NewService(cfg Config, deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		cfg:       cfg,
		catalog:   deps.Catalog,
		records:   deps.Records,
		locker:    deps.Locker,
		recorder:  deps.Recorder,
		publisher: publisher,
		notifier:  report.NewNotifier(log),
		metrics:   deps.Metrics,
		logger:    log,
		now:       time.Now,
	}
}

// Config returns the cycle settings.
func (s *Service) Config() Config {
	return s.cfg
}

// Running reports whether a cycle is in progress in this process.
func (s *Service) Running() bool {
	return s.running.Load()
}

// Latest returns the report of the last finished cycle.
func (s *Service) Latest() (report.Report, bool) {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()
	if s.latest == nil {
		return report.Report{}, false
	}
	return *s.latest, true
}

// Run executes one cycle and returns its report. The report is complete even
// when the cycle fails; the error is the cycle-fatal one, if any.
func (s *Service) Run(ctx context.Context) (report.Report, error) {
	if !s.mu.TryLock() {
		return report.Report{}, ErrCycleInProgress
	}
	defer s.mu.Unlock()
	return s.run(ctx)
}

// Trigger starts a cycle in the background. It fails with ErrCycleInProgress
// without waiting when a cycle is already running here.
func (s *Service) Trigger(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrCycleInProgress
	}
	s.triggered.Add(1)
	go func() {
		defer s.triggered.Done()
		defer s.mu.Unlock()
		if _, err := s.run(ctx); err != nil && !errors.Is(err, ErrCycleInProgress) {
			s.logger.Error("Triggered cycle failed", zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every cycle started by Trigger has finished.
func (s *Service) Wait() {
	s.triggered.Wait()
}

func (s *Service) run(ctx context.Context) (report.Report, error) {
	s.running.Store(true)
	defer s.running.Store(false)

	if s.locker != nil {
		ok, err := s.locker.Acquire(ctx)
		if err != nil {
			err = fmt.Errorf("acquire cycle lock: %w", err)
			return s.abort(ctx, err), err
		}
		if !ok {
			s.logger.Info("Another instance holds the cycle lock, skipping")
			return report.Report{}, ErrCycleInProgress
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release cycle lock", zap.Error(err))
			}
		}()
	}

	engine := reconcile.NewEngine(s.catalog, s.records, s.cfg.Options(), s.logger, s.metrics)
	result, err := engine.Run(ctx)
	log := logger.WithCycle(s.logger, result.ID)

	rep := report.Report{GeneratedAt: s.now(), Cycle: result}
	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		rep.Cancelled = true
		log.Warn("Cycle cancelled", zap.Error(err))
	default:
		rep.Fatal = err.Error()
		log.Error("Cycle failed", zap.Error(err))
	}
	if rep.Fatal == "" {
		products, records := s.snapshot(ctx, log, result, rep.Cancelled)
		rep.Analysis = analysis.Analyze(products, records, s.cfg.ReorderThreshold)
		rep.Details = report.Details(products, rep.Analysis, rep.GeneratedAt)
	}

	s.finish(ctx, log, rep)
	return rep, err
}

// abort finishes a cycle that failed before the engine ran.
func (s *Service) abort(ctx context.Context, err error) report.Report {
	now := s.now()
	result := &reconcile.CycleResult{
		ID:         uuid.NewString(),
		StartedAt:  now,
		FinishedAt: now,
		DryRun:     s.cfg.DryRun,
	}
	log := logger.WithCycle(s.logger, result.ID)
	log.Error("Cycle failed", zap.Error(err))

	rep := report.Report{GeneratedAt: now, Cycle: result, Fatal: err.Error()}
	s.finish(ctx, log, rep)
	return rep
}

// snapshot re-reads both stores so analysis sees the state after the cycle.
// The snapshots taken at the start are used for dry runs, cancelled cycles
// and when a store cannot be listed.
func (s *Service) snapshot(ctx context.Context, log *zap.Logger, result *reconcile.CycleResult, cancelled bool) ([]inventory.Product, []inventory.InventoryRecord) {
	products, records := result.Products, result.Records
	if result.DryRun || cancelled {
		return products, records
	}

	if p, err := s.catalog.ListProducts(ctx, true); err != nil {
		log.Warn("Failed to refresh products for analysis", zap.Error(err))
	} else {
		products = p
	}
	if r, err := s.records.ListAll(ctx); err != nil {
		log.Warn("Failed to refresh records for analysis", zap.Error(err))
	} else {
		records = r
	}
	return products, records
}

func (s *Service) finish(ctx context.Context, log *zap.Logger, rep report.Report) {
	s.notifier.Notify(rep.Analysis)

	status := rep.Status()
	if c := rep.Cycle; c != nil {
		s.metrics.ObserveCycle(string(status), c.Duration(), rep.Fatal == "")
	}
	if rep.Fatal == "" {
		s.metrics.SetAnalysis(len(rep.Analysis.Discrepancies), rep.Analysis.AnomaliesBySeverity(), len(rep.Analysis.Suggestions))
	}

	// Persisting and publishing must not be cut short by a shutdown that
	// cancelled the cycle itself.
	ctx = context.WithoutCancel(ctx)
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, rep); err != nil {
			log.Warn("Failed to record cycle", zap.Error(err))
		}
	}
	if err := s.publisher.Publish(ctx, cycleEvents(rep)...); err != nil {
		log.Warn("Failed to publish cycle events", zap.Error(err))
	}

	s.latestMu.Lock()
	s.latest = &rep
	s.latestMu.Unlock()

	log.Info("Cycle finished",
		zap.String("status", string(status)),
		zap.Int("discrepancies", len(rep.Analysis.Discrepancies)),
		zap.Int("anomalies", len(rep.Analysis.Anomalies)),
		zap.Int("suggestions", len(rep.Analysis.Suggestions)),
	)
}

// Analyze reads both stores and analyses them without writing anything.
func (s *Service) Analyze(ctx context.Context) (report.Report, error) {
	records, err := s.records.ListAll(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: list records: %w", reconcile.ErrStoreUnreachable, err)
	}
	products, err := s.catalog.ListProducts(ctx, true)
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: list products: %w", reconcile.ErrStoreUnreachable, err)
	}

	rep := report.Report{
		GeneratedAt: s.now(),
		Analysis:    analysis.Analyze(products, records, s.cfg.ReorderThreshold),
	}
	rep.Details = report.Details(products, rep.Analysis, rep.GeneratedAt)
	s.notifier.Notify(rep.Analysis)
	s.metrics.SetAnalysis(len(rep.Analysis.Discrepancies), rep.Analysis.AnomaliesBySeverity(), len(rep.Analysis.Suggestions))
	return rep, nil
}

// cycleEvents builds the events of a finished cycle: one per applied stock
// write followed by the completion or failure event.
func cycleEvents(rep report.Report) []events.Event {
	id := rep.CycleID()
	var out []events.Event
	if c := rep.Cycle; c != nil {
		for _, a := range c.Actions {
			if !a.Applied || a.Type == reconcile.ActionBackfillSKU {
				continue
			}
			out = append(out, events.New(events.TypeStockAdjusted, id, rep.GeneratedAt, a))
		}
	}

	eventType := events.TypeCycleCompleted
	switch {
	case rep.Fatal != "":
		eventType = events.TypeCycleFailed
	case rep.Cancelled:
		eventType = events.TypeCycleCancelled
	}
	return append(out, events.New(eventType, id, rep.GeneratedAt, report.NewSummary(rep)))
}
