package history

import (
	"context"
	"errors"

	"stock-sync/feature/report"

	"go.uber.org/zap"
)

// ErrNotArchived is returned when a cycle has no archived report.
var ErrNotArchived = errors.New("report not archived")

// Service records finished cycles. Either backend may be nil.
type Service struct {
	repo    *Repository
	archive *Archive
	logger  *zap.Logger
}

// NewService creates a history service.
func NewService(repo *Repository, archive *Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, archive: archive, logger: logger}
}

// Record archives r and stores its row. Analysis-only reports are skipped.
// An archive failure is logged and the row is saved without a report key.
func (s *Service) Record(ctx context.Context, r report.Report) error {
	if r.CycleID() == "" {
		return nil
	}
	log := s.logger.With(zap.String("cycle_id", r.CycleID()))

	var key string
	if s.archive != nil {
		k, err := s.archive.Put(ctx, r)
		if err != nil {
			log.Warn("Failed to archive report", zap.Error(err))
		} else {
			key = k
			log.Debug("Report archived", zap.String("key", key))
		}
	}

	if s.repo == nil {
		return nil
	}
	run := NewCycleRun(r, key)
	return s.repo.Save(ctx, &run)
}

// Recent returns up to limit runs, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]CycleRun, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.List(ctx, limit)
}

// Report loads the archived report of cycleID. found is false when the
// cycle is unknown.
func (s *Service) Report(ctx context.Context, cycleID string) (report.Report, bool, error) {
	if s.repo == nil {
		return report.Report{}, false, nil
	}
	run, found, err := s.repo.Get(ctx, cycleID)
	if err != nil || !found {
		return report.Report{}, found, err
	}
	if run.ReportKey == "" || s.archive == nil {
		return report.Report{}, true, ErrNotArchived
	}
	r, err := s.archive.Get(ctx, run.ReportKey)
	return r, true, err
}
