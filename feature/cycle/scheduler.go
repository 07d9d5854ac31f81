package cycle

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Scheduler runs a cycle at start and then every interval until its context
// ends. A tick that finds a cycle still running is skipped.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *zap.Logger
}

// NewScheduler creates a scheduler for service.
func NewScheduler(service *Service, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{service: service, interval: interval, logger: logger}
}

// Start blocks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	_, err := s.service.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrCycleInProgress):
		s.logger.Info("Cycle still running, skipping tick")
	case ctx.Err() != nil:
		s.logger.Info("Cycle interrupted by shutdown")
	default:
		// The cycle already logged its own failure.
		s.logger.Debug("Scheduled cycle ended with error", zap.Error(err))
	}
}
