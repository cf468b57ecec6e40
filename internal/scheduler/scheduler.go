package scheduler

import (
	"context"
	"log/slog"
	"time"

	"viral_feed/internal/domain"
)

// DefaultRunTimeout bounds a single run when no timeout is configured.
const DefaultRunTimeout = 5 * time.Minute

// Generator defines the interface for feed generation runs.
type Generator interface {
	GenerateFeed(ctx context.Context, cfg domain.PipelineConfig) (*domain.GenerationRun, error)
}

type Scheduler struct {
	generator  Generator
	interval   time.Duration
	runTimeout time.Duration
	config     func() domain.PipelineConfig
	logger     *slog.Logger
}

// NewScheduler creates a scheduler that regenerates the feed every interval.
// config is read before every run so configuration changes apply to the
// next tick.
func NewScheduler(generator Generator, interval, runTimeout time.Duration, config func() domain.PipelineConfig, logger *slog.Logger) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = DefaultRunTimeout
	}
	return &Scheduler{
		generator:  generator,
		interval:   interval,
		runTimeout: runTimeout,
		config:     config,
		logger:     logger.With("component", "scheduler"),
	}
}

// Start runs once immediately and then on every tick until ctx is done.
// Failed runs are logged and do not stop the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runGeneration(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runGeneration(ctx)
		}
	}
}

func (s *Scheduler) runGeneration(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if _, err := s.generator.GenerateFeed(runCtx, s.config()); err != nil {
		s.logger.Error("feed generation failed", "error", err)
	}
}
