package alerts

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const tracerName = "ratewatch"

// Scheduler drives the evaluator on a fixed wall-clock interval, independent
// of any client being connected. It runs one pass immediately on start.
type Scheduler struct {
	evaluator *Evaluator
	interval  time.Duration
	clock     Clock
	logger    *zap.Logger
}

// NewScheduler builds a scheduler. A nil clock means the system clock.
func NewScheduler(evaluator *Evaluator, interval time.Duration, clock Clock, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		evaluator: evaluator,
		interval:  interval,
		clock:     clock,
		logger:    logger,
	}
}

// Run blocks until ctx is canceled, evaluating all alerts once at startup and
// then once per interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler starting", zap.Duration("interval", s.interval))

	s.tick(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopping")
			return
		case <-ticker.C():
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "scheduler.tick")
	defer span.End()

	start := s.clock.Now()
	s.evaluator.EvaluateAll(ctx)
	s.logger.Debug("evaluation pass complete", zap.Duration("took", s.clock.Now().Sub(start)))
}
