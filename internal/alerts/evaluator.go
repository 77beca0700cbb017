// Package alerts contains the trigger/reset state machine and the recurring
// driver that runs it over the alert collection.
package alerts

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ratewatch/internal/models"
	"ratewatch/internal/notify"
	"ratewatch/internal/store"
)

var (
	alertsFiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_fired_total",
			Help: "Total number of alert notifications emitted",
		},
	)
	alertsResetTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_reset_total",
			Help: "Total number of triggered alerts re-armed after the condition cleared",
		},
	)
	alertsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_skipped_total",
			Help: "Total number of alert evaluations skipped",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(alertsFiredTotal)
	prometheus.MustRegister(alertsResetTotal)
	prometheus.MustRegister(alertsSkippedTotal)
}

// RateResolver supplies the current rate for a pair. Satisfied by
// resolver.Resolver.
type RateResolver interface {
	Resolve(ctx context.Context, from, to string) (float64, error)
}

// Evaluator owns the per-alert state machine. It is the only writer of the
// trigger-state fields; user-owned fields (target, condition, active flag)
// and deletion stay with the HTTP API.
type Evaluator struct {
	store            store.AlertStore
	resolver         RateResolver
	sink             notify.Sink
	clock            Clock
	minRecheck       time.Duration
	defaultMaxNotifs int
	logger           *zap.Logger
}

// EvaluatorConfig carries the evaluator's tunables.
type EvaluatorConfig struct {
	// MinRecheck is the per-alert floor between two evaluations, independent
	// of the scheduler interval.
	MinRecheck time.Duration
	// DefaultMaxNotifications caps repeat firings for alerts that do not set
	// their own cap.
	DefaultMaxNotifications int
}

// NewEvaluator wires the state machine to its collaborators. A nil clock
// means the system clock.
func NewEvaluator(st store.AlertStore, res RateResolver, sink notify.Sink, clock Clock, cfg EvaluatorConfig, logger *zap.Logger) *Evaluator {
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.MinRecheck <= 0 {
		cfg.MinRecheck = 60 * time.Second
	}
	if cfg.DefaultMaxNotifications <= 0 {
		cfg.DefaultMaxNotifications = 1
	}
	return &Evaluator{
		store:            st,
		resolver:         res,
		sink:             sink,
		clock:            clock,
		minRecheck:       cfg.MinRecheck,
		defaultMaxNotifs: cfg.DefaultMaxNotifications,
		logger:           logger,
	}
}

// EvaluateAll runs one pass over every active alert. A failure in one alert's
// pipeline never aborts the rest of the pass.
func (e *Evaluator) EvaluateAll(ctx context.Context) {
	alerts, err := e.store.List(ctx)
	if err != nil {
		e.logger.Error("failed to list alerts", zap.Error(err))
		return
	}

	for i := range alerts {
		alert := alerts[i]
		if !alert.IsActive {
			continue
		}
		e.evaluateOne(ctx, alert)
	}
}

func (e *Evaluator) evaluateOne(ctx context.Context, alert models.Alert) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic evaluating alert",
				zap.String("alert_id", alert.ID),
				zap.Any("panic", r),
			)
		}
	}()
	e.Evaluate(ctx, alert)
}

// Evaluate applies the state machine to a single alert.
//
// The recheck guard skips the whole evaluation, including the rate fetch,
// when the alert was checked less than MinRecheck ago. LastCheckedAt advances
// only when a rate was actually resolved and the condition evaluated: a total
// fetch failure leaves it untouched, so the alert is eligible again at the
// very next tick once sources recover.
func (e *Evaluator) Evaluate(ctx context.Context, alert models.Alert) {
	now := e.clock.Now()
	if !alert.LastCheckedAt.IsZero() && now.Sub(alert.LastCheckedAt) < e.minRecheck {
		alertsSkippedTotal.WithLabelValues("recheck_guard").Inc()
		return
	}

	rate, err := e.resolver.Resolve(ctx, alert.FromSymbol, alert.ToSymbol)
	if err != nil {
		alertsSkippedTotal.WithLabelValues("rate_unavailable").Inc()
		e.logger.Warn("rate unavailable, skipping alert this pass",
			zap.String("alert_id", alert.ID),
			zap.String("from", alert.FromSymbol),
			zap.String("to", alert.ToSymbol),
			zap.Error(err),
		)
		return
	}

	maxNotifs := alert.MaxNotifications
	if maxNotifs <= 0 {
		maxNotifs = e.defaultMaxNotifs
	}

	holds := alert.Condition.Holds(rate, alert.TargetRate)
	switch {
	case holds && !alert.Triggered:
		alert.Triggered = true
		if alert.NotificationCount < maxNotifs {
			alert.NotificationCount++
			e.emit(ctx, alert, rate, now)
		}

	case holds && alert.Triggered:
		// Repeat-until-cap: keep notifying while triggered until the cap.
		if alert.NotificationCount < maxNotifs {
			alert.NotificationCount++
			e.emit(ctx, alert, rate, now)
		}

	case !holds && alert.Triggered:
		// Hysteresis: full re-arm, not a decrement.
		alert.Triggered = false
		alert.NotificationCount = 0
		alertsResetTotal.Inc()
		e.logger.Info("alert re-armed",
			zap.String("alert_id", alert.ID),
			zap.Float64("rate", rate),
		)
	}

	alert.LastCheckedAt = now

	update := store.StateUpdate{
		Triggered:         alert.Triggered,
		NotificationCount: alert.NotificationCount,
		LastCheckedAt:     alert.LastCheckedAt,
	}
	if err := e.store.UpdateState(ctx, alert.ID, update); err != nil {
		// In-memory state is not rolled back: re-notifying after a persist
		// failure beats losing a firing.
		e.logger.Error("failed to persist alert state",
			zap.String("alert_id", alert.ID),
			zap.Error(err),
		)
	}
}

func (e *Evaluator) emit(ctx context.Context, alert models.Alert, rate float64, firedAt time.Time) {
	alertsFiredTotal.Inc()
	e.sink.Emit(ctx, notify.NewEvent(alert, rate, firedAt))
}
