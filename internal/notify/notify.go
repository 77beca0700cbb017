// Package notify delivers fired-alert events. Sinks are fire-and-forget:
// delivery failure is logged and never fails or blocks evaluation.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ratewatch/internal/models"
)

// Event is one fired-alert notification.
type Event struct {
	AlertID     string           `json:"alert_id"`
	FromSymbol  string           `json:"from_symbol"`
	ToSymbol    string           `json:"to_symbol"`
	Condition   models.Condition `json:"condition"`
	TargetRate  float64          `json:"target_rate"`
	CurrentRate float64          `json:"current_rate"`
	Message     string           `json:"message"`
	FiredAt     time.Time        `json:"fired_at"`
}

// NewEvent builds the event for a firing of alert at rate.
func NewEvent(alert models.Alert, rate float64, firedAt time.Time) Event {
	return Event{
		AlertID:     alert.ID,
		FromSymbol:  alert.FromSymbol,
		ToSymbol:    alert.ToSymbol,
		Condition:   alert.Condition,
		TargetRate:  alert.TargetRate,
		CurrentRate: rate,
		Message: fmt.Sprintf("%s/%s is %s %g (now %g)",
			alert.FromSymbol, alert.ToSymbol, alert.Condition, alert.TargetRate, rate),
		FiredAt: firedAt,
	}
}

// Sink receives fired-alert events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// LogSink writes events to the service log. Always installed so firings are
// visible even with no external sink configured.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Emit(_ context.Context, event Event) {
	s.Logger.Info("alert fired",
		zap.String("alert_id", event.AlertID),
		zap.String("from", event.FromSymbol),
		zap.String("to", event.ToSymbol),
		zap.String("condition", string(event.Condition)),
		zap.Float64("target_rate", event.TargetRate),
		zap.Float64("current_rate", event.CurrentRate),
	)
}

// Multi fans one event out to several sinks.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, event Event) {
	for _, sink := range m {
		sink.Emit(ctx, event)
	}
}
