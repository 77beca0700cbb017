package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ratewatch/internal/models"
	"ratewatch/internal/store"
)

func TestSchedulerRunsOnStartupAndOnTicks(t *testing.T) {
	res := &stubResolver{rate: 100}
	st := store.NewMemory()
	sink := &recordingSink{}
	clock := newFakeClock()

	e := NewEvaluator(st, res, sink, clock, EvaluatorConfig{}, zap.NewNop())
	s := NewScheduler(e, 5*time.Minute, clock, zap.NewNop())

	seedAlert(t, st, models.Alert{
		ID: "a1", FromSymbol: "bitcoin", ToSymbol: "usd",
		TargetRate: 50, Condition: models.ConditionAbove, IsActive: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	// Startup pass happens without any tick.
	require.Eventually(t, func() bool { return res.callCount() == 1 },
		time.Second, time.Millisecond, "scheduler must evaluate once on start")

	// Drive a tick; the clock has moved past the recheck floor.
	clock.Advance(5 * time.Minute)
	clock.tickCh <- clock.Now()
	require.Eventually(t, func() bool { return res.callCount() == 2 },
		time.Second, time.Millisecond, "scheduler must evaluate on each tick")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
}

func TestSchedulerSurvivesStoreFailure(t *testing.T) {
	res := &stubResolver{rate: 100}
	sink := &recordingSink{}
	clock := newFakeClock()
	st := store.NewMemory()
	seedAlert(t, st, models.Alert{
		ID: "a1", FromSymbol: "bitcoin", ToSymbol: "usd",
		TargetRate: 50, Condition: models.ConditionAbove, IsActive: true,
	})

	e := NewEvaluator(&failingStore{st}, res, sink, clock, EvaluatorConfig{}, zap.NewNop())
	s := NewScheduler(e, 5*time.Minute, clock, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	// The startup pass hits the failing store; the scheduler must keep going
	// and still accept ticks.
	require.Eventually(t, func() bool { return res.callCount() >= 1 },
		time.Second, time.Millisecond)

	clock.Advance(5 * time.Minute)
	clock.tickCh <- clock.Now()
	require.Eventually(t, func() bool { return res.callCount() >= 2 },
		time.Second, time.Millisecond)
	assert.Equal(t, 2, sink.count(), "persist failures must not suppress notifications")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
}
