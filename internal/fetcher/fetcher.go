// Package fetcher tries an ordered list of rate sources until one answers.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ratewatch/internal/assets"
	"ratewatch/internal/limiter"
	"ratewatch/internal/ratesource"
)

var (
	sourceFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_source_failures_total",
			Help: "Total number of failed source fetch attempts",
		},
		[]string{"source"},
	)
	sourceExhaustedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_source_exhausted_total",
			Help: "Total number of fetches where every source failed",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(sourceFailuresTotal)
	prometheus.MustRegister(sourceExhaustedTotal)
}

// FallbackFetcher walks its sources in fixed priority order and returns the
// first successful rate. Order is deterministic: no reshuffling on failure.
type FallbackFetcher struct {
	fiatSources   []ratesource.Source
	cryptoSources []ratesource.Source
	limiter       limiter.SourceLimiter
	timeout       time.Duration
	logger        *zap.Logger
}

// New builds a FallbackFetcher. sources may mix kinds; they are partitioned
// here and tried in the order given within each kind. timeout bounds each
// individual source call.
func New(sources []ratesource.Source, lim limiter.SourceLimiter, timeout time.Duration, logger *zap.Logger) *FallbackFetcher {
	f := &FallbackFetcher{
		limiter: lim,
		timeout: timeout,
		logger:  logger,
	}
	if f.limiter == nil {
		f.limiter = limiter.Unlimited{}
	}
	for _, s := range sources {
		switch s.Kind() {
		case assets.Fiat:
			f.fiatSources = append(f.fiatSources, s)
		case assets.Crypto:
			f.cryptoSources = append(f.cryptoSources, s)
		}
	}
	return f
}

// Fetch resolves from→to through the source chain for the given asset kind.
// The first success wins; a failing source is logged and the next one tried.
// Attempts are strictly sequential.
func (f *FallbackFetcher) Fetch(ctx context.Context, kind assets.Kind, from, to string) (float64, error) {
	var sources []ratesource.Source
	switch kind {
	case assets.Fiat:
		sources = f.fiatSources
	case assets.Crypto:
		sources = f.cryptoSources
	default:
		return 0, fmt.Errorf("%w: no sources for kind %q", ratesource.ErrAllSourcesExhausted, kind)
	}

	for _, src := range sources {
		if !f.limiter.Allow(ctx, src.Name()) {
			f.logger.Warn("source over budget, skipping",
				zap.String("source", src.Name()),
				zap.String("from", from),
				zap.String("to", to),
			)
			sourceFailuresTotal.WithLabelValues(src.Name()).Inc()
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		rate, err := src.Fetch(callCtx, from, to)
		cancel()

		if err == nil {
			return rate, nil
		}

		sourceFailuresTotal.WithLabelValues(src.Name()).Inc()
		f.logger.Warn("source failed, trying next",
			zap.String("source", src.Name()),
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
	}

	sourceExhaustedTotal.WithLabelValues(string(kind)).Inc()
	return 0, fmt.Errorf("%w: %s/%s (%s)", ratesource.ErrAllSourcesExhausted, from, to, kind)
}
