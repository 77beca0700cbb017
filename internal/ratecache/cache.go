// Package ratecache holds the last successfully fetched rate per conversion
// pair for a bounded time, so many alerts sharing a pair cost one upstream
// call per TTL window.
package ratecache

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"ratewatch/internal/assets"
)

var (
	cacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_cache_hits_total",
			Help: "Total number of rate cache hits",
		},
		[]string{"backend"},
	)
	cacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_cache_misses_total",
			Help: "Total number of rate cache misses",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
}

// Key identifies a cached rate. The asset kind is part of the key so a fiat
// pair and a crypto pair that share symbol text cannot collide.
type Key struct {
	From string
	To   string
	Kind assets.Kind
}

func (k Key) String() string {
	return fmt.Sprintf("rate:%s:%s:%s", k.Kind, k.From, k.To)
}

// Cache stores rates for at most the configured TTL. An expired entry is
// logically absent: Get reports a miss and the caller refetches.
type Cache interface {
	Get(ctx context.Context, key Key) (rate float64, ok bool, err error)
	Set(ctx context.Context, key Key, rate float64) error
}
