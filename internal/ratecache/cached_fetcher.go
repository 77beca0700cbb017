package ratecache

import (
	"context"

	"go.uber.org/zap"

	"ratewatch/internal/assets"
)

// Fetcher is the upstream the cached fetcher falls through to on a miss.
// Satisfied by fetcher.FallbackFetcher.
type Fetcher interface {
	Fetch(ctx context.Context, kind assets.Kind, from, to string) (float64, error)
}

// CachedFetcher answers from the cache when a valid entry exists and
// otherwise delegates to the upstream fetcher, storing the fresh value.
type CachedFetcher struct {
	cache    Cache
	upstream Fetcher
	logger   *zap.Logger
}

// NewCachedFetcher composes cache over upstream.
func NewCachedFetcher(cache Cache, upstream Fetcher, logger *zap.Logger) *CachedFetcher {
	return &CachedFetcher{cache: cache, upstream: upstream, logger: logger}
}

// Fetch returns the cached rate for (from, to, kind) if still valid, else
// fetches and caches. A cache backend error degrades to a plain fetch; a
// cache write error is logged but does not fail the returned rate.
func (c *CachedFetcher) Fetch(ctx context.Context, kind assets.Kind, from, to string) (float64, error) {
	key := Key{From: from, To: to, Kind: kind}

	rate, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("rate cache read failed", zap.String("key", key.String()), zap.Error(err))
	} else if ok {
		return rate, nil
	}

	rate, err = c.upstream.Fetch(ctx, kind, from, to)
	if err != nil {
		return 0, err
	}

	if err := c.cache.Set(ctx, key, rate); err != nil {
		c.logger.Warn("rate cache write failed", zap.String("key", key.String()), zap.Error(err))
	}
	return rate, nil
}
