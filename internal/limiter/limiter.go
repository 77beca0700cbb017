// Package limiter budgets outgoing requests per upstream source so a tick
// over many alerts cannot hammer a provider past its free-tier allowance.
package limiter

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// SourceLimiter answers whether a call to a named source may proceed.
type SourceLimiter interface {
	Allow(ctx context.Context, sourceName string) bool
}

// RedisLimiter enforces a per-source per-minute budget via redis_rate, so the
// budget is shared across service instances pointed at the same redis.
type RedisLimiter struct {
	limiter   *redis_rate.Limiter
	perMinute int
}

// NewRedisLimiter budgets each source to perMinute upstream calls.
func NewRedisLimiter(rdb *redis.Client, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		limiter:   redis_rate.NewLimiter(rdb),
		perMinute: perMinute,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, sourceName string) bool {
	res, err := l.limiter.Allow(ctx, "ratewatch:budget:"+sourceName, redis_rate.PerMinute(l.perMinute))
	if err != nil {
		// A broken limiter must not take the fetch path down with it.
		return true
	}
	return res.Allowed > 0
}

// Unlimited never throttles. Used when no redis is configured and in tests.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) bool { return true }
