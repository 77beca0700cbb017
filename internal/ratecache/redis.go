package ratecache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis backs the cache with a redis instance, letting redis expire entries
// natively and letting multiple service instances share fetched rates.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis builds a redis-backed cache with the given TTL.
func NewRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (r *Redis) Get(ctx context.Context, key Key) (float64, bool, error) {
	val, err := r.client.Get(ctx, key.String()).Result()
	if errors.Is(err, redis.Nil) {
		cacheMissesTotal.WithLabelValues("redis").Inc()
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	rate, err := strconv.ParseFloat(val, 64)
	if err != nil {
		// Garbage in the slot; treat as a miss so it gets overwritten.
		r.logger.Warn("unparseable cached rate", zap.String("key", key.String()), zap.Error(err))
		cacheMissesTotal.WithLabelValues("redis").Inc()
		return 0, false, nil
	}

	cacheHitsTotal.WithLabelValues("redis").Inc()
	return rate, true, nil
}

func (r *Redis) Set(ctx context.Context, key Key, rate float64) error {
	val := strconv.FormatFloat(rate, 'g', -1, 64)
	return r.client.Set(ctx, key.String(), val, r.ttl).Err()
}
