package ratecache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ratewatch/internal/assets"
)

func TestMemoryExpiry(t *testing.T) {
	now := time.Now()
	clock := &now
	cache := NewMemory(300*time.Second, func() time.Time { return *clock })
	ctx := context.Background()
	key := Key{From: "usd", To: "eur", Kind: assets.Fiat}

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	require.NoError(t, cache.Set(ctx, key, 0.92))

	rate, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.92, rate)

	// One second before expiry the entry is still valid.
	*clock = now.Add(299 * time.Second)
	_, ok, _ = cache.Get(ctx, key)
	assert.True(t, ok)

	// At exactly TTL the entry is logically absent.
	*clock = now.Add(300 * time.Second)
	_, ok, _ = cache.Get(ctx, key)
	assert.False(t, ok, "entry at TTL age must not be served")
}

func TestKeyDistinguishesAssetKind(t *testing.T) {
	cache := NewMemory(time.Minute, nil)
	ctx := context.Background()

	fiatKey := Key{From: "usd", To: "eur", Kind: assets.Fiat}
	cryptoKey := Key{From: "usd", To: "eur", Kind: assets.Crypto}

	require.NoError(t, cache.Set(ctx, fiatKey, 0.92))

	_, ok, _ := cache.Get(ctx, cryptoKey)
	assert.False(t, ok, "fiat and crypto entries for the same symbols must not collide")
}

type countingFetcher struct {
	rate  float64
	err   error
	calls int
}

func (f *countingFetcher) Fetch(ctx context.Context, kind assets.Kind, from, to string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.rate, nil
}

func TestCachedFetcherSingleUpstreamFetchPerWindow(t *testing.T) {
	now := time.Now()
	clock := &now
	cache := NewMemory(300*time.Second, func() time.Time { return *clock })
	upstream := &countingFetcher{rate: 0.92}
	cf := NewCachedFetcher(cache, upstream, zap.NewNop())
	ctx := context.Background()

	rate, err := cf.Fetch(ctx, assets.Fiat, "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, 0.92, rate)

	rate, err = cf.Fetch(ctx, assets.Fiat, "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, 0.92, rate)
	assert.Equal(t, 1, upstream.calls, "two requests within the TTL must cost one upstream fetch")

	*clock = now.Add(301 * time.Second)
	_, err = cf.Fetch(ctx, assets.Fiat, "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls, "a request after TTL expiry must refetch")
}

func TestCachedFetcherPropagatesUpstreamFailure(t *testing.T) {
	cache := NewMemory(time.Minute, nil)
	upstream := &countingFetcher{err: assert.AnError}
	cf := NewCachedFetcher(cache, upstream, zap.NewNop())

	_, err := cf.Fetch(context.Background(), assets.Fiat, "usd", "eur")
	assert.Error(t, err)

	// The failure must not be cached.
	_, err = cf.Fetch(context.Background(), assets.Fiat, "usd", "eur")
	assert.Error(t, err)
	assert.Equal(t, 2, upstream.calls)
}
