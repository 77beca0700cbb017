// Package resolver turns a (from, to) pair into a current rate, picking the
// resolution path from the asset kinds of the two symbols.
package resolver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ratewatch/internal/assets"
	"ratewatch/internal/ratesource"
)

// pivotCurrency prices both legs of a crypto-crypto pair. There is no
// fallback pivot: if USD pricing is unavailable for either leg, the pair
// fails hard for this attempt.
const pivotCurrency = "usd"

// RateFetcher is the cache-backed fetch the resolver draws rates from.
type RateFetcher interface {
	Fetch(ctx context.Context, kind assets.Kind, from, to string) (float64, error)
}

// Resolver resolves current rates for arbitrary fiat/crypto pairs.
type Resolver struct {
	fetcher RateFetcher
	logger  *zap.Logger
}

// New builds a Resolver on top of a rate fetcher.
func New(fetcher RateFetcher, logger *zap.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, logger: logger}
}

// Resolve returns the from→to rate.
//
//	fiat→fiat     direct fiat table lookup
//	crypto→fiat   crypto price with the fiat as quote currency
//	fiat→crypto   inverted crypto price (quote currency is the fiat side)
//	crypto→crypto two crypto→USD legs, then their ratio
func (r *Resolver) Resolve(ctx context.Context, from, to string) (float64, error) {
	from = assets.Normalize(from)
	to = assets.Normalize(to)

	fromKind := assets.Classify(from)
	toKind := assets.Classify(to)
	if fromKind == assets.Unknown {
		return 0, fmt.Errorf("%w: %q", ratesource.ErrUnknownSymbol, from)
	}
	if toKind == assets.Unknown {
		return 0, fmt.Errorf("%w: %q", ratesource.ErrUnknownSymbol, to)
	}

	if from == to {
		return 1, nil
	}

	switch {
	case fromKind == assets.Fiat && toKind == assets.Fiat:
		rate, err := r.fetcher.Fetch(ctx, assets.Fiat, from, to)
		if err != nil {
			return 0, fmt.Errorf("%w: %s/%s: %v", ratesource.ErrRateResolution, from, to, err)
		}
		return rate, nil

	case fromKind == assets.Crypto && toKind == assets.Fiat:
		price, err := r.fetcher.Fetch(ctx, assets.Crypto, from, to)
		if err != nil {
			return 0, fmt.Errorf("%w: %s/%s: %v", ratesource.ErrRateResolution, from, to, err)
		}
		return price, nil

	case fromKind == assets.Fiat && toKind == assets.Crypto:
		price, err := r.fetcher.Fetch(ctx, assets.Crypto, to, from)
		if err != nil {
			return 0, fmt.Errorf("%w: %s/%s: %v", ratesource.ErrRateResolution, from, to, err)
		}
		if price == 0 {
			return 0, fmt.Errorf("%w: %s/%s: zero price cannot be inverted", ratesource.ErrRateResolution, from, to)
		}
		return 1 / price, nil

	default: // crypto→crypto through the USD pivot
		fromUSD, err := r.fetcher.Fetch(ctx, assets.Crypto, from, pivotCurrency)
		if err != nil {
			return 0, fmt.Errorf("%w: %s/%s: pivot leg %s/usd: %v", ratesource.ErrRateResolution, from, to, from, err)
		}
		toUSD, err := r.fetcher.Fetch(ctx, assets.Crypto, to, pivotCurrency)
		if err != nil {
			return 0, fmt.Errorf("%w: %s/%s: pivot leg %s/usd: %v", ratesource.ErrRateResolution, from, to, to, err)
		}
		if toUSD == 0 {
			return 0, fmt.Errorf("%w: %s/%s: zero pivot denominator", ratesource.ErrRateResolution, from, to)
		}
		return fromUSD / toUSD, nil
	}
}
