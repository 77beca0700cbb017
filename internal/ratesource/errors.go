package ratesource

import "errors"

// Failure taxonomy for the fetch pipeline. Source-level errors are consumed
// by the fallback fetcher; only ErrAllSourcesExhausted and ErrRateResolution
// reach the alert layer, where they skip that alert's evaluation for the tick.
var (
	// ErrSourceTimeout means the source did not answer within the per-call deadline.
	ErrSourceTimeout = errors.New("rate source timed out")

	// ErrSourceHTTP means the source answered with a non-2xx status.
	ErrSourceHTTP = errors.New("rate source returned an HTTP error")

	// ErrSourceParseMiss means the response decoded but lacked the requested pair.
	ErrSourceParseMiss = errors.New("rate source response missing requested pair")

	// ErrAllSourcesExhausted means every source in the fallback chain failed.
	ErrAllSourcesExhausted = errors.New("all rate sources exhausted")

	// ErrRateResolution means an asset-kind composition failed, e.g. one leg
	// of a crypto-crypto pivot.
	ErrRateResolution = errors.New("rate resolution failed")

	// ErrUnknownSymbol means a symbol could not be classified as fiat or crypto.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrSourceThrottled means the per-source request budget was exceeded.
	ErrSourceThrottled = errors.New("rate source request budget exceeded")
)
