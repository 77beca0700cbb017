package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ratewatch/internal/assets"
)

// openRatesSource queries a lowercase-keyed fiat table:
// GET {base}/currencies/usd.json returns {"usd": {"eur": 0.92, ...}}.
type openRatesSource struct {
	baseURL string
	client  *http.Client
}

// NewOpenRates returns the lowercase-keyed fiat table source.
func NewOpenRates(baseURL string, client *http.Client) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &openRatesSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *openRatesSource) Name() string      { return "open-rates" }
func (s *openRatesSource) Kind() assets.Kind { return assets.Fiat }

func (s *openRatesSource) Fetch(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToLower(from)
	to = strings.ToLower(to)

	var body map[string]map[string]float64
	url := fmt.Sprintf("%s/currencies/%s.json", s.baseURL, from)
	if err := getJSON(ctx, s.client, url, &body); err != nil {
		return 0, err
	}

	table, ok := body[from]
	if !ok {
		return 0, fmt.Errorf("%w: no %q table", ErrSourceParseMiss, from)
	}
	rate, ok := table[to]
	if !ok || !validRate(rate) {
		return 0, fmt.Errorf("%w: %s/%s", ErrSourceParseMiss, from, to)
	}
	return rate, nil
}
