package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ratewatch/internal/assets"
)

// coingeckoSource queries crypto spot prices by asset id and quote currency:
// GET {base}/simple/price?ids=bitcoin&vs_currencies=usd returns
// {"bitcoin": {"usd": 60000}}.
type coingeckoSource struct {
	baseURL string
	client  *http.Client
}

// NewCoinGecko returns the crypto price source.
func NewCoinGecko(baseURL string, client *http.Client) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &coingeckoSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *coingeckoSource) Name() string      { return "coingecko" }
func (s *coingeckoSource) Kind() assets.Kind { return assets.Crypto }

func (s *coingeckoSource) Fetch(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToLower(from)
	to = strings.ToLower(to)

	var body map[string]map[string]float64
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", s.baseURL, from, to)
	if err := getJSON(ctx, s.client, url, &body); err != nil {
		return 0, err
	}

	quotes, ok := body[from]
	if !ok {
		return 0, fmt.Errorf("%w: no quotes for %q", ErrSourceParseMiss, from)
	}
	price, ok := quotes[to]
	if !ok || !validRate(price) {
		return 0, fmt.Errorf("%w: %s/%s", ErrSourceParseMiss, from, to)
	}
	return price, nil
}
