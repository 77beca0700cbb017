package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ratewatch/internal/assets"
)

// frankfurterSource queries a fiat rate table keyed by uppercase ISO codes:
// GET {base}/latest?from=USD returns {"rates": {"EUR": 0.92, ...}}.
type frankfurterSource struct {
	baseURL string
	client  *http.Client
}

// NewFrankfurter returns the uppercase-keyed fiat table source.
func NewFrankfurter(baseURL string, client *http.Client) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &frankfurterSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *frankfurterSource) Name() string      { return "frankfurter" }
func (s *frankfurterSource) Kind() assets.Kind { return assets.Fiat }

func (s *frankfurterSource) Fetch(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	url := fmt.Sprintf("%s/latest?from=%s", s.baseURL, from)
	if err := getJSON(ctx, s.client, url, &body); err != nil {
		return 0, err
	}

	rate, ok := body.Rates[to]
	if !ok || !validRate(rate) {
		return 0, fmt.Errorf("%w: %s/%s", ErrSourceParseMiss, from, to)
	}
	return rate, nil
}
