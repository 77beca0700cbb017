// Package ratesource defines the upstream rate provider abstraction and the
// concrete HTTP sources. Each source wraps one endpoint family and hides its
// quirks (symbol casing, response shape) behind a uniform Fetch.
package ratesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"ratewatch/internal/assets"
)

// Source is one upstream provider of rates for a given asset kind.
type Source interface {
	Name() string
	Kind() assets.Kind
	// Fetch returns the from→to rate. It must honor ctx's deadline: a call
	// that cannot complete in time fails with ErrSourceTimeout rather than
	// hang.
	Fetch(ctx context.Context, from, to string) (float64, error)
}

// getJSON performs the request and decodes the body into out, mapping
// transport and status failures onto the source error taxonomy.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrSourceTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrSourceHTTP, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrSourceTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrSourceHTTP, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrSourceHTTP, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrSourceParseMiss, err)
	}
	return nil
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsNaN(rate) && !math.IsInf(rate, 0)
}
