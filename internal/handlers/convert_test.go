package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratewatch/internal/ratesource"
)

type stubResolver struct {
	rate float64
	err  error
}

func (r *stubResolver) Resolve(ctx context.Context, from, to string) (float64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.rate, nil
}

func TestConvert(t *testing.T) {
	h := NewConvertHandler(&stubResolver{rate: 0.92})

	req := httptest.NewRequest(http.MethodGet, "/convert?from=usd&to=eur&amount=100", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data ConvertResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.92, resp.Data.Rate)
	assert.InDelta(t, 92.0, resp.Data.Result, 1e-9)
}

func TestConvertDefaultsAmount(t *testing.T) {
	h := NewConvertHandler(&stubResolver{rate: 0.92})

	req := httptest.NewRequest(http.MethodGet, "/convert?from=usd&to=eur", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data ConvertResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Data.Amount)
}

func TestConvertMissingParams(t *testing.T) {
	h := NewConvertHandler(&stubResolver{rate: 0.92})

	req := httptest.NewRequest(http.MethodGet, "/convert?from=usd", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertUnknownSymbol(t *testing.T) {
	h := NewConvertHandler(&stubResolver{err: ratesource.ErrUnknownSymbol})

	req := httptest.NewRequest(http.MethodGet, "/convert?from=zzz&to=eur", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertRateUnavailable(t *testing.T) {
	h := NewConvertHandler(&stubResolver{err: ratesource.ErrAllSourcesExhausted})

	req := httptest.NewRequest(http.MethodGet, "/convert?from=usd&to=eur", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
