package ratesource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrankfurterFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92,"GBP":0.79}}`))
	}))
	defer server.Close()

	src := NewFrankfurter(server.URL, server.Client())
	rate, err := src.Fetch(context.Background(), "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, 0.92, rate)
}

func TestFrankfurterMissingPair(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	}))
	defer server.Close()

	src := NewFrankfurter(server.URL, server.Client())
	_, err := src.Fetch(context.Background(), "usd", "zzz")
	assert.ErrorIs(t, err, ErrSourceParseMiss)
}

func TestFrankfurterHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewFrankfurter(server.URL, server.Client())
	_, err := src.Fetch(context.Background(), "usd", "eur")
	assert.ErrorIs(t, err, ErrSourceHTTP)
}

func TestOpenRatesFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/currencies/usd.json", r.URL.Path)
		w.Write([]byte(`{"date":"2026-08-28","usd":{"eur":0.93,"jpy":147.2}}`))
	}))
	defer server.Close()

	src := NewOpenRates(server.URL, server.Client())
	rate, err := src.Fetch(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, 147.2, rate)
}

func TestOpenRatesMissingTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"eur":{"usd":1.08}}`))
	}))
	defer server.Close()

	src := NewOpenRates(server.URL, server.Client())
	_, err := src.Fetch(context.Background(), "usd", "eur")
	assert.ErrorIs(t, err, ErrSourceParseMiss)
}

func TestCoinGeckoFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin":{"usd":60000}}`))
	}))
	defer server.Close()

	src := NewCoinGecko(server.URL, server.Client())
	price, err := src.Fetch(context.Background(), "bitcoin", "usd")
	require.NoError(t, err)
	assert.Equal(t, 60000.0, price)
}

func TestCoinGeckoMissingAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	src := NewCoinGecko(server.URL, server.Client())
	_, err := src.Fetch(context.Background(), "bitcoin", "usd")
	assert.ErrorIs(t, err, ErrSourceParseMiss)
}

func TestSourceTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	src := NewFrankfurter(server.URL, server.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.Fetch(ctx, "usd", "eur")
	assert.ErrorIs(t, err, ErrSourceTimeout)
}

func TestInvalidRateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{"EUR":-1}}`))
	}))
	defer server.Close()

	src := NewFrankfurter(server.URL, server.Client())
	_, err := src.Fetch(context.Background(), "usd", "eur")
	assert.ErrorIs(t, err, ErrSourceParseMiss)
}
