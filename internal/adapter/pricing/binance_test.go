package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinanceFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"67000.10000000"}`))
	}))
	defer srv.Close()

	client := NewBinanceClient()
	client.BaseURL = srv.URL

	price, err := client.FetchPrice(context.Background(), "bitcoin", "usd")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("67000.1")), "price = %s", price)
}

func TestBinanceUnsupportedPairs(t *testing.T) {
	client := NewBinanceClient()

	// No mapped symbol, and no fiat book: neither should reach the network.
	_, err := client.FetchPrice(context.Background(), "no-such-coin", "usd")
	assert.ErrorIs(t, err, errUnsupported)

	_, err = client.FetchPrice(context.Background(), "bitcoin", "sek")
	assert.ErrorIs(t, err, errUnsupported)
}

func TestBinanceUnknownSymbolResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	client := NewBinanceClient()
	client.BaseURL = srv.URL

	_, err := client.FetchPrice(context.Background(), "bitcoin", "jpy")
	assert.ErrorIs(t, err, errUnsupported)
}
