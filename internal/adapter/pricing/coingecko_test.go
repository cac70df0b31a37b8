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

func TestCoinGeckoFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":67123.45}}`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("")
	client.BaseURL = srv.URL

	price, err := client.FetchPrice(context.Background(), "bitcoin", "usd")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("67123.45")), "price = %s", price)
}

func TestCoinGeckoSendsAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("demo-key")
	client.BaseURL = srv.URL

	_, err := client.FetchPrice(context.Background(), "bitcoin", "usd")
	require.NoError(t, err)
}

func TestCoinGeckoUnknownAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("")
	client.BaseURL = srv.URL

	_, err := client.FetchPrice(context.Background(), "no-such-coin", "usd")
	assert.ErrorIs(t, err, errUnsupported)
}

func TestCoinGeckoServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewCoinGeckoClient("")
	client.BaseURL = srv.URL

	_, err := client.FetchPrice(context.Background(), "bitcoin", "usd")
	assert.Error(t, err)
}
