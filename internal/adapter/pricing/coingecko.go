package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const coinGeckoBaseURL = "https://api.coingecko.com"

// CoinGeckoClient fetches crypto prices from the CoinGecko simple-price
// endpoint. Assets are addressed by CoinGecko IDs ("bitcoin", "ethereum").
type CoinGeckoClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewCoinGeckoClient builds a client against the public API.
func NewCoinGeckoClient(apiKey string) *CoinGeckoClient {
	return &CoinGeckoClient{
		BaseURL:    coinGeckoBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies the provider in logs and metrics.
func (c *CoinGeckoClient) Name() string {
	return "coingecko"
}

// FetchPrice returns the current price of assetID in currency.
func (c *CoinGeckoClient) FetchPrice(ctx context.Context, assetID, currency string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("ids", assetID)
	params.Set("vs_currencies", currency)

	u := fmt.Sprintf("%s/api/v3/simple/price?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}
	if c.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.APIKey)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("coingecko price status %d", res.StatusCode)
	}

	// {"bitcoin":{"usd":67123.45}}
	var body map[string]map[string]json.Number
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}

	raw, ok := body[assetID][currency]
	if !ok {
		return decimal.Zero, errUnsupported
	}

	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("coingecko price for %s/%s: %w", assetID, currency, err)
	}

	return price, nil
}
