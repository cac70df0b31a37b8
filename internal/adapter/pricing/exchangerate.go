package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const exchangeRateBaseURL = "https://api.exchangerate.host"

// ExchangeRateClient fetches fiat conversion rates from an
// exchangerate.host-compatible API.
type ExchangeRateClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewExchangeRateClient builds a client against the public API.
func NewExchangeRateClient() *ExchangeRateClient {
	return &ExchangeRateClient{
		BaseURL:    exchangeRateBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies the provider in logs and metrics.
func (c *ExchangeRateClient) Name() string {
	return "exchangerate"
}

// FetchRate returns the conversion rate from one fiat currency to another.
func (c *ExchangeRateClient) FetchRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	base := strings.ToUpper(fromCurrency)
	symbol := strings.ToUpper(toCurrency)

	params := url.Values{}
	params.Set("base", base)
	params.Set("symbols", symbol)

	u := fmt.Sprintf("%s/latest?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("exchangerate status %d", res.StatusCode)
	}

	var body struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}

	raw, ok := body.Rates[symbol]
	if !ok {
		return decimal.Zero, errUnsupported
	}

	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("exchangerate %s/%s: %w", base, symbol, err)
	}

	return rate, nil
}
