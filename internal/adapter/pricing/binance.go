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

const binanceBaseURL = "https://api.binance.com"

// binanceSymbolByAssetID maps provider asset IDs onto Binance base symbols.
var binanceSymbolByAssetID = map[string]string{
	"bitcoin":       "BTC",
	"ethereum":      "ETH",
	"binancecoin":   "BNB",
	"solana":        "SOL",
	"ripple":        "XRP",
	"cardano":       "ADA",
	"dogecoin":      "DOGE",
	"polkadot":      "DOT",
	"litecoin":      "LTC",
	"chainlink":     "LINK",
	"avalanche-2":   "AVAX",
	"matic-network": "MATIC",
	"uniswap":       "UNI",
	"stellar":       "XLM",
}

// binanceQuoteByCurrency maps fiat codes onto Binance quote assets. USD
// trades against USDT; only a few fiat books exist.
var binanceQuoteByCurrency = map[string]string{
	"usd": "USDT",
	"eur": "EUR",
	"gbp": "GBP",
	"jpy": "JPY",
	"brl": "BRL",
}

// BinanceClient fetches spot ticker prices from Binance. It backs up the
// primary provider for the major books.
type BinanceClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewBinanceClient builds a client against the public API.
func NewBinanceClient() *BinanceClient {
	return &BinanceClient{
		BaseURL:    binanceBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name identifies the provider in logs and metrics.
func (c *BinanceClient) Name() string {
	return "binance"
}

// FetchPrice returns the last spot price of assetID in currency.
func (c *BinanceClient) FetchPrice(ctx context.Context, assetID, currency string) (decimal.Decimal, error) {
	base, ok := binanceSymbolByAssetID[assetID]
	if !ok {
		return decimal.Zero, errUnsupported
	}
	quote, ok := binanceQuoteByCurrency[strings.ToLower(currency)]
	if !ok {
		return decimal.Zero, errUnsupported
	}

	params := url.Values{}
	params.Set("symbol", base+quote)

	u := fmt.Sprintf("%s/api/v3/ticker/price?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusBadRequest {
		// Unknown symbol; the book doesn't exist on this exchange.
		return decimal.Zero, errUnsupported
	}
	if res.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("binance ticker status %d", res.StatusCode)
	}

	var body struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("binance price for %s: %w", body.Symbol, err)
	}

	return price, nil
}
