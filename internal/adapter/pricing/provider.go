package pricing

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// errUnsupported marks a pair a provider cannot quote. The failover oracle
// moves on to the next provider instead of reporting a hard failure.
var errUnsupported = errors.New("pair not supported by provider")

// PriceProvider quotes a crypto asset in a fiat currency.
type PriceProvider interface {
	Name() string
	FetchPrice(ctx context.Context, assetID, currency string) (decimal.Decimal, error)
}

// RateProvider quotes a fiat-to-fiat conversion rate.
type RateProvider interface {
	Name() string
	FetchRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// assetIDBySymbol maps exchange ticker symbols onto provider asset IDs.
// Trade endpoints receive explicit asset IDs; portfolio valuation only has
// the stored symbol and resolves it here.
var assetIDBySymbol = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"USDT":  "tether",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"DOT":   "polkadot",
	"LTC":   "litecoin",
	"LINK":  "chainlink",
	"AVAX":  "avalanche-2",
	"MATIC": "matic-network",
	"UNI":   "uniswap",
	"XLM":   "stellar",
}

// ResolveAssetID turns a ticker symbol into a provider asset ID. Unknown
// symbols pass through lowercased so assets can still be addressed by their
// provider ID directly; provider IDs are lowercase, stored symbols are not.
func ResolveAssetID(symbol string) string {
	if id, ok := assetIDBySymbol[symbol]; ok {
		return id
	}
	return strings.ToLower(symbol)
}
