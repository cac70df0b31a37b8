package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/infrastructure/metrics"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

// CachedOracle decorates a PriceOracle with a short-TTL cache. Portfolio
// valuation quotes every holding on each request; the cache absorbs that.
type CachedOracle struct {
	next     usecase.PriceOracle
	cache    usecase.Cache
	metrics  *metrics.Metrics
	priceTTL time.Duration
	rateTTL  time.Duration
}

// NewCachedOracle creates a CachedOracle.
func NewCachedOracle(next usecase.PriceOracle, cache usecase.Cache, m *metrics.Metrics, priceTTL, rateTTL time.Duration) *CachedOracle {
	return &CachedOracle{
		next:     next,
		cache:    cache,
		metrics:  m,
		priceTTL: priceTTL,
		rateTTL:  rateTTL,
	}
}

// GetUnitPrice returns a cached quote when fresh, otherwise fetches and
// caches it. Cache failures fall through to the underlying oracle.
func (o *CachedOracle) GetUnitPrice(ctx context.Context, assetID, currency string) (*domain.Quote, error) {
	resolved := ResolveAssetID(assetID)
	key := fmt.Sprintf("quote:%s:%s", resolved, currency)

	if cached, err := o.cache.Get(ctx, key); err == nil {
		if price, err := decimal.NewFromString(cached); err == nil {
			o.countCacheHit()
			return &domain.Quote{
				AssetID:  resolved,
				Currency: currency,
				Price:    price,
				AsOf:     time.Now().UTC(),
			}, nil
		}
	}

	quote, err := o.next.GetUnitPrice(ctx, resolved, currency)
	if err != nil {
		return nil, err
	}

	_ = o.cache.Set(ctx, key, quote.Price.String(), o.priceTTL)

	return quote, nil
}

// GetRate returns a cached rate when fresh, otherwise fetches and caches it.
func (o *CachedOracle) GetRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	key := fmt.Sprintf("rate:%s:%s", fromCurrency, toCurrency)

	if cached, err := o.cache.Get(ctx, key); err == nil {
		if rate, err := decimal.NewFromString(cached); err == nil {
			o.countCacheHit()
			return rate, nil
		}
	}

	rate, err := o.next.GetRate(ctx, fromCurrency, toCurrency)
	if err != nil {
		return decimal.Zero, err
	}

	_ = o.cache.Set(ctx, key, rate.String(), o.rateTTL)

	return rate, nil
}

func (o *CachedOracle) countCacheHit() {
	if o.metrics != nil {
		o.metrics.OracleCacheHits.Inc()
	}
}
