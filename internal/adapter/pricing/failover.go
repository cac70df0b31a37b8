package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/infrastructure/metrics"
)

// FailoverOracle implements usecase.PriceOracle by trying providers in
// order until one answers. A provider that cannot quote the pair or
// returns an error is skipped; the error surfaces only when every
// provider has failed.
type FailoverOracle struct {
	priceProviders []PriceProvider
	rateProviders  []RateProvider
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

// NewFailoverOracle creates a FailoverOracle. Provider order is priority
// order.
func NewFailoverOracle(
	priceProviders []PriceProvider,
	rateProviders []RateProvider,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *FailoverOracle {
	return &FailoverOracle{
		priceProviders: priceProviders,
		rateProviders:  rateProviders,
		metrics:        m,
		logger:         logger,
	}
}

// GetUnitPrice returns the current unit price for an asset. The assetID may
// be a provider ID or a ticker symbol; symbols resolve through the built-in
// mapping.
func (o *FailoverOracle) GetUnitPrice(ctx context.Context, assetID, currency string) (*domain.Quote, error) {
	resolved := ResolveAssetID(assetID)

	var lastErr error
	for _, p := range o.priceProviders {
		price, err := o.timedFetch(ctx, p.Name(), func() (decimal.Decimal, error) {
			return p.FetchPrice(ctx, resolved, currency)
		})
		if err != nil {
			lastErr = err
			o.logger.Debug().Err(err).
				Str("provider", p.Name()).
				Str("asset_id", resolved).
				Str("currency", currency).
				Msg("price provider failed, trying next")
			continue
		}

		return &domain.Quote{
			AssetID:  resolved,
			Currency: currency,
			Price:    price,
			AsOf:     time.Now().UTC(),
		}, nil
	}

	return nil, fmt.Errorf("%w: %s/%s: %v", domain.ErrPriceUnavailable, resolved, currency, lastErr)
}

// GetRate returns the fiat conversion rate between two currencies.
func (o *FailoverOracle) GetRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	var lastErr error
	for _, p := range o.rateProviders {
		rate, err := o.timedFetch(ctx, p.Name(), func() (decimal.Decimal, error) {
			return p.FetchRate(ctx, fromCurrency, toCurrency)
		})
		if err != nil {
			lastErr = err
			o.logger.Debug().Err(err).
				Str("provider", p.Name()).
				Str("from", fromCurrency).
				Str("to", toCurrency).
				Msg("rate provider failed, trying next")
			continue
		}

		return rate, nil
	}

	return decimal.Zero, fmt.Errorf("%w: %s/%s: %v", domain.ErrPriceUnavailable, fromCurrency, toCurrency, lastErr)
}

func (o *FailoverOracle) timedFetch(ctx context.Context, provider string, fetch func() (decimal.Decimal, error)) (decimal.Decimal, error) {
	start := time.Now()
	value, err := fetch()

	if o.metrics != nil {
		o.metrics.OracleDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.OracleRequests.WithLabelValues(provider, status).Inc()
	}

	return value, err
}
