package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robyoreal/bitcoin/internal/domain"
)

type stubPriceProvider struct {
	name  string
	price decimal.Decimal
	err   error
	calls int
}

func (p *stubPriceProvider) Name() string { return p.name }

func (p *stubPriceProvider) FetchPrice(ctx context.Context, assetID, currency string) (decimal.Decimal, error) {
	p.calls++
	return p.price, p.err
}

type stubRateProvider struct {
	name string
	rate decimal.Decimal
	err  error
}

func (p *stubRateProvider) Name() string { return p.name }

func (p *stubRateProvider) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	return p.rate, p.err
}

func TestFailoverUsesFirstHealthyProvider(t *testing.T) {
	primary := &stubPriceProvider{name: "primary", err: errors.New("down")}
	secondary := &stubPriceProvider{name: "secondary", price: decimal.NewFromInt(67000)}

	oracle := NewFailoverOracle(
		[]PriceProvider{primary, secondary},
		nil, nil, zerolog.Nop(),
	)

	quote, err := oracle.GetUnitPrice(context.Background(), "bitcoin", "usd")
	require.NoError(t, err)
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(67000)))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestFailoverResolvesSymbols(t *testing.T) {
	provider := &stubPriceProvider{name: "primary", price: decimal.NewFromInt(1)}
	oracle := NewFailoverOracle([]PriceProvider{provider}, nil, nil, zerolog.Nop())

	quote, err := oracle.GetUnitPrice(context.Background(), "BTC", "usd")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", quote.AssetID)
}

func TestFailoverAllProvidersDown(t *testing.T) {
	oracle := NewFailoverOracle(
		[]PriceProvider{
			&stubPriceProvider{name: "a", err: errors.New("down")},
			&stubPriceProvider{name: "b", err: errUnsupported},
		},
		nil, nil, zerolog.Nop(),
	)

	_, err := oracle.GetUnitPrice(context.Background(), "bitcoin", "usd")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestFailoverRate(t *testing.T) {
	oracle := NewFailoverOracle(
		nil,
		[]RateProvider{
			&stubRateProvider{name: "a", err: errors.New("down")},
			&stubRateProvider{name: "b", rate: decimal.RequireFromString("0.9")},
		},
		nil, zerolog.Nop(),
	)

	rate, err := oracle.GetRate(context.Background(), "usd", "eur")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.9")))

	oracle = NewFailoverOracle(nil, nil, nil, zerolog.Nop())
	_, err = oracle.GetRate(context.Background(), "usd", "eur")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}
