package domain

import "github.com/shopspring/decimal"

// StatsRecord is the per-currency portfolio summary produced by the
// statistics aggregator.
type StatsRecord struct {
	Currency          string
	CashBalance       decimal.Decimal
	CryptoValue       decimal.Decimal
	TotalValue        decimal.Decimal
	Invested          decimal.Decimal
	ProfitLoss        decimal.Decimal
	ProfitLossPercent decimal.Decimal
}
