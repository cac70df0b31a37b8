package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time unit price for an asset in one currency,
// as returned by the price oracle.
type Quote struct {
	AssetID  string
	Currency string
	Price    decimal.Decimal
	AsOf     time.Time
}
