package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyBalance is a per-user, per-currency cash balance. At most one row
// exists per (user, currency); rows are created lazily on first credit.
type CurrencyBalance struct {
	UserID    string
	Currency  string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}
