package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DustThreshold is the residual amount at or below which a holding is
// treated as fully sold and removed instead of being kept near zero.
var DustThreshold = decimal.New(1, -8)

// Holding is a per-user crypto position in one settlement currency.
// CostBasis is the amount-weighted average unit price at which the
// current position was acquired.
type Holding struct {
	UserID    string
	Symbol    string
	Currency  string
	Amount    decimal.Decimal
	CostBasis decimal.Decimal
	UpdatedAt time.Time
}

// ApplyBuy increases the position by amount bought at unitPrice and
// recomputes the cost basis as the amount-weighted average of the old
// basis and the new purchase. The pre-update amount is the weight.
func (h *Holding) ApplyBuy(amount, unitPrice decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	newAmount := h.Amount.Add(amount)
	h.CostBasis = h.Amount.Mul(h.CostBasis).Add(amount.Mul(unitPrice)).Div(newAmount)
	h.Amount = newAmount

	return nil
}

// ApplySell decreases the position by amount. The cost basis is unchanged:
// realized gain or loss is derived, never stored.
func (h *Holding) ApplySell(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if h.Amount.LessThan(amount) {
		return &InsufficientHoldingsError{
			Symbol:    h.Symbol,
			Currency:  h.Currency,
			Requested: amount,
			Available: h.Amount,
		}
	}

	h.Amount = h.Amount.Sub(amount)

	return nil
}

// IsDust reports whether the remaining amount is at or below the dust
// threshold and the row should be removed.
func (h *Holding) IsDust() bool {
	return h.Amount.LessThanOrEqual(DustThreshold)
}

// Value returns the current market value of the position at unitPrice.
func (h *Holding) Value(unitPrice decimal.Decimal) decimal.Decimal {
	return h.Amount.Mul(unitPrice)
}

// Invested returns the acquisition cost of the current position.
func (h *Holding) Invested() decimal.Decimal {
	return h.Amount.Mul(h.CostBasis)
}
