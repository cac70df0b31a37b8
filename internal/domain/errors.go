package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with this username or email already exists")

	// Settlement errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrUnsupportedCurrency    = errors.New("unsupported currency")
	ErrPriceUnavailable       = errors.New("price unavailable")
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// Resource errors
	ErrBalanceNotFound     = errors.New("currency balance not found")
	ErrHoldingNotFound     = errors.New("holding not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// InsufficientBalanceError is returned when a settlement would drive a
// cash balance negative. It carries what was required and what was
// actually available so callers can report both.
type InsufficientBalanceError struct {
	Currency  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: required %s, available %s",
		e.Currency, e.Required, e.Available)
}

// InsufficientHoldingsError is returned when a sell exceeds the held amount.
type InsufficientHoldingsError struct {
	Symbol    string
	Currency  string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient %s holdings in %s: requested %s, available %s",
		e.Symbol, e.Currency, e.Requested, e.Available)
}
