package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered trader.
type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword string

	// LegacyBalance is the single-currency USD balance carried over from the
	// first schema generation. It is additive on top of the usd row in
	// currency_balances and is only ever read through the balance resolver.
	LegacyBalance decimal.Decimal

	// PreferredCurrency is the display currency for the UI layer.
	PreferredCurrency string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
