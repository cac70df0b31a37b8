package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a settled operation.
type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionExchange TransactionType = "exchange"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionDeposit:  true,
	TransactionBuy:      true,
	TransactionSell:     true,
	TransactionExchange: true,
}

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// TransactionRecord is one append-only audit-log entry. Exactly one record
// is written per settled operation; records are never mutated or deleted.
type TransactionRecord struct {
	ID        string
	UserID    string
	AssetID   string
	Symbol    string
	Name      string
	Type      TransactionType
	Amount    decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Currency  string

	// Exchange operations only.
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal

	CreatedAt time.Time
}

// Validate checks record consistency before it is appended.
func (r *TransactionRecord) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if r.Type == TransactionExchange && (r.FromCurrency == "" || r.ToCurrency == "") {
		return ErrInvalidTransactionType
	}
	return nil
}
