package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID                string          `json:"id"`
	Username          string          `json:"username"`
	Email             string          `json:"email"`
	LegacyBalance     decimal.Decimal `json:"legacy_balance"`
	PreferredCurrency string          `json:"preferred_currency"`
	CreatedAt         time.Time       `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		LegacyBalance:     u.LegacyBalance,
		PreferredCurrency: u.PreferredCurrency,
		CreatedAt:         u.CreatedAt,
	}
}

// TokenResponse represents a successful authentication.
type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// BalanceResponse represents one spendable currency balance.
type BalanceResponse struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// DepositResponse represents a settled deposit.
type DepositResponse struct {
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

// TradeResponse represents a settled buy or sell.
type TradeResponse struct {
	Symbol        string          `json:"symbol"`
	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	HoldingAmount decimal.Decimal `json:"holding_amount"`
}

// ExchangeResponse represents a settled currency conversion.
type ExchangeResponse struct {
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	Amount          decimal.Decimal `json:"amount"`
	Rate            decimal.Decimal `json:"rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
}

// HoldingResponse represents a holding in API responses.
type HoldingResponse struct {
	Symbol    string          `json:"symbol"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	Invested  decimal.Decimal `json:"invested"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HoldingFromDomain converts a domain holding to a response.
func HoldingFromDomain(h *domain.Holding) *HoldingResponse {
	return &HoldingResponse{
		Symbol:    h.Symbol,
		Currency:  h.Currency,
		Amount:    h.Amount,
		CostBasis: h.CostBasis,
		Invested:  h.Invested(),
		UpdatedAt: h.UpdatedAt,
	}
}

// HoldingsFromDomain converts domain holdings to responses.
func HoldingsFromDomain(holdings []*domain.Holding) []*HoldingResponse {
	result := make([]*HoldingResponse, len(holdings))
	for i, h := range holdings {
		result[i] = HoldingFromDomain(h)
	}
	return result
}

// StatsResponse represents one currency's portfolio statistics.
type StatsResponse struct {
	Currency          string          `json:"currency"`
	CashBalance       decimal.Decimal `json:"cash_balance"`
	CryptoValue       decimal.Decimal `json:"crypto_value"`
	TotalValue        decimal.Decimal `json:"total_value"`
	Invested          decimal.Decimal `json:"invested"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`
}

// StatsFromDomain converts a domain stats record to a response.
func StatsFromDomain(s *domain.StatsRecord) *StatsResponse {
	return &StatsResponse{
		Currency:          s.Currency,
		CashBalance:       s.CashBalance,
		CryptoValue:       s.CryptoValue,
		TotalValue:        s.TotalValue,
		Invested:          s.Invested,
		ProfitLoss:        s.ProfitLoss,
		ProfitLossPercent: s.ProfitLossPercent,
	}
}

// TransactionResponse represents a transaction record in API responses.
type TransactionResponse struct {
	ID           string          `json:"id"`
	AssetID      string          `json:"asset_id,omitempty"`
	Symbol       string          `json:"symbol,omitempty"`
	Name         string          `json:"name,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Total        decimal.Decimal `json:"total"`
	Currency     string          `json:"currency"`
	FromCurrency string          `json:"from_currency,omitempty"`
	ToCurrency   string          `json:"to_currency,omitempty"`
	Rate         decimal.Decimal `json:"rate"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain record to a response.
func TransactionFromDomain(t *domain.TransactionRecord) *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		AssetID:      t.AssetID,
		Symbol:       t.Symbol,
		Name:         t.Name,
		Type:         string(t.Type),
		Amount:       t.Amount,
		UnitPrice:    t.UnitPrice,
		Total:        t.Total,
		Currency:     t.Currency,
		FromCurrency: t.FromCurrency,
		ToCurrency:   t.ToCurrency,
		Rate:         t.Rate,
		CreatedAt:    t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain records to responses.
func TransactionsFromDomain(records []*domain.TransactionRecord) []*TransactionResponse {
	result := make([]*TransactionResponse, len(records))
	for i, t := range records {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// CurrencyResponse represents a supported currency.
type CurrencyResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// CurrenciesFromDomain converts the currency catalog to responses.
func CurrenciesFromDomain(currencies []domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = &CurrencyResponse{
			Code:   c.Code,
			Name:   c.Name,
			Symbol: c.Symbol,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
