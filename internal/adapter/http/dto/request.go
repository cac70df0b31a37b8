package dto

import (
	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/usecase"
)

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DepositRequest represents a request to credit virtual funds.
type DepositRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(userID string) usecase.DepositInput {
	return usecase.DepositInput{
		UserID:   userID,
		Currency: r.Currency,
		Amount:   r.Amount,
	}
}

// TradeRequest represents a buy or sell request.
type TradeRequest struct {
	AssetID  string          `json:"asset_id"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ToBuyInput converts to use case input.
func (r *TradeRequest) ToBuyInput(userID string) usecase.BuyInput {
	return usecase.BuyInput{
		UserID:   userID,
		AssetID:  r.AssetID,
		Symbol:   r.Symbol,
		Name:     r.Name,
		Amount:   r.Amount,
		Currency: r.Currency,
	}
}

// ToSellInput converts to use case input.
func (r *TradeRequest) ToSellInput(userID string) usecase.SellInput {
	return usecase.SellInput{
		UserID:   userID,
		AssetID:  r.AssetID,
		Symbol:   r.Symbol,
		Name:     r.Name,
		Amount:   r.Amount,
		Currency: r.Currency,
	}
}

// ExchangeRequest represents a currency conversion request.
type ExchangeRequest struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Amount       decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *ExchangeRequest) ToUseCaseInput(userID string) usecase.ExchangeInput {
	return usecase.ExchangeInput{
		UserID:       userID,
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		Amount:       r.Amount,
	}
}

// PreferredCurrencyRequest represents a display-currency update.
type PreferredCurrencyRequest struct {
	Currency string `json:"currency"`
}
