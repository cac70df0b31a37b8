package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/adapter/http/dto"
	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

// BalanceReader resolves effective per-currency balances.
type BalanceReader interface {
	EffectiveBalance(ctx context.Context, userID, currency string) (decimal.Decimal, error)
}

// SettlementService defines the settlement operations needed by handlers.
type SettlementService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.DepositResult, error)
	Buy(ctx context.Context, input usecase.BuyInput) (*usecase.BuyResult, error)
	Sell(ctx context.Context, input usecase.SellInput) (*usecase.SellResult, error)
	Exchange(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error)
}

// AccountHandler handles balance, deposit and exchange endpoints.
type AccountHandler struct {
	settlementUC SettlementService
	resolver     BalanceReader
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(settlementUC SettlementService, resolver BalanceReader) *AccountHandler {
	return &AccountHandler{
		settlementUC: settlementUC,
		resolver:     resolver,
	}
}

// GetBalance returns the effective balance in one currency. The currency
// query parameter defaults to usd.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	currency := domain.NormalizeCurrency(r.URL.Query().Get("currency"))
	if currency == "" {
		currency = domain.LegacyCurrency
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		writeError(w, mapDomainError(err), "unsupported currency", currency)
		return
	}

	amount, err := h.resolver.EffectiveBalance(r.Context(), userID, currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Currency: currency,
		Amount:   amount,
	})
}

// ListBalances returns the effective balance for every supported currency
// the user touches.
func (h *AccountHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var balances []dto.BalanceResponse
	for _, c := range domain.SupportedCurrencies() {
		amount, err := h.resolver.EffectiveBalance(r.Context(), userID, c.Code)
		if err != nil {
			writeError(w, mapDomainError(err), "failed to list balances", err.Error())
			return
		}
		if amount.IsZero() {
			continue
		}
		balances = append(balances, dto.BalanceResponse{Currency: c.Code, Amount: amount})
	}

	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

// Deposit credits virtual funds to a currency balance.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.Deposit(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "deposit failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositResponse{
		Currency:   domain.NormalizeCurrency(req.Currency),
		Amount:     req.Amount,
		NewBalance: result.NewBalance,
	})
}

// Exchange converts funds between two currency balances.
func (h *AccountHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.Exchange(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "exchange failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExchangeResponse{
		FromCurrency:    domain.NormalizeCurrency(req.FromCurrency),
		ToCurrency:      domain.NormalizeCurrency(req.ToCurrency),
		Amount:          req.Amount,
		Rate:            result.Rate,
		ConvertedAmount: result.ConvertedAmount,
	})
}

// ListCurrencies returns the supported currency catalog.
func (h *AccountHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"currencies": dto.CurrenciesFromDomain(domain.SupportedCurrencies()),
	})
}
