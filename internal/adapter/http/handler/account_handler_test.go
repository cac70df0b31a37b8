package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/adapter/http/dto"
	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

type balanceReaderStub struct {
	effectiveBalanceFn func(ctx context.Context, userID, currency string) (decimal.Decimal, error)
}

func (s *balanceReaderStub) EffectiveBalance(ctx context.Context, userID, currency string) (decimal.Decimal, error) {
	return s.effectiveBalanceFn(ctx, userID, currency)
}

func TestAccountHandler_GetBalance_DefaultsToUSD(t *testing.T) {
	var capturedCurrency string

	h := NewAccountHandler(nil, &balanceReaderStub{
		effectiveBalanceFn: func(ctx context.Context, userID, currency string) (decimal.Decimal, error) {
			capturedCurrency = currency
			return decimal.NewFromInt(150), nil
		},
	})

	rec := httptest.NewRecorder()
	h.GetBalance(rec, authedRequest(http.MethodGet, "/account/balance", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedCurrency != "usd" {
		t.Fatalf("expected default currency usd, got %q", capturedCurrency)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Amount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected amount 150, got %s", resp.Amount)
	}
}

func TestAccountHandler_GetBalance_UnsupportedCurrency(t *testing.T) {
	h := NewAccountHandler(nil, &balanceReaderStub{
		effectiveBalanceFn: func(ctx context.Context, userID, currency string) (decimal.Decimal, error) {
			t.Fatal("resolver should not be called")
			return decimal.Zero, nil
		},
	})

	rec := httptest.NewRecorder()
	h.GetBalance(rec, authedRequest(http.MethodGet, "/account/balance?currency=xyz", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_ListBalances_SkipsZero(t *testing.T) {
	amounts := map[string]decimal.Decimal{
		"usd": decimal.NewFromInt(5000),
		"eur": decimal.NewFromInt(900),
	}

	h := NewAccountHandler(nil, &balanceReaderStub{
		effectiveBalanceFn: func(ctx context.Context, userID, currency string) (decimal.Decimal, error) {
			return amounts[currency], nil
		},
	})

	rec := httptest.NewRecorder()
	h.ListBalances(rec, authedRequest(http.MethodGet, "/account/balances", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Balances []dto.BalanceResponse `json:"balances"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Balances) != 2 {
		t.Fatalf("expected 2 non-zero balances, got %d", len(resp.Balances))
	}
}

func TestAccountHandler_Deposit_Success(t *testing.T) {
	var captured usecase.DepositInput

	h := NewAccountHandler(&settlementServiceStub{
		depositFn: func(ctx context.Context, input usecase.DepositInput) (*usecase.DepositResult, error) {
			captured = input
			return &usecase.DepositResult{NewBalance: decimal.NewFromInt(600)}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.DepositRequest{
		Amount:   decimal.NewFromInt(100),
		Currency: "EUR",
	})

	rec := httptest.NewRecorder()
	h.Deposit(rec, authedRequest(http.MethodPost, "/account/deposit", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", captured.UserID)
	}

	var resp dto.DepositResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Currency != "eur" {
		t.Fatalf("expected normalized currency eur, got %q", resp.Currency)
	}
	if !resp.NewBalance.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected new balance 600, got %s", resp.NewBalance)
	}
}

func TestAccountHandler_Deposit_InvalidAmount(t *testing.T) {
	h := NewAccountHandler(&settlementServiceStub{
		depositFn: func(ctx context.Context, input usecase.DepositInput) (*usecase.DepositResult, error) {
			return nil, domain.ErrInvalidAmount
		},
	}, nil)

	body, _ := json.Marshal(dto.DepositRequest{
		Amount:   decimal.NewFromInt(-5),
		Currency: "usd",
	})

	rec := httptest.NewRecorder()
	h.Deposit(rec, authedRequest(http.MethodPost, "/account/deposit", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Exchange_Success(t *testing.T) {
	h := NewAccountHandler(&settlementServiceStub{
		exchangeFn: func(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error) {
			return &usecase.ExchangeResult{
				Rate:            decimal.RequireFromString("0.9"),
				ConvertedAmount: decimal.NewFromInt(90),
			}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.ExchangeRequest{
		FromCurrency: "usd",
		ToCurrency:   "eur",
		Amount:       decimal.NewFromInt(100),
	})

	rec := httptest.NewRecorder()
	h.Exchange(rec, authedRequest(http.MethodPost, "/account/exchange", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ExchangeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.ConvertedAmount.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected converted amount 90, got %s", resp.ConvertedAmount)
	}
}

func TestAccountHandler_Exchange_PriceUnavailable(t *testing.T) {
	h := NewAccountHandler(&settlementServiceStub{
		exchangeFn: func(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error) {
			return nil, domain.ErrPriceUnavailable
		},
	}, nil)

	body, _ := json.Marshal(dto.ExchangeRequest{
		FromCurrency: "usd",
		ToCurrency:   "eur",
		Amount:       decimal.NewFromInt(100),
	})

	rec := httptest.NewRecorder()
	h.Exchange(rec, authedRequest(http.MethodPost, "/account/exchange", body))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestAccountHandler_ListCurrencies(t *testing.T) {
	h := NewAccountHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.ListCurrencies(rec, httptest.NewRequest(http.MethodGet, "/currencies", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Currencies []dto.CurrencyResponse `json:"currencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Currencies) != len(domain.SupportedCurrencies()) {
		t.Fatalf("expected %d currencies, got %d", len(domain.SupportedCurrencies()), len(resp.Currencies))
	}
}
