package handler

import (
	"encoding/json"
	"net/http"

	"github.com/robyoreal/bitcoin/internal/adapter/http/dto"
	"github.com/robyoreal/bitcoin/internal/domain"
)

// TradeHandler handles buy and sell endpoints.
type TradeHandler struct {
	settlementUC SettlementService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(settlementUC SettlementService) *TradeHandler {
	return &TradeHandler{settlementUC: settlementUC}
}

// Buy purchases an asset at the current oracle price.
func (h *TradeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.Buy(r.Context(), req.ToBuyInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "buy failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradeResponse{
		Symbol:        domain.NormalizeSymbol(req.Symbol),
		Currency:      domain.NormalizeCurrency(req.Currency),
		Amount:        req.Amount,
		UnitPrice:     result.UnitPrice,
		Total:         result.Total,
		HoldingAmount: result.NewHoldingAmount,
	})
}

// Sell disposes of a holding at the current oracle price.
func (h *TradeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.settlementUC.Sell(r.Context(), req.ToSellInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "sell failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TradeResponse{
		Symbol:        domain.NormalizeSymbol(req.Symbol),
		Currency:      domain.NormalizeCurrency(req.Currency),
		Amount:        req.Amount,
		UnitPrice:     result.UnitPrice,
		Total:         result.Total,
		HoldingAmount: result.RemainingHoldingAmount,
	})
}
