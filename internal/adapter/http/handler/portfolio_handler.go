package handler

import (
	"context"
	"net/http"

	"github.com/robyoreal/bitcoin/internal/adapter/http/dto"
	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

// PortfolioService defines the read operations needed by PortfolioHandler.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID, currency string) ([]*domain.Holding, error)
	ComputeStats(ctx context.Context, userID string) (map[string]*domain.StatsRecord, error)
	GetHistory(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.TransactionRecord, error)
}

// PortfolioHandler handles portfolio, stats and history endpoints.
type PortfolioHandler struct {
	portfolioUC PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioUC PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

// GetPortfolio lists the user's holdings, optionally filtered by currency.
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	holdings, err := h.portfolioUC.GetPortfolio(r.Context(), userID, r.URL.Query().Get("currency"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get portfolio", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"holdings": dto.HoldingsFromDomain(holdings),
	})
}

// GetStats returns per-currency portfolio statistics.
func (h *PortfolioHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.portfolioUC.ComputeStats(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute stats", err.Error())
		return
	}

	out := make(map[string]*dto.StatsResponse, len(stats))
	for currency, record := range stats {
		out[currency] = dto.StatsFromDomain(record)
	}

	writeJSON(w, http.StatusOK, map[string]any{"stats": out})
}

// GetHistory lists the user's transaction records, newest first.
func (h *PortfolioHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	records, err := h.portfolioUC.GetHistory(r.Context(), usecase.GetHistoryInput{
		UserID:   userID,
		Currency: r.URL.Query().Get("currency"),
		Limit:    parseIntQuery(r, "limit", 0),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": dto.TransactionsFromDomain(records),
	})
}
