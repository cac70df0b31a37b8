package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
)

// PortfolioUseCase is the read-only side of the ledger: portfolio listing,
// transaction history and per-currency statistics. It never mutates state.
type PortfolioUseCase struct {
	userRepo    UserRepository
	balanceRepo BalanceRepository
	holdingRepo HoldingRepository
	txRepo      TransactionRepository
	resolver    *BalanceResolver
	oracle      PriceOracle
	logger      zerolog.Logger

	priceTimeout time.Duration
}

// NewPortfolioUseCase creates a new PortfolioUseCase.
func NewPortfolioUseCase(
	userRepo UserRepository,
	balanceRepo BalanceRepository,
	holdingRepo HoldingRepository,
	txRepo TransactionRepository,
	resolver *BalanceResolver,
	oracle PriceOracle,
	logger zerolog.Logger,
) *PortfolioUseCase {
	return &PortfolioUseCase{
		userRepo:     userRepo,
		balanceRepo:  balanceRepo,
		holdingRepo:  holdingRepo,
		txRepo:       txRepo,
		resolver:     resolver,
		oracle:       oracle,
		logger:       logger,
		priceTimeout: DefaultPriceTimeout,
	}
}

// ComputeStats derives portfolio valuation and profit/loss per currency.
// A failed quote for one holding is logged and its contribution omitted;
// only a storage failure aborts the whole computation.
func (uc *PortfolioUseCase) ComputeStats(ctx context.Context, userID string) (map[string]*domain.StatsRecord, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	balances, err := uc.balanceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdings, err := uc.holdingRepo.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	currencySet := make(map[string]bool)
	for _, b := range balances {
		currencySet[b.Currency] = true
	}
	holdingsByCurrency := make(map[string][]*domain.Holding)
	for _, h := range holdings {
		currencySet[h.Currency] = true
		holdingsByCurrency[h.Currency] = append(holdingsByCurrency[h.Currency], h)
	}
	if user.LegacyBalance.IsPositive() {
		currencySet[domain.LegacyCurrency] = true
	}

	stats := make(map[string]*domain.StatsRecord, len(currencySet))
	for currency := range currencySet {
		cash, err := uc.resolver.EffectiveBalance(ctx, userID, currency)
		if err != nil {
			return nil, err
		}

		invested := decimal.Zero
		cryptoValue := decimal.Zero
		for _, h := range holdingsByCurrency[currency] {
			invested = invested.Add(h.Invested())

			quote, err := uc.quoteHolding(ctx, h)
			if err != nil {
				uc.logger.Warn().Err(err).
					Str("user_id", userID).
					Str("symbol", h.Symbol).
					Str("currency", h.Currency).
					Msg("skipping holding in stats, price unavailable")
				continue
			}
			cryptoValue = cryptoValue.Add(h.Value(quote.Price))
		}

		profitLoss := cryptoValue.Sub(invested)
		profitLossPercent := decimal.Zero
		if invested.IsPositive() {
			profitLossPercent = profitLoss.Div(invested).Mul(decimal.NewFromInt(100))
		}

		stats[currency] = &domain.StatsRecord{
			Currency:          currency,
			CashBalance:       cash,
			CryptoValue:       cryptoValue,
			TotalValue:        cash.Add(cryptoValue),
			Invested:          invested,
			ProfitLoss:        profitLoss,
			ProfitLossPercent: profitLossPercent,
		}
	}

	return stats, nil
}

// GetPortfolio lists a user's holdings, optionally filtered by currency.
func (uc *PortfolioUseCase) GetPortfolio(ctx context.Context, userID, currency string) ([]*domain.Holding, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if currency != "" {
		currency = domain.NormalizeCurrency(currency)
		if err := domain.ValidateCurrency(currency); err != nil {
			return nil, err
		}
	}

	return uc.holdingRepo.ListByUser(ctx, userID, currency)
}

// GetHistoryInput represents input for listing transaction history.
type GetHistoryInput struct {
	UserID   string
	Currency string
	Limit    int
	Offset   int
}

// GetHistory lists a user's transaction records, newest first.
func (uc *PortfolioUseCase) GetHistory(ctx context.Context, input GetHistoryInput) ([]*domain.TransactionRecord, error) {
	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency != "" {
		currency = domain.NormalizeCurrency(currency)
		if err := domain.ValidateCurrency(currency); err != nil {
			return nil, err
		}
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.txRepo.ListByUser(ctx, input.UserID, currency, limit, offset)
}

func (uc *PortfolioUseCase) quoteHolding(ctx context.Context, h *domain.Holding) (*domain.Quote, error) {
	quoteCtx, cancel := context.WithTimeout(ctx, uc.priceTimeout)
	defer cancel()

	// Prices are keyed by oracle asset ID; symbols map onto IDs inside
	// the pricing adapter.
	return uc.oracle.GetUnitPrice(quoteCtx, h.Symbol, h.Currency)
}
