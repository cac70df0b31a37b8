package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/infrastructure/metrics"
)

// SettlementUseCase atomically settles the four ledger operations: deposit,
// buy, sell and currency exchange. Prices are fetched before the database
// transaction opens so no row lock is ever held across network I/O;
// sufficiency is then verified against freshly locked rows.
type SettlementUseCase struct {
	txManager TransactionManager
	retrier   Retrier
	resolver  *BalanceResolver
	holdings  *HoldingsLedger
	txRepo    TransactionRepository
	oracle    PriceOracle
	idGen     IDGenerator
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	priceTimeout time.Duration
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	retrier Retrier,
	resolver *BalanceResolver,
	holdings *HoldingsLedger,
	txRepo TransactionRepository,
	oracle PriceOracle,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:    txManager,
		retrier:      retrier,
		resolver:     resolver,
		holdings:     holdings,
		txRepo:       txRepo,
		oracle:       oracle,
		idGen:        idGen,
		metrics:      m,
		logger:       logger,
		priceTimeout: DefaultPriceTimeout,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	UserID   string
	Currency string
	Amount   decimal.Decimal
}

// DepositResult summarizes a settled deposit.
type DepositResult struct {
	NewBalance decimal.Decimal
}

// Deposit credits virtual funds to a currency balance.
func (uc *SettlementUseCase) Deposit(ctx context.Context, input DepositInput) (*DepositResult, error) {
	start := time.Now()

	currency := domain.NormalizeCurrency(input.Currency)
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	var result *DepositResult
	err := uc.settle(ctx, func(txCtx context.Context, tx Transaction) error {
		funds, err := uc.resolver.lockFunds(txCtx, tx, input.UserID, currency)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.resolver.credit(txCtx, tx, funds, input.Amount, now); err != nil {
			return err
		}

		record := uc.newRecord(input.UserID, domain.TransactionDeposit, now)
		record.AssetID = currency
		record.Symbol = domain.NormalizeSymbol(currency)
		record.Name = currencyName(currency)
		record.Amount = input.Amount
		record.UnitPrice = decimal.NewFromInt(1)
		record.Total = input.Amount
		record.Currency = currency

		if err := uc.appendRecord(txCtx, tx, record); err != nil {
			return err
		}

		result = &DepositResult{NewBalance: funds.effective}
		return nil
	})
	if err != nil {
		uc.countError("deposit")
		return nil, err
	}

	uc.observe("deposit", start)
	return result, nil
}

// BuyInput represents input for a crypto purchase.
type BuyInput struct {
	UserID   string
	AssetID  string
	Symbol   string
	Name     string
	Amount   decimal.Decimal
	Currency string
}

// BuyResult summarizes a settled purchase.
type BuyResult struct {
	UnitPrice        decimal.Decimal
	Total            decimal.Decimal
	NewHoldingAmount decimal.Decimal
}

// Buy purchases amount units of an asset at the oracle's current price,
// debiting the settlement currency and updating the holding's
// weighted-average cost basis.
func (uc *SettlementUseCase) Buy(ctx context.Context, input BuyInput) (*BuyResult, error) {
	start := time.Now()

	symbol := domain.NormalizeSymbol(input.Symbol)
	currency := domain.NormalizeCurrency(input.Currency)
	assetID := normalizeAssetID(input.AssetID)

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	quote, err := uc.fetchPrice(ctx, assetID, currency)
	if err != nil {
		uc.countError("buy")
		return nil, err
	}

	total := input.Amount.Mul(quote.Price)

	var result *BuyResult
	err = uc.settle(ctx, func(txCtx context.Context, tx Transaction) error {
		funds, err := uc.resolver.lockFunds(txCtx, tx, input.UserID, currency)
		if err != nil {
			return err
		}

		if funds.effective.LessThan(total) {
			return &domain.InsufficientBalanceError{
				Currency:  currency,
				Required:  total,
				Available: funds.effective,
			}
		}

		now := time.Now().UTC()
		if err := uc.resolver.debit(txCtx, tx, funds, total, now); err != nil {
			return err
		}

		holding, err := uc.holdings.ApplyBuy(txCtx, tx, input.UserID, symbol, currency, input.Amount, quote.Price)
		if err != nil {
			return err
		}

		record := uc.newRecord(input.UserID, domain.TransactionBuy, now)
		record.AssetID = assetID
		record.Symbol = symbol
		record.Name = input.Name
		record.Amount = input.Amount
		record.UnitPrice = quote.Price
		record.Total = total
		record.Currency = currency

		if err := uc.appendRecord(txCtx, tx, record); err != nil {
			return err
		}

		result = &BuyResult{
			UnitPrice:        quote.Price,
			Total:            total,
			NewHoldingAmount: holding.Amount,
		}
		return nil
	})
	if err != nil {
		uc.countError("buy")
		return nil, err
	}

	uc.observe("buy", start)
	return result, nil
}

// SellInput represents input for a crypto sale.
type SellInput struct {
	UserID   string
	AssetID  string
	Symbol   string
	Name     string
	Amount   decimal.Decimal
	Currency string
}

// SellResult summarizes a settled sale.
type SellResult struct {
	UnitPrice              decimal.Decimal
	Total                  decimal.Decimal
	RemainingHoldingAmount decimal.Decimal
}

// Sell disposes of amount units of a holding at the oracle's current price,
// crediting the proceeds to the settlement currency. The cost basis is
// unchanged; a remainder at or below the dust threshold removes the row.
func (uc *SettlementUseCase) Sell(ctx context.Context, input SellInput) (*SellResult, error) {
	start := time.Now()

	symbol := domain.NormalizeSymbol(input.Symbol)
	currency := domain.NormalizeCurrency(input.Currency)
	assetID := normalizeAssetID(input.AssetID)

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	// Cheap pre-check so an obviously oversized sell fails before any
	// oracle round trip. The authoritative check re-runs under the lock.
	if err := uc.precheckHolding(ctx, input.UserID, symbol, currency, input.Amount); err != nil {
		return nil, err
	}

	quote, err := uc.fetchPrice(ctx, assetID, currency)
	if err != nil {
		uc.countError("sell")
		return nil, err
	}

	total := input.Amount.Mul(quote.Price)

	var result *SellResult
	err = uc.settle(ctx, func(txCtx context.Context, tx Transaction) error {
		// Same lock order as Buy: user and balance rows first, then the
		// holding row. Diverging here would let a concurrent buy and sell
		// on one position deadlock.
		funds, err := uc.resolver.lockFunds(txCtx, tx, input.UserID, currency)
		if err != nil {
			return err
		}

		holding, err := uc.holdings.ApplySell(txCtx, tx, input.UserID, symbol, currency, input.Amount)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.resolver.credit(txCtx, tx, funds, total, now); err != nil {
			return err
		}

		record := uc.newRecord(input.UserID, domain.TransactionSell, now)
		record.AssetID = assetID
		record.Symbol = symbol
		record.Name = input.Name
		record.Amount = input.Amount
		record.UnitPrice = quote.Price
		record.Total = total
		record.Currency = currency

		if err := uc.appendRecord(txCtx, tx, record); err != nil {
			return err
		}

		result = &SellResult{
			UnitPrice:              quote.Price,
			Total:                  total,
			RemainingHoldingAmount: holding.Amount,
		}
		return nil
	})
	if err != nil {
		uc.countError("sell")
		return nil, err
	}

	uc.observe("sell", start)
	return result, nil
}

// ExchangeInput represents input for a fiat currency exchange.
type ExchangeInput struct {
	UserID       string
	FromCurrency string
	ToCurrency   string
	Amount       decimal.Decimal
}

// ExchangeResult summarizes a settled exchange.
type ExchangeResult struct {
	Rate            decimal.Decimal
	ConvertedAmount decimal.Decimal
}

// Exchange converts funds between two fiat balances at the oracle's forex
// rate. Exchanging a currency into itself is a rate-1 no-op: nothing is
// mutated and no record is appended.
func (uc *SettlementUseCase) Exchange(ctx context.Context, input ExchangeInput) (*ExchangeResult, error) {
	start := time.Now()

	from := domain.NormalizeCurrency(input.FromCurrency)
	to := domain.NormalizeCurrency(input.ToCurrency)

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(from); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(to); err != nil {
		return nil, err
	}

	if from == to {
		return &ExchangeResult{
			Rate:            decimal.NewFromInt(1),
			ConvertedAmount: input.Amount,
		}, nil
	}

	rate, err := uc.fetchRate(ctx, from, to)
	if err != nil {
		uc.countError("exchange")
		return nil, err
	}

	converted := input.Amount.Mul(rate)

	var result *ExchangeResult
	err = uc.settle(ctx, func(txCtx context.Context, tx Transaction) error {
		user, err := uc.resolver.userRepo.GetByIDForUpdate(txCtx, tx, input.UserID)
		if err != nil {
			return err
		}

		// Lock both balance rows in sorted currency order so two
		// concurrent opposite exchanges cannot deadlock.
		codes := []string{from, to}
		sort.Strings(codes)

		rows := make(map[string]*domain.CurrencyBalance, 2)
		for _, code := range codes {
			row, err := uc.resolver.lockBalanceRow(txCtx, tx, input.UserID, code)
			if err != nil {
				return err
			}
			rows[code] = row
		}

		fromFunds := &lockedFunds{user: user, balance: rows[from], effective: rows[from].Amount}
		if from == domain.LegacyCurrency {
			fromFunds.effective = fromFunds.effective.Add(user.LegacyBalance)
		}

		if fromFunds.effective.LessThan(input.Amount) {
			return &domain.InsufficientBalanceError{
				Currency:  from,
				Required:  input.Amount,
				Available: fromFunds.effective,
			}
		}

		now := time.Now().UTC()
		if err := uc.resolver.debit(txCtx, tx, fromFunds, input.Amount, now); err != nil {
			return err
		}

		toFunds := &lockedFunds{user: user, balance: rows[to], effective: rows[to].Amount}
		if err := uc.resolver.credit(txCtx, tx, toFunds, converted, now); err != nil {
			return err
		}

		record := uc.newRecord(input.UserID, domain.TransactionExchange, now)
		record.AssetID = "forex"
		record.Symbol = domain.NormalizeSymbol(from)
		record.Name = fmt.Sprintf("%s → %s", currencyName(from), currencyName(to))
		record.Amount = input.Amount
		record.UnitPrice = rate
		record.Total = converted
		record.Currency = from
		record.FromCurrency = from
		record.ToCurrency = to
		record.Rate = rate

		if err := uc.appendRecord(txCtx, tx, record); err != nil {
			return err
		}

		result = &ExchangeResult{Rate: rate, ConvertedAmount: converted}
		return nil
	})
	if err != nil {
		uc.countError("exchange")
		return nil, err
	}

	uc.observe("exchange", start)
	return result, nil
}

// settle runs fn inside one database transaction, retried on transient
// serialization failures. Rollback is deferred on all paths; a committed
// transaction makes the rollback a no-op.
func (uc *SettlementUseCase) settle(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error {
	attempt := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if uc.retrier == nil {
		return attempt()
	}
	return uc.retrier.Retry(ctx, attempt)
}

func (uc *SettlementUseCase) fetchPrice(ctx context.Context, assetID, currency string) (*domain.Quote, error) {
	priceCtx, cancel := context.WithTimeout(ctx, uc.priceTimeout)
	defer cancel()

	quote, err := uc.oracle.GetUnitPrice(priceCtx, assetID, currency)
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("asset_id", assetID).
			Str("currency", currency).
			Msg("price fetch failed")
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrPriceUnavailable, assetID, currency)
	}
	return quote, nil
}

func (uc *SettlementUseCase) fetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	rateCtx, cancel := context.WithTimeout(ctx, uc.priceTimeout)
	defer cancel()

	rate, err := uc.oracle.GetRate(rateCtx, from, to)
	if err != nil {
		uc.logger.Warn().Err(err).
			Str("from", from).
			Str("to", to).
			Msg("rate fetch failed")
		return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrPriceUnavailable, from, to)
	}
	return rate, nil
}

func (uc *SettlementUseCase) precheckHolding(ctx context.Context, userID, symbol, currency string, amount decimal.Decimal) error {
	holding, err := uc.holdings.holdingRepo.Get(ctx, userID, symbol, currency)
	if err != nil {
		if errors.Is(err, domain.ErrHoldingNotFound) {
			return &domain.InsufficientHoldingsError{
				Symbol:    symbol,
				Currency:  currency,
				Requested: amount,
				Available: decimal.Zero,
			}
		}
		return err
	}
	if holding.Amount.LessThan(amount) {
		return &domain.InsufficientHoldingsError{
			Symbol:    symbol,
			Currency:  currency,
			Requested: amount,
			Available: holding.Amount,
		}
	}
	return nil
}

func (uc *SettlementUseCase) newRecord(userID string, opType domain.TransactionType, now time.Time) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:        uc.idGen.Generate(),
		UserID:    userID,
		Type:      opType,
		CreatedAt: now,
	}
}

// appendRecord validates and appends the audit record for a settled
// operation. A record that fails validation aborts the transaction rather
// than corrupting the log.
func (uc *SettlementUseCase) appendRecord(ctx context.Context, tx Transaction, record *domain.TransactionRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid transaction record: %w", err)
	}
	return uc.txRepo.Create(ctx, tx, record)
}

func (uc *SettlementUseCase) observe(op string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.SettlementsTotal.WithLabelValues(op).Inc()
		uc.metrics.SettlementDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (uc *SettlementUseCase) countError(op string) {
	if uc.metrics != nil {
		uc.metrics.SettlementErrors.WithLabelValues(op).Inc()
	}
}

func normalizeAssetID(assetID string) string {
	return strings.ToLower(strings.TrimSpace(assetID))
}

func currencyName(code string) string {
	if c, ok := domain.CurrencyByCode(code); ok {
		return c.Name
	}
	return code
}
