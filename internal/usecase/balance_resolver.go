package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
)

// BalanceResolver computes the effective available amount of a currency for
// a user: the currency_balances row plus, for the legacy currency, the
// user's legacy single-currency balance. It is the only seam that merges
// the two schema generations; no other component reads either source
// directly.
type BalanceResolver struct {
	userRepo    UserRepository
	balanceRepo BalanceRepository
}

// NewBalanceResolver creates a new BalanceResolver.
func NewBalanceResolver(userRepo UserRepository, balanceRepo BalanceRepository) *BalanceResolver {
	return &BalanceResolver{
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
	}
}

// EffectiveBalance returns the spendable amount of currency for the user.
// A missing balance row counts as zero. The result is never cached: it
// gates fund-sufficiency decisions.
func (r *BalanceResolver) EffectiveBalance(ctx context.Context, userID, currency string) (decimal.Decimal, error) {
	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	amount := decimal.Zero

	balance, err := r.balanceRepo.Get(ctx, userID, currency)
	switch {
	case err == nil:
		amount = balance.Amount
	case errors.Is(err, domain.ErrBalanceNotFound):
		// lazily-created row, zero until first credit
	default:
		return decimal.Zero, err
	}

	if currency == domain.LegacyCurrency {
		amount = amount.Add(user.LegacyBalance)
	}

	return amount, nil
}

// lockedFunds is a user's spendable position in one currency, read under
// row locks inside a settlement transaction.
type lockedFunds struct {
	user      *domain.User
	balance   *domain.CurrencyBalance
	effective decimal.Decimal
}

// lockFunds locks the user row and the currency balance row and resolves
// the effective balance against the locked state. A missing balance row is
// synthesized at zero; the later upsert creates it.
func (r *BalanceResolver) lockFunds(ctx context.Context, tx Transaction, userID, currency string) (*lockedFunds, error) {
	user, err := r.userRepo.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := r.lockBalanceRow(ctx, tx, userID, currency)
	if err != nil {
		return nil, err
	}

	effective := balance.Amount
	if currency == domain.LegacyCurrency {
		effective = effective.Add(user.LegacyBalance)
	}

	return &lockedFunds{user: user, balance: balance, effective: effective}, nil
}

func (r *BalanceResolver) lockBalanceRow(ctx context.Context, tx Transaction, userID, currency string) (*domain.CurrencyBalance, error) {
	balance, err := r.balanceRepo.GetForUpdate(ctx, tx, userID, currency)
	if err != nil {
		if errors.Is(err, domain.ErrBalanceNotFound) {
			return &domain.CurrencyBalance{
				UserID:   userID,
				Currency: currency,
				Amount:   decimal.Zero,
			}, nil
		}
		return nil, err
	}
	return balance, nil
}

// debit removes amount from the locked funds, draining the balance row
// first and covering any remainder from the legacy balance. The caller has
// already verified effective >= amount against the same locked rows.
func (r *BalanceResolver) debit(ctx context.Context, tx Transaction, funds *lockedFunds, amount decimal.Decimal, now time.Time) error {
	fromRow := decimal.Min(funds.balance.Amount, amount)
	remainder := amount.Sub(fromRow)

	funds.balance.Amount = funds.balance.Amount.Sub(fromRow)
	funds.balance.UpdatedAt = now
	if err := r.balanceRepo.Upsert(ctx, tx, funds.balance); err != nil {
		return err
	}

	if remainder.IsPositive() {
		newLegacy := funds.user.LegacyBalance.Sub(remainder)
		if err := r.userRepo.UpdateLegacyBalance(ctx, tx, funds.user.ID, newLegacy, now); err != nil {
			return err
		}
		funds.user.LegacyBalance = newLegacy
	}

	funds.effective = funds.effective.Sub(amount)

	return nil
}

// credit adds amount to the locked balance row. Credits always land in the
// multi-currency table, never in the legacy field.
func (r *BalanceResolver) credit(ctx context.Context, tx Transaction, funds *lockedFunds, amount decimal.Decimal, now time.Time) error {
	funds.balance.Amount = funds.balance.Amount.Add(amount)
	funds.balance.UpdatedAt = now
	if err := r.balanceRepo.Upsert(ctx, tx, funds.balance); err != nil {
		return err
	}

	funds.effective = funds.effective.Add(amount)

	return nil
}
