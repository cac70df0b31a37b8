package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
)

// HoldingsLedger maintains per (user, symbol, currency) positions with a
// weighted-average cost basis. All mutations run inside the caller's
// settlement transaction.
type HoldingsLedger struct {
	holdingRepo HoldingRepository
}

// NewHoldingsLedger creates a new HoldingsLedger.
func NewHoldingsLedger(holdingRepo HoldingRepository) *HoldingsLedger {
	return &HoldingsLedger{holdingRepo: holdingRepo}
}

// ApplyBuy increases the position, creating it on first buy. The cost basis
// becomes the amount-weighted average of the existing basis and the new
// purchase; the pre-update amount is the weight.
func (l *HoldingsLedger) ApplyBuy(ctx context.Context, tx Transaction, userID, symbol, currency string, amount, unitPrice decimal.Decimal) (*domain.Holding, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()

	holding, err := l.holdingRepo.GetForUpdate(ctx, tx, userID, symbol, currency)
	if err != nil {
		if !errors.Is(err, domain.ErrHoldingNotFound) {
			return nil, err
		}
		holding = &domain.Holding{
			UserID:    userID,
			Symbol:    symbol,
			Currency:  currency,
			Amount:    amount,
			CostBasis: unitPrice,
			UpdatedAt: now,
		}
		if err := l.holdingRepo.Upsert(ctx, tx, holding); err != nil {
			return nil, err
		}
		return holding, nil
	}

	if err := holding.ApplyBuy(amount, unitPrice); err != nil {
		return nil, err
	}

	holding.UpdatedAt = now
	if err := l.holdingRepo.Upsert(ctx, tx, holding); err != nil {
		return nil, err
	}

	return holding, nil
}

// ApplySell decreases the position, leaving the cost basis untouched. When
// the remainder falls to the dust threshold or below, the row is deleted
// rather than kept near zero.
func (l *HoldingsLedger) ApplySell(ctx context.Context, tx Transaction, userID, symbol, currency string, amount decimal.Decimal) (*domain.Holding, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	holding, err := l.holdingRepo.GetForUpdate(ctx, tx, userID, symbol, currency)
	if err != nil {
		if errors.Is(err, domain.ErrHoldingNotFound) {
			return nil, &domain.InsufficientHoldingsError{
				Symbol:    symbol,
				Currency:  currency,
				Requested: amount,
				Available: decimal.Zero,
			}
		}
		return nil, err
	}

	if err := holding.ApplySell(amount); err != nil {
		return nil, err
	}

	if holding.IsDust() {
		if err := l.holdingRepo.Delete(ctx, tx, userID, symbol, currency); err != nil {
			return nil, err
		}
		holding.Amount = decimal.Zero
		return holding, nil
	}

	holding.UpdatedAt = time.Now().UTC()
	if err := l.holdingRepo.Upsert(ctx, tx, holding); err != nil {
		return nil, err
	}

	return holding, nil
}
