package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

// HoldingRepository implements usecase.HoldingRepository.
type HoldingRepository struct {
	pool *pgxpool.Pool
}

// NewHoldingRepository creates a new holding repository.
func NewHoldingRepository(pool *pgxpool.Pool) *HoldingRepository {
	return &HoldingRepository{pool: pool}
}

const holdingColumns = `user_id, symbol, currency, amount, cost_basis, updated_at`

// Get retrieves a single holding.
func (r *HoldingRepository) Get(ctx context.Context, userID, symbol, currency string) (*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1 AND symbol = $2 AND currency = $3
	`

	return scanHolding(r.pool.QueryRow(ctx, query, userID, symbol, currency))
}

// GetForUpdate retrieves a holding with a FOR UPDATE lock.
func (r *HoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, symbol, currency string) (*domain.Holding, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1 AND symbol = $2 AND currency = $3
		FOR UPDATE
	`

	return scanHolding(pgxTx.QueryRow(ctx, query, userID, symbol, currency))
}

// ListByUser retrieves a user's holdings, optionally filtered by the
// purchase currency. An empty currency matches all.
func (r *HoldingRepository) ListByUser(ctx context.Context, userID, currency string) ([]*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1 AND ($2 = '' OR currency = $2)
		ORDER BY symbol, currency
	`

	rows, err := r.pool.Query(ctx, query, userID, currency)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []*domain.Holding
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}

	return holdings, rows.Err()
}

// Upsert inserts or replaces a holding.
func (r *HoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	query := `
		INSERT INTO holdings (user_id, symbol, currency, amount, cost_basis, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, symbol, currency)
		DO UPDATE SET amount = EXCLUDED.amount, cost_basis = EXCLUDED.cost_basis, updated_at = EXCLUDED.updated_at
	`

	args := []any{
		holding.UserID,
		holding.Symbol,
		holding.Currency,
		decimalToNumeric(holding.Amount),
		decimalToNumeric(holding.CostBasis),
		timeToPgTimestamptz(holding.UpdatedAt),
	}

	if tx != nil {
		_, err := tx.(*Tx).PgxTx().Exec(ctx, query, args...)
		return err
	}

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

// Delete removes a holding. Settlements call this when a sell leaves a
// dust-sized remainder.
func (r *HoldingRepository) Delete(ctx context.Context, tx usecase.Transaction, userID, symbol, currency string) error {
	query := `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2 AND currency = $3`

	if tx != nil {
		_, err := tx.(*Tx).PgxTx().Exec(ctx, query, userID, symbol, currency)
		return err
	}

	_, err := r.pool.Exec(ctx, query, userID, symbol, currency)
	return err
}

func scanHolding(row pgx.Row) (*domain.Holding, error) {
	var (
		holding   domain.Holding
		amount    pgtype.Numeric
		costBasis pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&holding.UserID,
		&holding.Symbol,
		&holding.Currency,
		&amount,
		&costBasis,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHoldingNotFound
		}

		return nil, err
	}

	holding.Amount = numericToDecimal(amount)
	holding.CostBasis = numericToDecimal(costBasis)
	holding.UpdatedAt = updatedAt.Time

	return &holding, nil
}
