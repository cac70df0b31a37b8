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

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new balance repository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// Get retrieves a single currency balance row.
func (r *BalanceRepository) Get(ctx context.Context, userID, currency string) (*domain.CurrencyBalance, error) {
	query := `
		SELECT user_id, currency, amount, updated_at
		FROM currency_balances
		WHERE user_id = $1 AND currency = $2
	`

	return scanBalance(r.pool.QueryRow(ctx, query, userID, currency))
}

// GetForUpdate retrieves a currency balance row with a FOR UPDATE lock.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, currency string) (*domain.CurrencyBalance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT user_id, currency, amount, updated_at
		FROM currency_balances
		WHERE user_id = $1 AND currency = $2
		FOR UPDATE
	`

	return scanBalance(pgxTx.QueryRow(ctx, query, userID, currency))
}

// ListByUser retrieves all currency balances for a user.
func (r *BalanceRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CurrencyBalance, error) {
	query := `
		SELECT user_id, currency, amount, updated_at
		FROM currency_balances
		WHERE user_id = $1
		ORDER BY currency
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.CurrencyBalance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, rows.Err()
}

// Upsert inserts or replaces a currency balance row.
func (r *BalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.CurrencyBalance) error {
	query := `
		INSERT INTO currency_balances (user_id, currency, amount, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, currency)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
	`

	args := []any{
		balance.UserID,
		balance.Currency,
		decimalToNumeric(balance.Amount),
		timeToPgTimestamptz(balance.UpdatedAt),
	}

	if tx != nil {
		_, err := tx.(*Tx).PgxTx().Exec(ctx, query, args...)
		return err
	}

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func scanBalance(row pgx.Row) (*domain.CurrencyBalance, error) {
	var (
		balance   domain.CurrencyBalance
		amount    pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&balance.UserID, &balance.Currency, &amount, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}

		return nil, err
	}

	balance.Amount = numericToDecimal(amount)
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}
