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

// TransactionRepository implements usecase.TransactionRepository. The
// transactions table is append-only; records are never updated or deleted.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, asset_id, symbol, name, type, amount, unit_price, total, currency, from_currency, to_currency, rate, created_at`

// Create appends a transaction record inside a settlement transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	query := `
		INSERT INTO transactions (id, user_id, asset_id, symbol, name, type, amount, unit_price, total, currency, from_currency, to_currency, rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	args := []any{
		record.ID,
		record.UserID,
		record.AssetID,
		record.Symbol,
		record.Name,
		string(record.Type),
		decimalToNumeric(record.Amount),
		decimalToNumeric(record.UnitPrice),
		decimalToNumeric(record.Total),
		record.Currency,
		record.FromCurrency,
		record.ToCurrency,
		decimalToNumeric(record.Rate),
		timeToPgTimestamptz(record.CreatedAt),
	}

	if tx != nil {
		_, err := tx.(*Tx).PgxTx().Exec(ctx, query, args...)
		return err
	}

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

// GetByID retrieves a transaction record.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListByUser retrieves a user's transaction records, newest first,
// optionally filtered by settlement currency.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID, currency string, limit, offset int) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND ($2 = '' OR currency = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, userID, currency, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.TransactionRecord
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.TransactionRecord, error) {
	var (
		record    domain.TransactionRecord
		txType    string
		amount    pgtype.Numeric
		unitPrice pgtype.Numeric
		total     pgtype.Numeric
		rate      pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.AssetID,
		&record.Symbol,
		&record.Name,
		&txType,
		&amount,
		&unitPrice,
		&total,
		&record.Currency,
		&record.FromCurrency,
		&record.ToCurrency,
		&rate,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	record.Type = domain.TransactionType(txType)
	record.Amount = numericToDecimal(amount)
	record.UnitPrice = numericToDecimal(unitPrice)
	record.Total = numericToDecimal(total)
	record.Rate = numericToDecimal(rate)
	record.CreatedAt = createdAt.Time

	return &record, nil
}
