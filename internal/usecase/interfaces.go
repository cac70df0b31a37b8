package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
)

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateLegacyBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdatePreferredCurrency(ctx context.Context, id, currency string, updatedAt time.Time) error
}

// BalanceRepository defines data access for per-currency cash balances.
type BalanceRepository interface {
	// Get returns domain.ErrBalanceNotFound when no row exists; callers
	// treat a missing row as a zero balance.
	Get(ctx context.Context, userID, currency string) (*domain.CurrencyBalance, error)
	GetForUpdate(ctx context.Context, tx Transaction, userID, currency string) (*domain.CurrencyBalance, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.CurrencyBalance, error)
	Upsert(ctx context.Context, tx Transaction, balance *domain.CurrencyBalance) error
}

// HoldingRepository defines data access for crypto holdings.
type HoldingRepository interface {
	Get(ctx context.Context, userID, symbol, currency string) (*domain.Holding, error)
	GetForUpdate(ctx context.Context, tx Transaction, userID, symbol, currency string) (*domain.Holding, error)
	// ListByUser lists holdings, optionally filtered by currency ("" = all).
	ListByUser(ctx context.Context, userID, currency string) ([]*domain.Holding, error)
	Upsert(ctx context.Context, tx Transaction, holding *domain.Holding) error
	Delete(ctx context.Context, tx Transaction, userID, symbol, currency string) error
}

// TransactionRepository defines access to the append-only audit log.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.TransactionRecord) error
	GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error)
	// ListByUser lists records newest first, optionally filtered by currency.
	ListByUser(ctx context.Context, userID, currency string, limit, offset int) ([]*domain.TransactionRecord, error)
}

// PriceOracle supplies current unit prices and forex rates. Implementations
// may retry across providers and cache internally; callers see one
// success-or-failure outcome per call.
type PriceOracle interface {
	GetUnitPrice(ctx context.Context, assetID, currency string) (*domain.Quote, error)
	GetRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
