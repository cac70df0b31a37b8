package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

// MockUserRepository is an in-memory UserRepository with per-method overrides.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc              func(ctx context.Context, user *domain.User) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.User, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error)
	UpdateLegacyBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) UpdateLegacyBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateLegacyBalanceFunc != nil {
		return m.UpdateLegacyBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LegacyBalance = balance
	u.UpdatedAt = updatedAt
	return nil
}

func (m *MockUserRepository) UpdatePreferredCurrency(ctx context.Context, id, currency string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PreferredCurrency = currency
	u.UpdatedAt = updatedAt
	return nil
}

// MockBalanceRepository is an in-memory BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.CurrencyBalance

	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userID, currency string) (*domain.CurrencyBalance, error)
	UpsertFunc       func(ctx context.Context, tx usecase.Transaction, balance *domain.CurrencyBalance) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{balances: make(map[string]*domain.CurrencyBalance)}
}

func balanceKey(userID, currency string) string {
	return userID + "/" + currency
}

func (m *MockBalanceRepository) Get(ctx context.Context, userID, currency string) (*domain.CurrencyBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[balanceKey(userID, currency)]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, domain.ErrBalanceNotFound
}

func (m *MockBalanceRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, currency string) (*domain.CurrencyBalance, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, userID, currency)
	}
	return m.Get(ctx, userID, currency)
}

func (m *MockBalanceRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CurrencyBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CurrencyBalance
	for _, b := range m.balances {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockBalanceRepository) Upsert(ctx context.Context, tx usecase.Transaction, balance *domain.CurrencyBalance) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *balance
	m.balances[balanceKey(balance.UserID, balance.Currency)] = &copied
	return nil
}

// MockHoldingRepository is an in-memory HoldingRepository.
type MockHoldingRepository struct {
	mu       sync.RWMutex
	holdings map[string]*domain.Holding

	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userID, symbol, currency string) (*domain.Holding, error)
	UpsertFunc       func(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error
	DeleteFunc       func(ctx context.Context, tx usecase.Transaction, userID, symbol, currency string) error
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{holdings: make(map[string]*domain.Holding)}
}

func holdingKey(userID, symbol, currency string) string {
	return userID + "/" + symbol + "/" + currency
}

func (m *MockHoldingRepository) Get(ctx context.Context, userID, symbol, currency string) (*domain.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if h, ok := m.holdings[holdingKey(userID, symbol, currency)]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, domain.ErrHoldingNotFound
}

func (m *MockHoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, userID, symbol, currency string) (*domain.Holding, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, userID, symbol, currency)
	}
	return m.Get(ctx, userID, symbol, currency)
}

func (m *MockHoldingRepository) ListByUser(ctx context.Context, userID, currency string) ([]*domain.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Holding
	for _, h := range m.holdings {
		if h.UserID != userID {
			continue
		}
		if currency != "" && h.Currency != currency {
			continue
		}
		copied := *h
		out = append(out, &copied)
	}
	return out, nil
}

func (m *MockHoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, holding)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *holding
	m.holdings[holdingKey(holding.UserID, holding.Symbol, holding.Currency)] = &copied
	return nil
}

func (m *MockHoldingRepository) Delete(ctx context.Context, tx usecase.Transaction, userID, symbol, currency string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, userID, symbol, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holdings, holdingKey(userID, symbol, currency))
	return nil
}

// MockTransactionRepository is an in-memory append-only transaction log.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	records []*domain.TransactionRecord

	CreateFunc func(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records = append(m.records, &copied)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID, currency string, limit, offset int) ([]*domain.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var filtered []*domain.TransactionRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.UserID != userID {
			continue
		}
		if currency != "" && r.Currency != currency {
			continue
		}
		copied := *r
		filtered = append(filtered, &copied)
	}
	if offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[offset:]
	if limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// All returns every stored record, oldest first.
func (m *MockTransactionRepository) All() []*domain.TransactionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.TransactionRecord, len(m.records))
	copy(out, m.records)
	return out
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager hands out no-op transactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + time.Now().UTC().Format("20060102") + "-" + decimal.NewFromInt(int64(m.counter)).String()
}

// PassthroughRetrier runs operations exactly once.
type PassthroughRetrier struct{}

func (PassthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// FixedOracle serves stubbed prices keyed by assetID/currency and stubbed
// forex rates keyed by from/to.
type FixedOracle struct {
	mu     sync.RWMutex
	Prices map[string]decimal.Decimal
	Rates  map[string]decimal.Decimal

	GetUnitPriceFunc func(ctx context.Context, assetID, currency string) (*domain.Quote, error)
	GetRateFunc      func(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error)
}

func NewFixedOracle() *FixedOracle {
	return &FixedOracle{
		Prices: make(map[string]decimal.Decimal),
		Rates:  make(map[string]decimal.Decimal),
	}
}

// SetPrice stubs the unit price of assetID in currency.
func (o *FixedOracle) SetPrice(assetID, currency string, price decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Prices[assetID+"/"+currency] = price
}

// SetRate stubs a forex rate, toCurrency per fromCurrency.
func (o *FixedOracle) SetRate(from, to string, rate decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Rates[from+"/"+to] = rate
}

func (o *FixedOracle) GetUnitPrice(ctx context.Context, assetID, currency string) (*domain.Quote, error) {
	if o.GetUnitPriceFunc != nil {
		return o.GetUnitPriceFunc(ctx, assetID, currency)
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	price, ok := o.Prices[assetID+"/"+currency]
	if !ok {
		return nil, domain.ErrPriceUnavailable
	}
	return &domain.Quote{
		AssetID:  assetID,
		Currency: currency,
		Price:    price,
		AsOf:     time.Now().UTC(),
	}, nil
}

func (o *FixedOracle) GetRate(ctx context.Context, fromCurrency, toCurrency string) (decimal.Decimal, error) {
	if o.GetRateFunc != nil {
		return o.GetRateFunc(ctx, fromCurrency, toCurrency)
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	rate, ok := o.Rates[fromCurrency+"/"+toCurrency]
	if !ok {
		return decimal.Zero, domain.ErrPriceUnavailable
	}
	return rate, nil
}
