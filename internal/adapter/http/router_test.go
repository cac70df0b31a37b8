package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/robyoreal/bitcoin/internal/adapter/http/handler"
	apimiddleware "github.com/robyoreal/bitcoin/internal/adapter/http/middleware"
	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/infrastructure/auth"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimit = 1
		cfg.RateBurst = 1
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_ProtectedRouteRequiresToken(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/balance", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestNewRouter_ProtectedRouteAcceptsValidToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
	}))

	token, err := jwtManager.Generate(&domain.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/account/balance", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
		cfg.IdempotencyStore = store
	}))

	token, err := jwtManager.Generate(&domain.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	body := `{"amount":"100","currency":"usd"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/deposit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/currencies",
		"GET /api/v1/account/balance",
		"POST /api/v1/account/deposit",
		"POST /api/v1/account/exchange",
		"POST /api/v1/trade/buy",
		"POST /api/v1/trade/sell",
		"GET /api/v1/portfolio",
		"GET /api/v1/stats",
		"GET /api/v1/history",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)

	cfg := RouterConfig{
		AuthHandler:      handler.NewAuthHandler(stubUserService{}, jwtManager, nil),
		AccountHandler:   handler.NewAccountHandler(stubSettlementService{}, stubBalanceReader{}),
		TradeHandler:     handler.NewTradeHandler(stubSettlementService{}),
		PortfolioHandler: handler.NewPortfolioHandler(stubPortfolioService{}),
		HealthHandler:    &handler.HealthHandler{},
		JWTManager:       jwtManager,
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return &domain.User{ID: "user-1", Username: input.Username, Email: input.Email}, nil
}

func (stubUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return &domain.User{ID: "user-1", Username: username}, nil
}

func (stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (stubUserService) SetPreferredCurrency(ctx context.Context, userID, currency string) error {
	return nil
}

type stubSettlementService struct{}

func (stubSettlementService) Deposit(ctx context.Context, input usecase.DepositInput) (*usecase.DepositResult, error) {
	return &usecase.DepositResult{NewBalance: input.Amount}, nil
}

func (stubSettlementService) Buy(ctx context.Context, input usecase.BuyInput) (*usecase.BuyResult, error) {
	return &usecase.BuyResult{}, nil
}

func (stubSettlementService) Sell(ctx context.Context, input usecase.SellInput) (*usecase.SellResult, error) {
	return &usecase.SellResult{}, nil
}

func (stubSettlementService) Exchange(ctx context.Context, input usecase.ExchangeInput) (*usecase.ExchangeResult, error) {
	return &usecase.ExchangeResult{ConvertedAmount: input.Amount}, nil
}

type stubBalanceReader struct{}

func (stubBalanceReader) EffectiveBalance(ctx context.Context, userID, currency string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubPortfolioService struct{}

func (stubPortfolioService) GetPortfolio(ctx context.Context, userID, currency string) ([]*domain.Holding, error) {
	return []*domain.Holding{}, nil
}

func (stubPortfolioService) ComputeStats(ctx context.Context, userID string) (map[string]*domain.StatsRecord, error) {
	return map[string]*domain.StatsRecord{}, nil
}

func (stubPortfolioService) GetHistory(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.TransactionRecord, error) {
	return []*domain.TransactionRecord{}, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
