package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/robyoreal/bitcoin/internal/adapter/http/handler"
	"github.com/robyoreal/bitcoin/internal/adapter/http/middleware"
	"github.com/robyoreal/bitcoin/internal/infrastructure/auth"
	"github.com/robyoreal/bitcoin/internal/infrastructure/metrics"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	AccountHandler   *handler.AccountHandler
	TradeHandler     *handler.TradeHandler
	PortfolioHandler *handler.PortfolioHandler
	HealthHandler    *handler.HealthHandler
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)
		r.Get("/currencies", cfg.AccountHandler.ListCurrencies)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.Put("/auth/currency", cfg.AuthHandler.SetPreferredCurrency)

			r.Route("/account", func(r chi.Router) {
				r.Get("/balance", cfg.AccountHandler.GetBalance)
				r.Get("/balances", cfg.AccountHandler.ListBalances)
				r.Post("/deposit", cfg.AccountHandler.Deposit)
				r.Post("/exchange", cfg.AccountHandler.Exchange)
			})

			r.Route("/trade", func(r chi.Router) {
				r.Post("/buy", cfg.TradeHandler.Buy)
				r.Post("/sell", cfg.TradeHandler.Sell)
			})

			r.Get("/portfolio", cfg.PortfolioHandler.GetPortfolio)
			r.Get("/stats", cfg.PortfolioHandler.GetStats)
			r.Get("/history", cfg.PortfolioHandler.GetHistory)
		})
	})

	return r
}
