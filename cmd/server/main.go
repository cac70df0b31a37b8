package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/robyoreal/bitcoin/internal/adapter/http"
	"github.com/robyoreal/bitcoin/internal/adapter/http/handler"
	"github.com/robyoreal/bitcoin/internal/adapter/pricing"
	postgresRepo "github.com/robyoreal/bitcoin/internal/adapter/repository/postgres"
	redisRepo "github.com/robyoreal/bitcoin/internal/adapter/repository/redis"
	"github.com/robyoreal/bitcoin/internal/infrastructure/auth"
	"github.com/robyoreal/bitcoin/internal/infrastructure/config"
	"github.com/robyoreal/bitcoin/internal/infrastructure/logger"
	"github.com/robyoreal/bitcoin/internal/infrastructure/metrics"
	"github.com/robyoreal/bitcoin/internal/infrastructure/postgres"
	"github.com/robyoreal/bitcoin/internal/infrastructure/redis"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		appLogger.Fatal().Msg("JWT_SECRET must be set")
	}

	startingBalance, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil {
		appLogger.Fatal().Err(err).Str("value", cfg.StartingBalance).Msg("invalid starting balance")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	userRepo := postgresRepo.NewUserRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	holdingRepo := postgresRepo.NewHoldingRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Price oracle: CoinGecko primary, Binance fallback, quotes and FX
	// rates cached in Redis.
	failover := pricing.NewFailoverOracle(
		[]pricing.PriceProvider{
			pricing.NewCoinGeckoClient(cfg.CoinGeckoAPIKey),
			pricing.NewBinanceClient(),
		},
		[]pricing.RateProvider{
			pricing.NewExchangeRateClient(),
		},
		m,
		appLogger,
	)
	oracle := pricing.NewCachedOracle(failover, cache, m, cfg.PriceCacheTTL, cfg.RateCacheTTL)

	// Use cases
	resolver := usecase.NewBalanceResolver(userRepo, balanceRepo)
	holdings := usecase.NewHoldingsLedger(holdingRepo)
	settlementUC := usecase.NewSettlementUseCase(txManager, retrier, resolver, holdings, transactionRepo, oracle, idGen, m, appLogger)
	portfolioUC := usecase.NewPortfolioUseCase(userRepo, balanceRepo, holdingRepo, transactionRepo, resolver, oracle, appLogger)
	userUC := usecase.NewUserUseCase(userRepo, idGen, startingBalance)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager, m)
	accountHandler := handler.NewAccountHandler(settlementUC, resolver)
	tradeHandler := handler.NewTradeHandler(settlementUC)
	portfolioHandler := handler.NewPortfolioHandler(portfolioUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      authHandler,
		AccountHandler:   accountHandler,
		TradeHandler:     tradeHandler,
		PortfolioHandler: portfolioHandler,
		HealthHandler:    healthHandler,
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		Metrics:          m,
		Logger:           appLogger,
		RateLimit:        float64(cfg.HTTPRateLimit),
		RateBurst:        cfg.HTTPRateBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
