package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/minibank/internal/adapter/http"
	"github.com/iho/minibank/internal/adapter/http/handler"
	"github.com/iho/minibank/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/minibank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/minibank/internal/adapter/repository/redis"
	"github.com/iho/minibank/internal/infrastructure/config"
	"github.com/iho/minibank/internal/infrastructure/logging"
	"github.com/iho/minibank/internal/infrastructure/metrics"
	"github.com/iho/minibank/internal/infrastructure/postgres"
	"github.com/iho/minibank/internal/infrastructure/redis"
	"github.com/iho/minibank/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("connected to redis")

	// Metrics
	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, cfg.LockTimeout.String())
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	retrier := postgresRepo.NewRetrier(logger)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, idGen, retrier, cache, m)
	queryUC := usecase.NewQueryUseCase(accountRepo, transactionRepo, cache, m)
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, m)

	// Seed the initial account on an empty store
	if cfg.SeedEnabled {
		balance, err := decimal.NewFromString(cfg.SeedBalance)
		if err != nil {
			logger.Fatal().Err(err).Str("balance", cfg.SeedBalance).Msg("invalid seed balance")
		}

		account, err := accountUC.SeedIfEmpty(ctx, cfg.SeedAccount, balance)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed account")
		}
		if account != nil {
			logger.Info().
				Str("account_number", account.Number).
				Str("balance", account.Balance.String()).
				Msg("seeded initial account")
		}
	}

	// Initialize handlers
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	accountHandler := handler.NewAccountHandler(queryUC)
	transactionHandler := handler.NewTransactionHandler(queryUC)
	statusHandler := handler.NewStatusHandler(version)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:      ledgerHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		StatusHandler:      statusHandler,
		HealthHandler:      healthHandler,
		Logger:             logger,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("version", version).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
