package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/minibank/internal/adapter/http/handler"
	"github.com/iho/minibank/internal/adapter/http/middleware"
	"github.com/iho/minibank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler      *handler.LedgerHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	StatusHandler      *handler.StatusHandler
	HealthHandler      *handler.HealthHandler
	Logger             zerolog.Logger
	RateLimiter        *middleware.RateLimiter
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Get("/status", cfg.StatusHandler.Status)

		r.Route("/accounts/{number}", func(r chi.Router) {
			r.Get("/balance", cfg.AccountHandler.GetBalance)
			r.Get("/transactions", cfg.TransactionHandler.ListByAccount)
			r.Post("/deposit", cfg.LedgerHandler.Deposit)
			r.Post("/withdraw", cfg.LedgerHandler.Withdraw)
		})
	})

	return r
}
