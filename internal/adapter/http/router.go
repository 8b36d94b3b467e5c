package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dnrdl12/remit/internal/adapter/http/handler"
	"github.com/dnrdl12/remit/internal/adapter/http/middleware"
	"github.com/dnrdl12/remit/internal/infrastructure/auth"
	"github.com/dnrdl12/remit/internal/infrastructure/metrics"
	"github.com/dnrdl12/remit/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	MemberHandler    *handler.MemberHandler
	AccountHandler   *handler.AccountHandler
	TransferHandler  *handler.TransferHandler
	EntryHandler     *handler.EntryHandler
	FeePolicyHandler *handler.FeePolicyHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
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

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		// HTTP-level replay cache for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Members
		r.Route("/members", func(r chi.Router) {
			r.Post("/", cfg.MemberHandler.Register)
			r.Get("/", cfg.MemberHandler.Search)
			r.Get("/{id}", cfg.MemberHandler.Get)
			r.Delete("/{id}", cfg.MemberHandler.Delete)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Patch("/{id}", cfg.AccountHandler.Patch)
			r.Delete("/{id}", cfg.AccountHandler.Close)
			r.Get("/{id}/balance", cfg.AccountHandler.GetBalance)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByAccount)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByAccount)
		})

		// Transfers
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/deposit", cfg.TransferHandler.Deposit)
			r.Post("/withdraw", cfg.TransferHandler.Withdraw)
			r.Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
			r.Get("/{id}/entries", cfg.EntryHandler.ListByTransfer)
		})

		// Fee policies
		r.Route("/fee-policies", func(r chi.Router) {
			r.Get("/", cfg.FeePolicyHandler.List)
			r.Get("/{id}", cfg.FeePolicyHandler.Get)
		})

		// Reconciliation
		r.Get("/ledger/consistency", cfg.EntryHandler.CheckConsistency)
	})

	return r
}
