package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/dnrdl12/remit/internal/adapter/http"
	"github.com/dnrdl12/remit/internal/adapter/http/handler"
	postgresRepo "github.com/dnrdl12/remit/internal/adapter/repository/postgres"
	redisRepo "github.com/dnrdl12/remit/internal/adapter/repository/redis"
	"github.com/dnrdl12/remit/internal/infrastructure/auth"
	"github.com/dnrdl12/remit/internal/infrastructure/config"
	"github.com/dnrdl12/remit/internal/infrastructure/crypto"
	"github.com/dnrdl12/remit/internal/infrastructure/eventpublisher"
	"github.com/dnrdl12/remit/internal/infrastructure/logger"
	"github.com/dnrdl12/remit/internal/infrastructure/metrics"
	"github.com/dnrdl12/remit/internal/infrastructure/postgres"
	"github.com/dnrdl12/remit/internal/infrastructure/redis"
	"github.com/dnrdl12/remit/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "remit"})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations before accepting traffic when configured to.
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// PII cryptor
	cryptor, err := crypto.New(cfg.AESKeyBase64, cfg.HMACKeyBase64)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cryptor")
	}

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier()
	classifier := postgresRepo.NewErrorClassifier()
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	snapshotRepo := postgresRepo.NewSnapshotRepository(pool)
	feePolicyRepo := postgresRepo.NewFeePolicyRepository(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	transferUC := usecase.NewTransferUseCase(
		usecase.SettlementConfig{
			SystemAccountID: cfg.SystemAccountID,
			FeeAccountID:    cfg.FeeAccountID,
			Currency:        cfg.DefaultCurrency,
		},
		txManager, retrier,
		accountRepo, transferRepo, ledgerRepo, snapshotRepo, feePolicyRepo, outboxRepo,
		classifier, idGen,
	)
	accountUC := usecase.NewAccountUseCase(
		usecase.AccountDefaults{
			BankCode:           cfg.DefaultBankCode,
			BranchCode:         cfg.DefaultBranchCode,
			DailyTransferLimit: cfg.DefaultDailyTransferLimit,
			DailyWithdrawLimit: cfg.DefaultDailyWithdrawLimit,
		},
		txManager, accountRepo, memberRepo, snapshotRepo, feePolicyRepo, cache,
	)
	memberUC := usecase.NewMemberUseCase(memberRepo, cryptor)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, snapshotRepo)

	// Initialize handlers
	memberHandler := handler.NewMemberHandler(memberUC)
	accountHandler := handler.NewAccountHandler(accountUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	entryHandler := handler.NewEntryHandler(ledgerUC)
	feePolicyHandler := handler.NewFeePolicyHandler(feePolicyRepo)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		MemberHandler:    memberHandler,
		AccountHandler:   accountHandler,
		TransferHandler:  transferHandler,
		EntryHandler:     entryHandler,
		FeePolicyHandler: feePolicyHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		JWTManager:       jwtManager,
		Logger:           appLogger,
		Metrics:          appMetrics,
		RateLimit:        cfg.RateLimitRPS,
		RateBurst:        cfg.RateLimitBurst,
	})

	// Start the outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
