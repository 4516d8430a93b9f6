package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grinventions/slateboy/config"
	httpHandler "github.com/grinventions/slateboy/internal/adapter/http/handler"
	pgStorage "github.com/grinventions/slateboy/internal/adapter/storage/postgres"
	redisStorage "github.com/grinventions/slateboy/internal/adapter/storage/redis"
	"github.com/grinventions/slateboy/internal/adapter/wallet"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/internal/service"
	"github.com/grinventions/slateboy/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting slateboy")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	registryRepo := pgStorage.NewRegistryRepo(pool)
	consentRepo := pgStorage.NewConsentRepo(pool)
	bankRepo := pgStorage.NewBankRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	sweepMarks := redisStorage.NewSweepMarkStore(rdb)
	warnings := redisStorage.NewWarningStore(rdb)

	// Initialize wallet client
	walletClient := wallet.NewClient(cfg.Wallet, log)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	authSvc := service.NewOpsAuthService(cfg.Ops, hashSvc, tokenSvc, log)
	reportingSvc := service.NewReportingService(ledgerRepo, registryRepo, bankRepo)

	// Initialize the custodial policy and protocol engine. The engine is
	// driven by the chat transport bridge under /api/v1/chat.
	policy := service.NewDefaultPolicy(ledgerRepo, registryRepo, consentRepo, bankRepo, warnings, transactor, cfg.Policy, log)
	userLocks := service.NewUserLocks()
	engine := service.NewEngine(walletClient, policy, ledgerRepo, userLocks, log)

	// Initialize the reconciliation scheduler
	notifier := service.NewLogNotifier(log)
	scheduler := service.NewScheduler(
		walletClient,
		policy,
		policy,
		ledgerRepo,
		registryRepo,
		sweepMarks,
		notifier,
		userLocks,
		cfg.Sweep,
		cfg.Policy,
		log,
	)

	schedCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	go scheduler.Run(schedCtx)
	log.Info().
		Dur("tx_interval", cfg.Sweep.TxInterval).
		Dur("accounting_interval", cfg.Sweep.AccountingInterval).
		Msg("Reconciliation scheduler started")

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)
	walletHealth := wallet.NewHealthCheck(walletClient)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		Engine:         engine,
		ReportingSvc:   reportingSvc,
		Sweeper:        scheduler,
		Ledger:         ledgerRepo,
		Registry:       registryRepo,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth, walletHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
