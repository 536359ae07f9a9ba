package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coopandina/teller/internal/application/usecase"
	"github.com/coopandina/teller/internal/infrastructure/auth"
	"github.com/coopandina/teller/internal/infrastructure/config"
	"github.com/coopandina/teller/internal/infrastructure/idgen"
	infraKafka "github.com/coopandina/teller/internal/infrastructure/kafka"
	"github.com/coopandina/teller/internal/infrastructure/location"
	"github.com/coopandina/teller/internal/infrastructure/postgres"
	"github.com/coopandina/teller/internal/infrastructure/receipt"
	"github.com/coopandina/teller/internal/infrastructure/remote"
	grpcPresentation "github.com/coopandina/teller/internal/presentation/grpc"
	"github.com/coopandina/teller/internal/presentation/rest"
)

func main() {
	// Initialize structured logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting teller service")

	// Load configuration.
	cfg := config.Load()

	dailyMoraRate, err := decimal.NewFromString(cfg.DailyMoraRate)
	if err != nil {
		logger.Error("invalid DAILY_MORA_RATE", "value", cfg.DailyMoraRate, "error", err)
		os.Exit(1)
	}

	// Initialize database connection pool.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database", "database", cfg.Database.Database)

	// Run database migrations.
	if migErr := postgres.RunMigrations(cfg.Database.DSN(), "file://internal/infrastructure/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Initialize infrastructure adapters.
	memberRepo := postgres.NewMemberRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	collectionRepo := postgres.NewCollectionRepository(pool)

	publisher := infraKafka.NewPublisher(cfg.Kafka.Brokers)
	defer publisher.Close()

	remoteClient := remote.NewClient(cfg.Remote)
	ids := idgen.New()
	locationProvider := location.NewEnvProvider()

	printer, err := receipt.NewPDFPrinter(cfg.ReceiptDir)
	if err != nil {
		logger.Error("failed to initialize receipt printer", "error", err)
		os.Exit(1)
	}

	// Initialize use cases.
	openAccountUC := usecase.NewOpenAccountUseCase(accountRepo, memberRepo, ids, publisher, locationProvider, printer, logger)
	depositUC := usecase.NewDepositUseCase(accountRepo, memberRepo, ids, publisher, printer, logger)
	payItemUC := usecase.NewPayCollectionItemUseCase(collectionRepo, memberRepo, ids, publisher, printer, logger)
	getAccountUC := usecase.NewGetAccountUseCase(accountRepo, logger)
	getStatementUC := usecase.NewGetLoanStatementUseCase(loanRepo, dailyMoraRate, logger)
	syncCoordinator := usecase.NewSyncCoordinator(memberRepo, accountRepo, txnRepo, collectionRepo, remoteClient, publisher, logger)

	// JWT service (validation-only; tokens come from the central office).
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "dev-secret-change-in-prod" // development only
	}
	jwtSvc, err := auth.NewJWTService(jwtSecret, "coopandina-central")
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// Initialize gRPC handler and server.
	handler := grpcPresentation.NewTellerHandler(
		openAccountUC,
		depositUC,
		payItemUC,
		getAccountUC,
		getStatementUC,
		syncCoordinator,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtSvc)

	// Initialize HTTP health server.
	healthHandler := rest.NewHealthHandler(cfg.ServiceName, pool, logger)
	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers in goroutines.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(fmt.Sprintf(":%d", cfg.GRPCPort)); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP health server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Background sync ticker. Failures are only logged: being offline is
	// normal operation for a branch device.
	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()
	if interval := cfg.Remote.SyncIntervalSeconds; interval > 0 {
		go runSyncLoop(syncCtx, syncCoordinator, time.Duration(interval)*time.Second, logger)
	}

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down servers")
	stopSync()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	grpcServer.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("teller service stopped")
}

// runSyncLoop runs SyncAll at the configured interval until the context is
// cancelled.
func runSyncLoop(ctx context.Context, coordinator *usecase.SyncCoordinator, interval time.Duration, logger *slog.Logger) {
	logger.Info("background sync enabled", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("background sync stopped")
			return
		case <-ticker.C:
			report := coordinator.SyncAll(ctx)
			for _, b := range report.Batches {
				if b.Err != nil {
					logger.Warn("sync batch failed", "entity_type", b.EntityType, "error", b.Err)
				}
			}
		}
	}
}
