package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/ColuLocalNetwork/inventory-manager/internal/adapter/grpc"
	"github.com/ColuLocalNetwork/inventory-manager/internal/adapter/grpc/transferv1"
	"github.com/ColuLocalNetwork/inventory-manager/internal/adapter/repository/memory"
	"github.com/ColuLocalNetwork/inventory-manager/internal/adapter/repository/mongo"
	"github.com/ColuLocalNetwork/inventory-manager/internal/adapter/repository/postgres"
	"github.com/ColuLocalNetwork/inventory-manager/internal/configuration"
	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
	"github.com/ColuLocalNetwork/inventory-manager/internal/observability"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/reconciler"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/seeder"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/transfer"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/wallet"
)

const shutdownTimeout = 10 * time.Second

// stores bundles the repositories of the selected backend
type stores struct {
	transfers domain.TransferRepository
	wallets   domain.WalletRepository
	close     func(ctx context.Context) error
}

func main() {
	// 1. Load configuration
	bootstrap, err := observability.NewLogger("info")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	cfg := configuration.Load(bootstrap)
	if err := cfg.Validate(); err != nil {
		bootstrap.Fatal("invalid configuration", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		bootstrap.Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Repositories
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}

	// 3. Seed opening balances
	balances, err := openingBalances(cfg.Seed)
	if err != nil {
		logger.Fatal("invalid seed configuration", zap.Error(err))
	}
	created, err := seeder.NewWalletSeeder(st.wallets, balances).Seed(ctx)
	if err != nil {
		logger.Fatal("failed to seed opening balances", zap.Error(err))
	}
	logger.Info("opening balances seeded", zap.Int64("created", created), zap.Int("configured", len(balances)))

	// 4. Initialize Services (Use Cases)
	obs := observability.Make(logger)
	transferService := transfer.NewTransferService(st.transfers, st.wallets, logger.Named("transfer"),
		observability.MakeTransferMetrics(obs))
	walletService := wallet.NewWalletService(st.wallets)
	rec := reconciler.NewReconciler(transferService, reconciler.Config{
		Interval:    cfg.Reconciler.Interval,
		GracePeriod: cfg.Reconciler.GracePeriod,
	}, logger.Named("reconciler"), observability.MakeReconcilerMetrics(obs))

	reconcilerDone := make(chan struct{})
	go func() {
		defer close(reconcilerDone)
		_ = rec.Run(ctx)
	}()

	// 5. Start metrics listener
	metricsServer := &http.Server{
		Addr:              cfg.Metrics.Listen,
		Handler:           promhttp.HandlerFor(obs.Metrics(), promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Listen))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	// 6. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger.Named("grpc")),
			grpcadapter.AuthInterceptor(cfg.GRPC.APIToken),
		),
	)
	transferv1.RegisterTransferServiceServer(grpcServer, grpcadapter.NewServer(transferService, walletService))

	lis, err := net.Listen("tcp", cfg.GRPC.Listen)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPC.Listen), zap.Error(err))
	}

	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPC.Listen))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("failed to serve gRPC server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, grpcServer, metricsServer)
	cancel()
	<-reconcilerDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := st.close(shutdownCtx); err != nil {
		logger.Error("failed to close stores", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStores connects the configured backend and prepares its schema or indexes
func openStores(ctx context.Context, cfg *configuration.Configuration, logger *zap.Logger) (*stores, error) {
	switch cfg.Store.Backend {
	case configuration.BackendMongo:
		db, err := mongo.Connect(ctx, mongo.Config{
			URI:                 cfg.Mongo.URI,
			Database:            cfg.Mongo.Database,
			TransfersCollection: cfg.Mongo.TransfersCollection,
			WalletsCollection:   cfg.Mongo.WalletsCollection,
			Timeout:             cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		logger.Info("using mongo store", zap.String("database", cfg.Mongo.Database))
		return &stores{
			transfers: mongo.NewTransferRepository(db),
			wallets:   mongo.NewWalletRepository(db),
			close:     db.Close,
		}, nil

	case configuration.BackendPostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, err
		}
		logger.Info("using postgres store")
		return &stores{
			transfers: postgres.NewTransferRepository(db),
			wallets:   postgres.NewWalletRepository(db),
			close:     func(context.Context) error { return db.Close() },
		}, nil

	default:
		logger.Warn("using in-memory store, state is lost on exit")
		return &stores{
			transfers: memory.NewTransferRepository(),
			wallets:   memory.NewWalletRepository(),
			close:     func(context.Context) error { return nil },
		}, nil
	}
}

func openingBalances(seed []configuration.SeedBalance) ([]seeder.OpeningBalance, error) {
	balances := make([]seeder.OpeningBalance, 0, len(seed))
	for _, s := range seed {
		amount, err := domain.ParseBalance(s.Amount)
		if err != nil {
			return nil, fmt.Errorf("seed balance for %s: %w", s.Address, err)
		}
		balances = append(balances, seeder.OpeningBalance{
			Address:  s.Address,
			Currency: s.Currency,
			Amount:   amount,
		})
	}
	return balances, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(logger *zap.Logger, grpcServer *grpclib.Server, metricsServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("received signal, shutting down gracefully", zap.String("signal", sig.String()))

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Error("failed to stop metrics server", zap.Error(err))
	}
}
