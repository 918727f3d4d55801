package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/Shaivan19/rentease-payments/api/routes"
	"github.com/Shaivan19/rentease-payments/internal/checkout"
	"github.com/Shaivan19/rentease-payments/internal/earnings"
	"github.com/Shaivan19/rentease-payments/internal/payments"
	"github.com/Shaivan19/rentease-payments/pkg/config"
	"github.com/Shaivan19/rentease-payments/pkg/db"
	pkgerrors "github.com/Shaivan19/rentease-payments/pkg/errors"
	"github.com/Shaivan19/rentease-payments/pkg/events"
	"github.com/Shaivan19/rentease-payments/pkg/logger"
	"github.com/Shaivan19/rentease-payments/pkg/metrics"
	"github.com/Shaivan19/rentease-payments/pkg/migrate"
	"github.com/Shaivan19/rentease-payments/pkg/razorpay"
	pkgredis "github.com/Shaivan19/rentease-payments/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	gateway, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build razorpay client", err)
		os.Exit(1)
	}

	coordinator, err := checkout.NewCoordinator(func(ctx context.Context) error {
		if gateway.KeyID() == "" {
			return pkgerrors.New(pkgerrors.CodeDependency, "gateway credentials missing")
		}
		return nil
	}, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build checkout coordinator", err)
		os.Exit(1)
	}

	bus := events.NewBus(logg)

	earningsService, err := earnings.NewService(earnings.ServiceParams{
		Repo:           earnings.NewRepository(dbClient.DB()),
		Tx:             dbClient,
		BaselineTarget: cfg.Earnings.BaselineTarget,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build earnings service", err)
		os.Exit(1)
	}
	detach := earningsService.AttachTo(bus)
	defer detach()

	registry := prometheus.NewRegistry()
	flowMetrics := metrics.NewPaymentFlowMetrics(registry)

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Repo:     payments.NewRepository(dbClient.DB()),
		Tx:       dbClient,
		Gateway:  gateway,
		Checkout: coordinator,
		Settle:   redisClient,
		Bus:      bus,
		Metrics:  flowMetrics,
		Logger:   logg,
		DedupTTL: cfg.Settlement.DedupTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build payments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			CachePinger:     redisClient,
			IdempotencyKeys: redisClient,
			Payments:        paymentsService,
			Earnings:        earningsService,
			MetricsRegistry: registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	if err := closeAll(dbClient, redisClient); err != nil {
		logg.Error(ctx, "error closing dependencies", err)
		os.Exit(1)
	}
}

func closeAll(closers ...interface{ Close() error }) error {
	var err error
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
