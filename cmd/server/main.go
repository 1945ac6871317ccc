package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/soumydip/minibank/internal/api"
	"github.com/soumydip/minibank/internal/auth"
	"github.com/soumydip/minibank/internal/config"
	"github.com/soumydip/minibank/internal/events/kafka"
	"github.com/soumydip/minibank/internal/interfaces"
	"github.com/soumydip/minibank/internal/ledger"
	"github.com/soumydip/minibank/internal/storage/memory"
	"github.com/soumydip/minibank/internal/storage/postgres"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		accounts interfaces.AccountStore
		entries  interfaces.LedgerStore
		pins     interfaces.PINStore
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		accounts, entries, pins = store, store, store
		logger.Info("using postgres store")
	} else {
		store := memory.NewStore()
		accounts, entries, pins = store, store, store
		logger.Warn("DATABASE_URL not set, using in-memory store")
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
		logger.Info("publishing transaction events", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	authSvc := auth.NewService(accounts, pins, cfg.JWTSecret)
	ledgerSvc := ledger.New(accounts, entries, publisher, logger)
	server := api.NewServer(authSvc, ledgerSvc, logger, cfg.AllowedOrigin)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
