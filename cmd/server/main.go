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
	"github.com/rs/zerolog"

	"github.com/salesapi/accounts/internal/app"
	"github.com/salesapi/accounts/internal/config"
	"github.com/salesapi/accounts/internal/logger"
	"github.com/salesapi/accounts/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.Setup(false)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Setup(cfg.Log.Dev)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("failed to load .env file, continuing with environment only")
	}

	application, err := app.New(ctx, cfg, log, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise application")
	}
	defer application.Close()

	// A missing or empty database is not fatal: every request reports it.
	if err := repository.Ping(ctx, application.DB); err != nil {
		log.Warn().Err(err).Str("driver", string(cfg.Database.Dialect)).Msg("accounts database not ready")
	}

	if sub := application.ImportSubscriber(consumerName()); sub != nil {
		go func() {
			if err := sub.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("import subscriber stopped")
			}
		}()
	}

	startServer(ctx, log, cfg.Server, application.Handler())
}

func startServer(ctx context.Context, log zerolog.Logger, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("sales API listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("sales API stopped")
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "local"
	}
	return "account-consumer-" + host
}
