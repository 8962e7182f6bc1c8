package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trustlink/internal/platform/config"
	"trustlink/internal/platform/httpserver"
	"trustlink/internal/platform/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main wires dependencies, serves the registry API and shuts down on
// SIGINT or SIGTERM. Business logic lives in internal/verification.
func main() {
	cfg, err := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsesDevSigningKey() {
		log.Warn("JWT_SIGNING_KEY not set, using the built-in development key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	deps, err := buildInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	srv := httpserver.New(cfg.Addr, buildRouter(cfg, deps, log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting trustlink", "addr", cfg.Addr, "env", cfg.Environment, "backend", deps.backend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if deps.redis != nil {
		g.Go(func() error {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					deps.redis.RecordPoolStats()
				}
			}
		})
	}
	return g.Wait()
}
