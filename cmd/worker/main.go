package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ETAnderson/merchantfeed/internal/config"
	"github.com/ETAnderson/merchantfeed/internal/db"
	"github.com/ETAnderson/merchantfeed/internal/feedcache"
	"github.com/ETAnderson/merchantfeed/internal/ingest"
	"github.com/ETAnderson/merchantfeed/internal/logging"
	"github.com/ETAnderson/merchantfeed/internal/metrics"
	"github.com/ETAnderson/merchantfeed/internal/rowsource"
	"github.com/ETAnderson/merchantfeed/internal/worker"
)

// worker republishes the feed file on a fixed interval for deployments that
// serve it from a static file host instead of the api.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, "worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid feed configuration", "error", err)
		os.Exit(1)
	}

	dbCfg, err := cfg.Database.DBConfig()
	if err != nil {
		logger.Error("row source not configured", "error", err)
		os.Exit(1)
	}
	// The worker fails fast when the database is unreachable.
	sqlDB, err := db.OpenAndPing(context.Background(), dbCfg)
	if err != nil {
		logger.Error("row source unavailable", "driver", dbCfg.Driver, "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	gen := ingest.Generator{
		Source:  rowsource.SQLSource{DB: sqlDB, QueryPath: cfg.Database.QueryPath},
		Config:  cfg.FeedConfig(),
		Metrics: metrics.Nop{},
		Logger:  logger,
	}

	every := cfg.Cache.WarmInterval
	if every <= 0 {
		every = cfg.Cache.TTL()
	}

	w := worker.Warmer{
		Cache: &feedcache.Cache{
			Path:     cfg.Cache.Path,
			TTL:      0, // every tick regenerates
			Generate: gen.Bytes,
			Logger:   logger,
		},
		Every:  every,
		Logger: logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("starting", "env", cfg.Env, "path", cfg.Cache.Path, "every", every)

		err := w.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, cancel)
	<-done
}

func waitForShutdown(logger *slog.Logger, cancel func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("shutdown signal received")
	cancel()
	logger.Info("shutdown complete")
}
