package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ETAnderson/merchantfeed/internal/api"
	"github.com/ETAnderson/merchantfeed/internal/api/middleware"
	"github.com/ETAnderson/merchantfeed/internal/config"
	"github.com/ETAnderson/merchantfeed/internal/db"
	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/feedcache"
	"github.com/ETAnderson/merchantfeed/internal/ingest"
	"github.com/ETAnderson/merchantfeed/internal/logging"
	"github.com/ETAnderson/merchantfeed/internal/metrics"
	"github.com/ETAnderson/merchantfeed/internal/rowsource"
	"github.com/ETAnderson/merchantfeed/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, "api")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid feed configuration", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	src, closeSource := openRowSource(logger, cfg)
	defer closeSource()

	gen := ingest.Generator{
		Source:  src,
		Config:  cfg.FeedConfig(),
		Metrics: rec,
		Logger:  logger,
	}
	cache := &feedcache.Cache{
		Path:     cfg.Cache.Path,
		TTL:      cfg.Cache.TTL(),
		Generate: gen.Bytes,
		Metrics:  rec,
		Logger:   logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Cache.WarmInterval > 0 {
		w := worker.Warmer{Cache: cache, Every: cfg.Cache.WarmInterval, Logger: logger}
		go w.Run(ctx)
	}

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(api.Deps{
			Logger:         logger,
			Feed:           cache,
			Convert:        cfg.FeedConfig(),
			Metrics:        rec,
			Gatherer:       reg,
			UploadMaxBytes: cfg.Upload.MaxBytes,
			ConvertLimit:   middleware.NewRateLimit(cfg.Upload.RatePerMinute, cfg.Upload.Burst),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting", "env", cfg.Env, "addr", server.Addr)

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, server, cancel)
}

// openRowSource wires the SQL row source. Missing credentials do not stop
// the service; each feed request reports them instead.
func openRowSource(logger *slog.Logger, cfg config.Config) (rowsource.Source, func()) {
	dbCfg, err := cfg.Database.DBConfig()
	if err != nil {
		logger.Warn("row source not configured", "error", err)
		return rowsource.Unavailable{Kind: domain.GenerationSourceSQL, Err: err}, func() {}
	}

	res, err := rowsource.NewSQL(dbCfg, cfg.Database.QueryPath)
	if err != nil {
		logger.Warn("row source unavailable", "error", err)
		return rowsource.Unavailable{Kind: domain.GenerationSourceSQL, Err: err}, func() {}
	}

	if err := db.Ping(context.Background(), res.DB); err != nil {
		logger.Warn("database not reachable yet", "driver", dbCfg.Driver, "error", err)
	}
	return res.Source, func() { _ = res.DB.Close() }
}

func waitForShutdown(logger *slog.Logger, server *http.Server, cancel func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("shutdown signal received")
	cancel()

	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	_ = server.Shutdown(ctx)
	logger.Info("shutdown complete")
}
