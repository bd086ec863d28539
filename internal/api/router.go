// Package api wires the HTTP surface of the feed service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ETAnderson/merchantfeed/internal/api/handlers"
	"github.com/ETAnderson/merchantfeed/internal/api/middleware"
	"github.com/ETAnderson/merchantfeed/internal/feed"
	"github.com/ETAnderson/merchantfeed/internal/metrics"
)

type Deps struct {
	Logger   *slog.Logger
	Feed     handlers.FeedSource
	Convert  feed.Config
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer

	UploadMaxBytes int64
	ConvertLimit   *middleware.RateLimit // nil disables limiting
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))

	r.Get("/healthz", handlers.Healthz)
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	r.Method(http.MethodGet, "/product-feed.xml", handlers.FeedHandler{Cache: d.Feed})

	r.Get("/convert", handlers.ConvertForm)
	var convert http.Handler = handlers.ConvertHandler{
		Config:   d.Convert,
		MaxBytes: d.UploadMaxBytes,
		Metrics:  d.Metrics,
	}
	if d.ConvertLimit != nil {
		convert = d.ConvertLimit.Middleware(convert)
	}
	r.Method(http.MethodPost, "/convert", convert)

	return r
}
