// Package metrics exposes feed generation and cache counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes.
const (
	OutcomeHit         = "hit"
	OutcomeRegenerated = "regenerated"
	OutcomeStale       = "stale"
	OutcomeError       = "error"
)

// Recorder is what the generator and cache report to. Use Nop to disable.
type Recorder interface {
	RecordGeneration(source, result string, duration time.Duration)
	RecordItems(emitted, skipped int)
	RecordCacheRequest(outcome string)
}

type Collector struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	items       prometheus.Counter
	skipped     prometheus.Counter
	cache       *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merchantfeed_generations_total",
			Help: "Feed generations by row source and result.",
		}, []string{"source", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "merchantfeed_generation_duration_seconds",
			Help:    "Time spent fetching rows and building the feed.",
			Buckets: prometheus.DefBuckets,
		}),
		items: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merchantfeed_items_emitted_total",
			Help: "Items written to generated feeds.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merchantfeed_rows_skipped_total",
			Help: "Rows skipped for lacking a product identifier.",
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merchantfeed_cache_requests_total",
			Help: "Cached feed lookups by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.generations, c.duration, c.items, c.skipped, c.cache)
	return c
}

func (c *Collector) RecordGeneration(source, result string, d time.Duration) {
	c.generations.WithLabelValues(source, result).Inc()
	c.duration.Observe(d.Seconds())
}

func (c *Collector) RecordItems(emitted, skipped int) {
	c.items.Add(float64(emitted))
	c.skipped.Add(float64(skipped))
}

func (c *Collector) RecordCacheRequest(outcome string) {
	c.cache.WithLabelValues(outcome).Inc()
}

type Nop struct{}

func (Nop) RecordGeneration(string, string, time.Duration) {}
func (Nop) RecordItems(int, int)                           {}
func (Nop) RecordCacheRequest(string)                      {}

// Handler serves the registry in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
