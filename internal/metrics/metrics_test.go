package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestCollector_RecordGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGeneration("sql", "success", 150*time.Millisecond)
	c.RecordGeneration("sql", "success", 50*time.Millisecond)
	c.RecordGeneration("csv", "failure", time.Millisecond)

	ms := gather(t, reg, "merchantfeed_generations_total")
	if len(ms) != 2 {
		t.Fatalf("expected 2 label sets, got %d", len(ms))
	}

	total := 0.0
	for _, m := range ms {
		total += m.GetCounter().GetValue()
	}
	if total != 3 {
		t.Fatalf("expected 3 generations, got %v", total)
	}

	h := gather(t, reg, "merchantfeed_generation_duration_seconds")
	if got := h[0].GetHistogram().GetSampleCount(); got != 3 {
		t.Fatalf("expected 3 duration samples, got %d", got)
	}
}

func TestCollector_RecordItemsAndCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordItems(10, 2)
	c.RecordItems(5, 0)
	c.RecordCacheRequest(OutcomeHit)
	c.RecordCacheRequest(OutcomeHit)
	c.RecordCacheRequest(OutcomeStale)

	if got := gather(t, reg, "merchantfeed_items_emitted_total")[0].GetCounter().GetValue(); got != 15 {
		t.Fatalf("items = %v, want 15", got)
	}
	if got := gather(t, reg, "merchantfeed_rows_skipped_total")[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("skipped = %v, want 2", got)
	}

	byOutcome := map[string]float64{}
	for _, m := range gather(t, reg, "merchantfeed_cache_requests_total") {
		byOutcome[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	if byOutcome[OutcomeHit] != 2 || byOutcome[OutcomeStale] != 1 {
		t.Fatalf("unexpected cache counters %v", byOutcome)
	}
}

func TestHandler_ServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordCacheRequest(OutcomeRegenerated)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `merchantfeed_cache_requests_total{outcome="regenerated"} 1`) {
		t.Fatalf("missing cache counter in:\n%s", body)
	}
}
