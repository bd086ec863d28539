// Package ingest pulls product rows from a source and turns them into a
// serialized feed, recording logs and metrics for each generation.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ETAnderson/merchantfeed/internal/domain"
	"github.com/ETAnderson/merchantfeed/internal/feed"
	"github.com/ETAnderson/merchantfeed/internal/metrics"
	"github.com/ETAnderson/merchantfeed/internal/rowsource"
)

type Result struct {
	GenerationID string        `json:"generation_id"`
	Stats        feed.Stats    `json:"stats"`
	Duration     time.Duration `json:"duration"`
	XML          []byte        `json:"-"`
}

type Generator struct {
	Source  rowsource.Source
	Config  feed.Config
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// Generate fetches every row and builds the feed. Any fetch or template
// failure aborts the generation; no partial feed is returned.
func (g Generator) Generate(ctx context.Context) (Result, error) {
	if g.Source == nil {
		return Result{}, errors.New("generator: source is nil")
	}
	rec := g.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	log := g.Logger
	if log == nil {
		log = slog.Default()
	}

	res := Result{GenerationID: NewGenerationID()}
	source := string(g.Source.Name())
	log = log.With("generation_id", res.GenerationID, "source", source)

	start := time.Now()
	xml, err := g.run(ctx, &res)
	res.Duration = time.Since(start)

	if err != nil {
		rec.RecordGeneration(source, string(domain.GenerationResultFailure), res.Duration)
		log.Error("feed generation failed", "error", err, "duration_ms", res.Duration.Milliseconds())
		return res, err
	}

	res.XML = xml
	rec.RecordGeneration(source, string(domain.GenerationResultSuccess), res.Duration)
	rec.RecordItems(res.Stats.Items, res.Stats.Skipped)
	log.Info("feed generated",
		"rows", res.Stats.Rows,
		"items", res.Stats.Items,
		"skipped", res.Stats.Skipped,
		"bytes", len(xml),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (g Generator) run(ctx context.Context, res *Result) ([]byte, error) {
	rows, err := g.Source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}

	xml, st, err := feed.Generate(rows, g.Config)
	res.Stats = st
	if err != nil {
		return nil, fmt.Errorf("build feed: %w", err)
	}
	return xml, nil
}

// Bytes adapts Generate to callers that only need the document.
func (g Generator) Bytes(ctx context.Context) ([]byte, error) {
	res, err := g.Generate(ctx)
	if err != nil {
		return nil, err
	}
	return res.XML, nil
}
