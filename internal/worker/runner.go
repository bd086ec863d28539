package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Warmer keeps the cached feed fresh so requests rarely pay for a
// regeneration. Failures are logged and retried on the next tick.
type Warmer struct {
	Cache  Refresher
	Every  time.Duration
	Logger *slog.Logger
}

func (w Warmer) Run(ctx context.Context) error {
	if w.Cache == nil {
		return errors.New("cache is nil")
	}
	if w.Every <= 0 {
		w.Every = time.Minute
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}

	ticker := time.NewTicker(w.Every)
	defer ticker.Stop()

	// one immediate pass
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w Warmer) tick(ctx context.Context) {
	a, err := w.Cache.Get(ctx)
	if err != nil {
		w.Logger.Error("feed warm failed", "error", err)
		return
	}
	if a.Stale {
		w.Logger.Warn("feed warm served stale file", "path", a.Path, "modified", a.ModTime)
		return
	}
	w.Logger.Debug("feed warm ok", "path", a.Path, "etag", a.ETag, "modified", a.ModTime)
}
