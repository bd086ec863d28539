package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/ETAnderson/merchantfeed/internal/feedcache"
	"github.com/ETAnderson/merchantfeed/internal/logging"
	"github.com/ETAnderson/merchantfeed/internal/rss"
)

// FeedSource hands out the published feed as an open file plus metadata
// describing that exact file.
type FeedSource interface {
	Open(ctx context.Context) (*os.File, feedcache.Artifact, error)
}

// FeedHandler serves the cached product feed with conditional request
// support. It never answers with an empty document.
type FeedHandler struct {
	Cache FeedSource
}

func (h FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	f, art, err := h.Cache.Open(r.Context())
	if err != nil {
		log.Error("feed unavailable", "error", err)
		writeError(w, http.StatusInternalServerError, "feed_generation_failed", err.Error())
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", rss.ContentType)
	if art.ETag != "" {
		w.Header().Set("ETag", art.ETag)
	}
	if art.Stale {
		w.Header().Set("X-Feed-Stale", "1")
	}
	http.ServeContent(w, r, "product_feed.xml", art.ModTime, f)
}
