package worker

import (
	"context"

	"github.com/ETAnderson/merchantfeed/internal/feedcache"
)

// Refresher returns the published feed, regenerating it when stale.
type Refresher interface {
	Get(ctx context.Context) (feedcache.Artifact, error)
}
