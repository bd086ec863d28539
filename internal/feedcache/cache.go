// Package feedcache keeps one generated feed on disk and regenerates it
// when it is older than the configured TTL.
//
// At most one regeneration runs at a time. Callers that arrive while it runs
// wait for it and then reuse the fresh file. A failed regeneration keeps
// serving the previous file, marked stale, until a later attempt succeeds.
package feedcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"github.com/ETAnderson/merchantfeed/internal/metrics"
)

type GenerateFunc func(ctx context.Context) ([]byte, error)

// Artifact describes the published feed file.
type Artifact struct {
	Path    string
	ModTime time.Time
	Size    int64
	ETag    string
	// Stale is set when regeneration failed and the previous file is served.
	Stale bool
}

type Cache struct {
	Path     string
	TTL      time.Duration // <= 0 regenerates on every request
	Generate GenerateFunc
	Metrics  metrics.Recorder
	Logger   *slog.Logger
	Now      func() time.Time

	mu sync.Mutex // held for the whole regeneration

	tagMu sync.Mutex
	tag   tagEntry
}

type tagEntry struct {
	modTime time.Time
	size    int64
	etag    string
}

// Get returns the published feed, regenerating it first when stale.
func (c *Cache) Get(ctx context.Context) (Artifact, error) {
	if c.Generate == nil {
		return Artifact{}, errors.New("feedcache: generate func is nil")
	}

	if info, ok := c.stat(); ok && c.fresh(info) {
		return c.hit(info)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	info, exists := c.stat()
	if exists && c.fresh(info) {
		return c.hit(info)
	}

	// Waiting callers share this result, so one disconnect must not cancel it.
	b, err := c.Generate(context.WithoutCancel(ctx))
	if err != nil {
		if !exists {
			c.metrics().RecordCacheRequest(metrics.OutcomeError)
			return Artifact{}, err
		}

		c.metrics().RecordCacheRequest(metrics.OutcomeStale)
		c.logger().Warn("feed regeneration failed, serving previous file",
			"error", err,
			"path", c.Path,
			"age", c.now().Sub(info.ModTime()).Round(time.Second).String(),
		)
		a, tagErr := c.artifact(info)
		if tagErr != nil {
			return Artifact{}, errors.Join(err, tagErr)
		}
		a.Stale = true
		return a, nil
	}

	a, err := c.publish(b)
	if err != nil {
		c.metrics().RecordCacheRequest(metrics.OutcomeError)
		return Artifact{}, err
	}
	c.metrics().RecordCacheRequest(metrics.OutcomeRegenerated)
	return a, nil
}

// Open is Get followed by opening the published file. The returned Artifact
// always describes the bytes behind the handle, even when a regeneration
// replaced the path in between. The caller closes the file.
func (c *Cache) Open(ctx context.Context) (*os.File, Artifact, error) {
	a, err := c.Get(ctx)
	if err != nil {
		return nil, Artifact{}, err
	}
	return c.openArtifact(a)
}

func (c *Cache) openArtifact(a Artifact) (*os.File, Artifact, error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return nil, Artifact{}, fmt.Errorf("open feed: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, Artifact{}, fmt.Errorf("stat feed: %w", err)
	}
	if info.ModTime().Equal(a.ModTime) && info.Size() == a.Size {
		return f, a, nil
	}

	// replaced since Get; describe the file we actually hold
	etag, err := etagFromReader(f)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		_ = f.Close()
		return nil, Artifact{}, fmt.Errorf("hash feed: %w", err)
	}
	a.ModTime = info.ModTime()
	a.Size = info.Size()
	a.ETag = etag
	a.Stale = false
	return f, a, nil
}

func (c *Cache) publish(b []byte) (Artifact, error) {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return Artifact{}, fmt.Errorf("create feed dir: %w", err)
	}
	if err := atomic.WriteFile(c.Path, bytes.NewReader(b)); err != nil {
		return Artifact{}, fmt.Errorf("publish feed: %w", err)
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		return Artifact{}, fmt.Errorf("stat published feed: %w", err)
	}

	etag := ETag(b)
	c.tagMu.Lock()
	c.tag = tagEntry{modTime: info.ModTime(), size: info.Size(), etag: etag}
	c.tagMu.Unlock()

	return Artifact{Path: c.Path, ModTime: info.ModTime(), Size: info.Size(), ETag: etag}, nil
}

func (c *Cache) hit(info fs.FileInfo) (Artifact, error) {
	a, err := c.artifact(info)
	if err != nil {
		return Artifact{}, err
	}
	c.metrics().RecordCacheRequest(metrics.OutcomeHit)
	return a, nil
}

// artifact describes the file at info, hashing it only when it changed
// since the last known tag (e.g. written by another process).
func (c *Cache) artifact(info fs.FileInfo) (Artifact, error) {
	c.tagMu.Lock()
	defer c.tagMu.Unlock()

	if !c.tag.modTime.Equal(info.ModTime()) || c.tag.size != info.Size() || c.tag.etag == "" {
		etag, err := etagFromFile(c.Path)
		if err != nil {
			return Artifact{}, err
		}
		c.tag = tagEntry{modTime: info.ModTime(), size: info.Size(), etag: etag}
	}

	return Artifact{Path: c.Path, ModTime: info.ModTime(), Size: info.Size(), ETag: c.tag.etag}, nil
}

func (c *Cache) stat() (fs.FileInfo, bool) {
	info, err := os.Stat(c.Path)
	if err != nil || info.IsDir() {
		return nil, false
	}
	return info, true
}

func (c *Cache) fresh(info fs.FileInfo) bool {
	if c.TTL <= 0 {
		return false
	}
	return c.now().Sub(info.ModTime()) < c.TTL
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Cache) metrics() metrics.Recorder {
	if c.Metrics != nil {
		return c.Metrics
	}
	return metrics.Nop{}
}

func (c *Cache) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
