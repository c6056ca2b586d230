package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driven"
	"github.com/nuxway/knowledge-rag/internal/core/ports/driving"
	"github.com/nuxway/knowledge-rag/internal/logger"
)

// Ensure CorpusCache implements the interface.
var _ driving.CacheInvalidator = (*CorpusCache)(nil)

// loadTimeout bounds a shared store load, which outlives the caller that
// started it.
const loadTimeout = 2 * time.Minute

// IndexBuilder builds a searchable index over a loaded corpus.
type IndexBuilder func(corpus *domain.Corpus) driven.VectorIndex

// Snapshot is a loaded corpus and the index built over it.
// A Snapshot is immutable and may be shared across goroutines.
type Snapshot struct {
	Corpus   *domain.Corpus
	Index    driven.VectorIndex
	LoadedAt time.Time
}

// CorpusCache holds the most recently loaded snapshot. The first Get loads
// the store; concurrent callers share that load. Failed loads are not
// cached, so a store created later is picked up by the next Get.
type CorpusCache struct {
	store driven.CorpusStore
	build IndexBuilder

	group singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
	gen     uint64
}

// NewCorpusCache creates an empty cache over store.
func NewCorpusCache(store driven.CorpusStore, build IndexBuilder) *CorpusCache {
	return &CorpusCache{store: store, build: build}
}

// Get returns the cached snapshot, loading it if needed. A caller whose ctx
// ends stops waiting; the load itself continues for the others.
func (c *CorpusCache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap, gen := c.current, c.gen
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprintf("load-%d", gen), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(loadCtx, loadTimeout)
		defer cancel()

		c.mu.RLock()
		done := c.current
		c.mu.RUnlock()
		if done != nil {
			return done, nil
		}

		corpus, err := c.store.Load(loadCtx)
		if err != nil {
			return nil, err
		}

		loaded := &Snapshot{
			Corpus:   corpus,
			Index:    c.build(corpus),
			LoadedAt: time.Now(),
		}
		logger.Debug("Loaded corpus from %s: %d chunks, %d searchable, %d dimensions",
			c.store.Path(), corpus.Len(), loaded.Index.Len(), corpus.Dimensions)

		c.mu.Lock()
		// An Invalidate during the load makes this snapshot stale.
		if c.gen == gen {
			c.current = loaded
		}
		c.mu.Unlock()

		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Invalidate drops the cached snapshot. The next Get reloads the store.
// Snapshots already handed out are unaffected.
func (c *CorpusCache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.gen++
	c.mu.Unlock()
	logger.Debug("Corpus cache invalidated")
}

// Cached reports whether a snapshot is currently held.
func (c *CorpusCache) Cached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}
