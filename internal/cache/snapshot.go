package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

// ComputeFunc produces a fresh snapshot on a cache miss. Its failures
// propagate to the caller uncached; a failed compute never poisons the cache.
type ComputeFunc func(ctx context.Context) (domain.Snapshot, error)

// SnapshotCache is the cache-aside layer over a swappable Store. Concurrent
// callers during a miss may each trigger the compute; there is no
// single-flight coalescing, and the last write wins the slot.
type SnapshotCache struct {
	store  Store
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewSnapshotCache(store Store) *SnapshotCache {
	return &SnapshotCache{store: store}
}

// GetOrCompute returns the live snapshot for key, computing and storing a new
// one when the entry is absent or expired.
func (c *SnapshotCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc) (domain.Snapshot, error) {
	if data, ok := c.store.Get(ctx, key); ok {
		var snap domain.Snapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			c.hits.Add(1)
			return snap, nil
		}
		// A corrupt entry reads as a miss.
		log.Printf("cache entry %s unreadable, recomputing", key)
	}

	c.misses.Add(1)
	snap, err := compute(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	if data, err := json.Marshal(snap); err == nil {
		c.store.Set(ctx, key, data, ttl)
	}
	return snap, nil
}

// Clear invalidates one key, or everything when key is empty. Subsequent
// reads are forced misses.
func (c *SnapshotCache) Clear(ctx context.Context, key string) {
	if key == "" {
		c.store.Flush(ctx)
		return
	}
	c.store.Delete(ctx, key)
}

func (c *SnapshotCache) Stats(ctx context.Context) Stats {
	return Stats{
		Backend: c.store.Name(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.store.Len(ctx),
	}
}
