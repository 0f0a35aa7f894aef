package cache

import (
	"context"
	"time"
)

// Store is the swappable backing store behind the snapshot cache. A backend
// failure must degrade to a miss or no-op, never an error: a store outage
// cannot be allowed to take down serving.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Flush(ctx context.Context)
	Len(ctx context.Context) int
	Name() string
}

// Stats summarizes cache effectiveness for the stats endpoint.
type Stats struct {
	Backend string `json:"backend"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}
