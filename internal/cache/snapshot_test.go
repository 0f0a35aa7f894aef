package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

func snapshotOf(addresses ...string) domain.Snapshot {
	tokens := make([]domain.Token, 0, len(addresses))
	for _, a := range addresses {
		tokens = append(tokens, domain.Token{Address: a})
	}
	return domain.Snapshot{Tokens: tokens, CapturedAt: 1}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewSnapshotCache(NewMemoryStore())

	computes := 0
	compute := func(ctx context.Context) (domain.Snapshot, error) {
		computes++
		return snapshotOf("a"), nil
	}

	for i := 0; i < 3; i++ {
		snap, err := c.GetOrCompute(ctx, "k", time.Minute, compute)
		if err != nil {
			t.Fatalf("get %d failed: %v", i, err)
		}
		if len(snap.Tokens) != 1 || snap.Tokens[0].Address != "a" {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
	}

	if computes != 1 {
		t.Errorf("expected 1 compute, got %d", computes)
	}

	stats := c.Stats(ctx)
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("expected 2 hits 1 miss, got %+v", stats)
	}
}

func TestGetOrComputeFailureNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewSnapshotCache(NewMemoryStore())

	boom := errors.New("upstream down")
	computes := 0
	compute := func(ctx context.Context) (domain.Snapshot, error) {
		computes++
		if computes == 1 {
			return domain.Snapshot{}, boom
		}
		return snapshotOf("a"), nil
	}

	if _, err := c.GetOrCompute(ctx, "k", time.Minute, compute); !errors.Is(err, boom) {
		t.Fatalf("expected compute failure surfaced, got %v", err)
	}
	snap, err := c.GetOrCompute(ctx, "k", time.Minute, compute)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(snap.Tokens) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if computes != 2 {
		t.Errorf("expected failed compute not cached, got %d computes", computes)
	}
}

func TestGetOrComputeCorruptEntryRecomputes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	c := NewSnapshotCache(store)

	store.Set(ctx, "k", []byte("{not json"), time.Minute)

	snap, err := c.GetOrCompute(ctx, "k", time.Minute, func(ctx context.Context) (domain.Snapshot, error) {
		return snapshotOf("fresh"), nil
	})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if snap.Tokens[0].Address != "fresh" {
		t.Errorf("expected recompute over corrupt entry, got %+v", snap)
	}
}

func TestGetOrComputeSurvivesBackendOutage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeRedis()
	fake.down = true
	c := NewSnapshotCache(NewRedisStore(fake, "test:"))

	snap, err := c.GetOrCompute(ctx, "k", time.Minute, func(ctx context.Context) (domain.Snapshot, error) {
		return snapshotOf("a"), nil
	})
	if err != nil {
		t.Fatalf("expected computed value despite outage, got %v", err)
	}
	if len(snap.Tokens) != 1 || snap.Tokens[0].Address != "a" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewSnapshotCache(NewMemoryStore())

	compute := func(ctx context.Context) (domain.Snapshot, error) {
		return snapshotOf("a"), nil
	}
	if _, err := c.GetOrCompute(ctx, "k1", time.Minute, compute); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrCompute(ctx, "k2", time.Minute, compute); err != nil {
		t.Fatal(err)
	}

	c.Clear(ctx, "k1")
	if c.Stats(ctx).Entries != 1 {
		t.Errorf("expected single-key clear, got %d entries", c.Stats(ctx).Entries)
	}

	c.Clear(ctx, "")
	if c.Stats(ctx).Entries != 0 {
		t.Errorf("expected full flush, got %d entries", c.Stats(ctx).Entries)
	}
}
