package aggregator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/cache"
	"github.com/Anuragp22/axiom-sub000/internal/domain"
	"github.com/Anuragp22/axiom-sub000/internal/provider"
	"github.com/Anuragp22/axiom-sub000/internal/query"

	"go.opentelemetry.io/otel/trace"
)

// Cache keys per aggregation view. The cache holds one live snapshot per key,
// replaced wholesale.
const (
	keyList          = "tokens:list"
	keySearchPrefix  = "tokens:search:"
	keyAddressPrefix = "tokens:address:"
)

// minSearchQueryLen guards the upstream search endpoints from junk queries.
const minSearchQueryLen = 2

// Config tunes the aggregation service.
type Config struct {
	ListTTL    time.Duration
	SearchTTL  time.Duration
	AddressTTL time.Duration
}

// Service orchestrates the source adapters, merge engine, cache, and query
// layer behind one aggregation API.
type Service struct {
	tracer  trace.Tracer
	sources []provider.TokenSource
	cache   *cache.SnapshotCache
	cfg     Config
}

func NewService(tracer trace.Tracer, sources []provider.TokenSource, snapshots *cache.SnapshotCache, cfg Config) *Service {
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = 30 * time.Second
	}
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = 60 * time.Second
	}
	if cfg.AddressTTL <= 0 {
		cfg.AddressTTL = 15 * time.Second
	}
	return &Service{tracer: tracer, sources: sources, cache: snapshots, cfg: cfg}
}

// List returns a filtered, sorted, paginated view over the merged token
// universe, served from the short-TTL cache.
func (s *Service) List(ctx context.Context, params query.Params) (query.Page, error) {
	ctx, span := s.tracer.Start(ctx, "aggregator.list")
	defer span.End()

	snap, err := s.cache.GetOrCompute(ctx, keyList, s.cfg.ListTTL, s.computeUniverse)
	if err != nil {
		return query.Page{}, err
	}
	return query.Apply(snap.Tokens, params), nil
}

// Search runs the provider text searches, merges the settlements, and applies
// the query parameters. Results are cached per normalized query string.
func (s *Service) Search(ctx context.Context, q string, params query.Params) (query.Page, error) {
	ctx, span := s.tracer.Start(ctx, "aggregator.search")
	defer span.End()

	q = strings.TrimSpace(q)
	if len(q) < minSearchQueryLen {
		return query.Page{}, &domain.ValidationError{Field: "q", Message: fmt.Sprintf("query must be at least %d characters", minSearchQueryLen)}
	}

	key := keySearchPrefix + strings.ToLower(q)
	snap, err := s.cache.GetOrCompute(ctx, key, s.cfg.SearchTTL, func(ctx context.Context) (domain.Snapshot, error) {
		return s.fetchMerged(ctx, func(src provider.TokenSource) SourceCall {
			return func(ctx context.Context) ([]domain.Token, error) {
				return src.Search(ctx, q)
			}
		})
	})
	if err != nil {
		return query.Page{}, err
	}
	return query.Apply(snap.Tokens, params), nil
}

// Trending returns the top tokens by 24h volume from the merged universe.
func (s *Service) Trending(ctx context.Context, limit int) ([]domain.Token, error) {
	ctx, span := s.tracer.Start(ctx, "aggregator.trending")
	defer span.End()

	snap, err := s.cache.GetOrCompute(ctx, keyList, s.cfg.ListTTL, s.computeUniverse)
	if err != nil {
		return nil, err
	}

	tokens := make([]domain.Token, len(snap.Tokens))
	copy(tokens, snap.Tokens)
	sort.SliceStable(tokens, func(i, j int) bool {
		return tokens[i].VolumeUSD > tokens[j].VolumeUSD
	})

	if limit <= 0 || limit > len(tokens) {
		limit = len(tokens)
	}
	return tokens[:limit], nil
}

// ByAddress returns the merged record for one token address. The boolean is
// false when no provider knows the address.
func (s *Service) ByAddress(ctx context.Context, address string) (domain.Token, bool, error) {
	ctx, span := s.tracer.Start(ctx, "aggregator.by-address")
	defer span.End()

	key := keyAddressPrefix + address
	snap, err := s.cache.GetOrCompute(ctx, key, s.cfg.AddressTTL, func(ctx context.Context) (domain.Snapshot, error) {
		return s.fetchMerged(ctx, func(src provider.TokenSource) SourceCall {
			return func(ctx context.Context) ([]domain.Token, error) {
				return src.GetByAddress(ctx, address)
			}
		})
	})
	if err != nil {
		return domain.Token{}, false, err
	}

	token, ok := snap.Index()[address]
	return token, ok, nil
}

// FreshSnapshot recomputes the merged universe bypassing the cache. The delta
// publisher uses it to force freshness; the shared cache stays untouched.
func (s *Service) FreshSnapshot(ctx context.Context) (domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "aggregator.fresh-snapshot")
	defer span.End()

	return s.computeUniverse(ctx)
}

// ClearCache invalidates one key, or every entry when key is empty.
func (s *Service) ClearCache(ctx context.Context, key string) {
	s.cache.Clear(ctx, key)
}

// CacheStats reports hit/miss counters and live entry count.
func (s *Service) CacheStats(ctx context.Context) cache.Stats {
	return s.cache.Stats(ctx)
}

// computeUniverse drives every adapter's trending fetch and merges the
// settlements into one snapshot.
func (s *Service) computeUniverse(ctx context.Context) (domain.Snapshot, error) {
	return s.fetchMerged(ctx, func(src provider.TokenSource) SourceCall {
		return src.GetTrending
	})
}

// fetchMerged runs one call per source concurrently, merges the successes,
// and fails only when every source failed.
func (s *Service) fetchMerged(ctx context.Context, call func(provider.TokenSource) SourceCall) (domain.Snapshot, error) {
	calls := make([]SourceCall, 0, len(s.sources))
	for _, src := range s.sources {
		calls = append(calls, call(src))
	}

	result := Gather(ctx, calls...)
	for _, err := range result.Failed {
		log.Printf("source fetch degraded: %v", err)
	}
	if len(result.OK) == 0 {
		if len(result.Failed) > 0 {
			return domain.Snapshot{}, fmt.Errorf("all sources failed: %w", result.Failed[0])
		}
		return domain.Snapshot{}, fmt.Errorf("no sources configured")
	}

	return domain.Snapshot{
		Tokens:     Merge(result.OK...),
		CapturedAt: time.Now().UnixMilli(),
	}, nil
}
