package publisher

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// SnapshotSource provides a force-fresh merged snapshot, bypassing the
// serving cache.
type SnapshotSource interface {
	FreshSnapshot(ctx context.Context) (domain.Snapshot, error)
}

// Broadcaster is the push-fanout collaborator.
type Broadcaster interface {
	Broadcast(event domain.Event)
	SubscriberCount() int
}

// Config tunes the publisher loops.
type Config struct {
	PriceInterval     time.Duration
	DiscoveryInterval time.Duration
	// DeltaThresholdPct is the minimum absolute percentage price change that
	// counts as publishable.
	DeltaThresholdPct float64
}

// Publisher periodically refetches the merged universe, diffs it against its
// own retained previous snapshot, and pushes significant price deltas and
// newly discovered tokens to subscribers. Failures abort the cycle and keep
// the previous snapshot; the timers keep running.
type Publisher struct {
	tracer trace.Tracer
	source SnapshotSource
	hub    Broadcaster
	cfg    Config

	// prev and seen are private loop state, each touched only within its own
	// sequential loop; no locking required.
	prev map[string]domain.Token
	seen map[string]struct{}
}

func New(tracer trace.Tracer, source SnapshotSource, hub Broadcaster, cfg Config) *Publisher {
	if cfg.PriceInterval <= 0 {
		cfg.PriceInterval = 5 * time.Second
	}
	if cfg.DiscoveryInterval <= 0 {
		cfg.DiscoveryInterval = 60 * time.Second
	}
	if cfg.DeltaThresholdPct <= 0 {
		cfg.DeltaThresholdPct = 0.1
	}
	return &Publisher{tracer: tracer, source: source, hub: hub, cfg: cfg}
}

// Start launches the price and discovery loops. Blocks until ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	log.Println("Delta publisher starting...")

	go p.loop(ctx, p.cfg.PriceInterval, p.runPriceCycle)
	go p.loop(ctx, p.cfg.DiscoveryInterval, p.runDiscoveryCycle)

	<-ctx.Done()
	log.Println("Delta publisher stopped")
}

func (p *Publisher) loop(ctx context.Context, interval time.Duration, cycle func(context.Context)) {
	cycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cycle(ctx)
		}
	}
}

// runPriceCycle refreshes, diffs against the retained snapshot, and emits
// significant deltas. With zero subscribers the fetch is skipped entirely to
// save upstream quota.
func (p *Publisher) runPriceCycle(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "publisher.price-cycle")
	defer span.End()

	if p.hub.SubscriberCount() == 0 {
		return
	}

	snap, err := p.source.FreshSnapshot(ctx)
	if err != nil {
		log.Printf("publisher refresh failed, keeping previous snapshot: %v", err)
		return
	}

	next := snap.Index()
	if p.prev == nil {
		p.prev = next
		return
	}

	deltas := diffPrices(p.prev, snap.Tokens, p.cfg.DeltaThresholdPct)
	p.prev = next

	if len(deltas) == 0 {
		return
	}
	p.hub.Broadcast(domain.Event{
		Type:      domain.EventPriceUpdate,
		Data:      deltas,
		Timestamp: time.Now().UnixMilli(),
	})
}

// runDiscoveryCycle emits tokens never seen before. The first cycle seeds the
// seen set silently so startup does not blast the entire universe as new.
func (p *Publisher) runDiscoveryCycle(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "publisher.discovery-cycle")
	defer span.End()

	if p.hub.SubscriberCount() == 0 {
		return
	}

	snap, err := p.source.FreshSnapshot(ctx)
	if err != nil {
		log.Printf("publisher discovery refresh failed: %v", err)
		return
	}

	if p.seen == nil {
		p.seen = make(map[string]struct{}, len(snap.Tokens))
		for _, t := range snap.Tokens {
			p.seen[t.Address] = struct{}{}
		}
		return
	}

	var discovered []domain.Token
	for _, t := range snap.Tokens {
		if _, ok := p.seen[t.Address]; ok {
			continue
		}
		p.seen[t.Address] = struct{}{}
		discovered = append(discovered, t)
	}

	if len(discovered) == 0 {
		return
	}
	p.hub.Broadcast(domain.Event{
		Type:      domain.EventNewToken,
		Data:      discovered,
		Timestamp: time.Now().UnixMilli(),
	})
}

// diffPrices computes percentage price deltas for tokens present in both
// snapshots, keeping only those that clear the significance threshold.
func diffPrices(prev map[string]domain.Token, tokens []domain.Token, thresholdPct float64) []domain.PriceDelta {
	var deltas []domain.PriceDelta
	for _, t := range tokens {
		old, ok := prev[t.Address]
		if !ok || old.PriceUSD <= 0 {
			continue
		}
		changePct := (t.PriceUSD - old.PriceUSD) / old.PriceUSD * 100
		if math.Abs(changePct) < thresholdPct {
			continue
		}
		deltas = append(deltas, domain.PriceDelta{
			Address:          t.Address,
			Ticker:           t.Ticker,
			PriceUSD:         t.PriceUSD,
			PreviousPriceUSD: old.PriceUSD,
			ChangePct:        changePct,
			VolumeUSD:        t.VolumeUSD,
			UpdatedAt:        t.UpdatedAt,
		})
	}
	return deltas
}
