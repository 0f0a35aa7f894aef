package aggregator

import (
	"reflect"
	"testing"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

func dexToken() domain.Token {
	return domain.Token{
		Address:          "So11111111111111111111111111111111111111112",
		Name:             "Wrapped SOL",
		Ticker:           "SOL",
		PriceUSD:         150.25,
		MarketCapUSD:     70_000_000_000,
		VolumeUSD:        1_200_000,
		LiquidityUSD:     5_000_000,
		TransactionCount: 4200,
		Protocol:         "raydium",
		PairAddress:      "pair-dex",
		CreatedAt:        1_700_000_000,
		UpdatedAt:        1_700_000_500_000,
		Source:           domain.SourceDexScreener,
	}
}

func gtToken() domain.Token {
	return domain.Token{
		Address:          "So11111111111111111111111111111111111111112",
		Name:             "SOL / USDC",
		Ticker:           "SOL",
		PriceUSD:         150.31,
		MarketCapUSD:     70_100_000_000,
		VolumeUSD:        1_250_000,
		LiquidityUSD:     5_100_000,
		TransactionCount: 3900,
		Protocol:         "orca",
		VenueID:          "solana_pool-gt",
		CreatedAt:        1_699_999_000,
		UpdatedAt:        1_700_000_600_000,
		Source:           domain.SourceGeckoTerminal,
	}
}

func TestMergeCombinesSources(t *testing.T) {
	t.Parallel()

	merged := Merge([]domain.Token{dexToken()}, []domain.Token{gtToken()})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged token, got %d", len(merged))
	}
	got := merged[0]

	// Identity fields come from DexScreener.
	if got.Name != "Wrapped SOL" {
		t.Errorf("expected DexScreener name, got %q", got.Name)
	}
	if got.Protocol != "raydium" {
		t.Errorf("expected DexScreener protocol, got %q", got.Protocol)
	}
	if got.Source != domain.SourceDexScreener {
		t.Errorf("expected winning source dexscreener, got %q", got.Source)
	}

	// Numeric fields come from GeckoTerminal when it reports non-zero.
	if got.PriceUSD != 150.31 {
		t.Errorf("expected GeckoTerminal price, got %v", got.PriceUSD)
	}
	if got.VolumeUSD != 1_250_000 {
		t.Errorf("expected GeckoTerminal volume, got %v", got.VolumeUSD)
	}

	// VenueID exists only on the GeckoTerminal side and must survive.
	if got.VenueID != "solana_pool-gt" {
		t.Errorf("expected venue id fallback, got %q", got.VenueID)
	}

	if got.TransactionCount != 4200 {
		t.Errorf("expected max transaction count 4200, got %d", got.TransactionCount)
	}
	if got.UpdatedAt != 1_700_000_600_000 {
		t.Errorf("expected max updatedAt, got %d", got.UpdatedAt)
	}
	if got.CreatedAt != 1_699_999_000 {
		t.Errorf("expected earliest createdAt, got %d", got.CreatedAt)
	}
}

func TestMergeCommutative(t *testing.T) {
	t.Parallel()

	a := []domain.Token{dexToken()}
	b := []domain.Token{gtToken()}

	ab := Merge(a, b)
	ba := Merge(b, a)

	if len(ab) != 1 || len(ba) != 1 {
		t.Fatalf("expected single merged token both ways, got %d and %d", len(ab), len(ba))
	}
	if !reflect.DeepEqual(ab[0], ba[0]) {
		t.Errorf("merge order changed the result:\n%+v\n%+v", ab[0], ba[0])
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	once := Merge([]domain.Token{dexToken()}, []domain.Token{gtToken()})
	twice := Merge(once, once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-merging the merged output changed it:\n%+v\n%+v", once, twice)
	}
}

func TestMergeZeroFallback(t *testing.T) {
	t.Parallel()

	gt := gtToken()
	gt.PriceUSD = 0
	gt.LiquidityUSD = 0

	merged := Merge([]domain.Token{dexToken()}, []domain.Token{gt})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged token, got %d", len(merged))
	}
	if merged[0].PriceUSD != 150.25 {
		t.Errorf("expected DexScreener price when GeckoTerminal reports zero, got %v", merged[0].PriceUSD)
	}
	if merged[0].LiquidityUSD != 5_000_000 {
		t.Errorf("expected DexScreener liquidity fallback, got %v", merged[0].LiquidityUSD)
	}
}

func TestMergeSameSourceFresherWins(t *testing.T) {
	t.Parallel()

	stale := dexToken()
	stale.PriceUSD = 149.00
	fresh := dexToken()
	fresh.PriceUSD = 151.00
	fresh.UpdatedAt = stale.UpdatedAt + 1000

	merged := Merge([]domain.Token{stale}, []domain.Token{fresh})
	if merged[0].PriceUSD != 151.00 {
		t.Errorf("expected fresher same-source record to win, got %v", merged[0].PriceUSD)
	}
}

func TestMergePreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	first := dexToken()
	second := gtToken()
	second.Address = "other-address"

	merged := Merge([]domain.Token{first}, []domain.Token{second})
	if len(merged) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(merged))
	}
	if merged[0].Address != first.Address || merged[1].Address != "other-address" {
		t.Errorf("insertion order not preserved: %s, %s", merged[0].Address, merged[1].Address)
	}
}

func TestMergeSkipsEmptyAddress(t *testing.T) {
	t.Parallel()

	blank := domain.Token{Ticker: "GHOST"}
	merged := Merge([]domain.Token{blank, dexToken()})
	if len(merged) != 1 {
		t.Fatalf("expected address-less token dropped, got %d tokens", len(merged))
	}
}
