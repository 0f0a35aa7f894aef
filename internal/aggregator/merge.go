package aggregator

import (
	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

// Source precedence tables. DexScreener wins identity and provenance fields;
// GeckoTerminal wins the price/volume/liquidity/market-cap numeric classes
// when it reports a non-zero value. One table serves every path, REST and
// push alike.
var (
	identityPriority = map[domain.Source]int{
		domain.SourceDexScreener:   2,
		domain.SourceGeckoTerminal: 1,
	}
	numericPriority = map[domain.Source]int{
		domain.SourceGeckoTerminal: 2,
		domain.SourceDexScreener:   1,
	}
)

// Merge deduplicates tokens by address across provider batches and merges
// multi-source records under the precedence tables. It is pure and
// synchronous: commutative, associative, and idempotent over the same
// multiset of inputs, so concurrent adapters may settle in any order.
func Merge(batches ...[]domain.Token) []domain.Token {
	byAddress := make(map[string]domain.Token)
	order := make([]string, 0)

	for _, batch := range batches {
		for _, token := range batch {
			if token.Address == "" {
				continue
			}
			existing, ok := byAddress[token.Address]
			if !ok {
				byAddress[token.Address] = token
				order = append(order, token.Address)
				continue
			}
			byAddress[token.Address] = mergeTokens(existing, token)
		}
	}

	merged := make([]domain.Token, 0, len(order))
	for _, addr := range order {
		merged = append(merged, byAddress[addr])
	}
	return merged
}

// mergeTokens combines two records for the same address. Every field rule is
// symmetric in its arguments so merge order never changes the result.
func mergeTokens(a, b domain.Token) domain.Token {
	out := domain.Token{Address: a.Address}

	out.Name = mergeIdentity(a, b, a.Name, b.Name)
	out.Ticker = mergeIdentity(a, b, a.Ticker, b.Ticker)
	out.Protocol = mergeIdentity(a, b, a.Protocol, b.Protocol)
	out.VenueID = mergeIdentity(a, b, a.VenueID, b.VenueID)
	out.PairAddress = mergeIdentity(a, b, a.PairAddress, b.PairAddress)

	out.PriceNative = mergeNumeric(a, b, a.PriceNative, b.PriceNative)
	out.PriceUSD = mergeNumeric(a, b, a.PriceUSD, b.PriceUSD)
	out.MarketCapNative = mergeNumeric(a, b, a.MarketCapNative, b.MarketCapNative)
	out.MarketCapUSD = mergeNumeric(a, b, a.MarketCapUSD, b.MarketCapUSD)
	out.VolumeNative = mergeNumeric(a, b, a.VolumeNative, b.VolumeNative)
	out.VolumeUSD = mergeNumeric(a, b, a.VolumeUSD, b.VolumeUSD)
	out.LiquidityNative = mergeNumeric(a, b, a.LiquidityNative, b.LiquidityNative)
	out.LiquidityUSD = mergeNumeric(a, b, a.LiquidityUSD, b.LiquidityUSD)
	out.PriceChange1h = mergeNumeric(a, b, a.PriceChange1h, b.PriceChange1h)
	out.PriceChange24h = mergeNumeric(a, b, a.PriceChange24h, b.PriceChange24h)
	out.PriceChange7d = mergeNumeric(a, b, a.PriceChange7d, b.PriceChange7d)

	out.TransactionCount = maxInt64(a.TransactionCount, b.TransactionCount)
	out.UpdatedAt = maxInt64(a.UpdatedAt, b.UpdatedAt)
	out.CreatedAt = earliestNonZero(a.CreatedAt, b.CreatedAt)

	if identityPriority[a.Source] >= identityPriority[b.Source] {
		out.Source = a.Source
	} else {
		out.Source = b.Source
	}

	return out
}

// mergeIdentity keeps the identity-priority source's value, falling back to
// the other side when the winner reports nothing.
func mergeIdentity(a, b domain.Token, va, vb string) string {
	if va == "" {
		return vb
	}
	if vb == "" {
		return va
	}
	if identityPriority[a.Source] == identityPriority[b.Source] {
		// Same source twice: the fresher record wins.
		if b.UpdatedAt > a.UpdatedAt {
			return vb
		}
		return va
	}
	if identityPriority[a.Source] > identityPriority[b.Source] {
		return va
	}
	return vb
}

// mergeNumeric takes the non-zero value from either side, preferring the
// numeric-priority source when both report non-zero.
func mergeNumeric(a, b domain.Token, va, vb float64) float64 {
	if va == 0 {
		return vb
	}
	if vb == 0 {
		return va
	}
	if numericPriority[a.Source] == numericPriority[b.Source] {
		if b.UpdatedAt > a.UpdatedAt {
			return vb
		}
		return va
	}
	if numericPriority[a.Source] > numericPriority[b.Source] {
		return va
	}
	return vb
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func earliestNonZero(a, b int64) int64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a < b {
		return a
	}
	return b
}
