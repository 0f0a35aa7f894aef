package domain

// Source identifies the upstream provider a token record came from. After a
// merge the tag collapses to the single winning provider.
type Source string

const (
	SourceDexScreener   Source = "dexscreener"
	SourceGeckoTerminal Source = "geckoterminal"
)

// ChainID is the only chain this service aggregates. Cross-chain pairs from
// upstream providers are dropped at the adapter boundary.
const ChainID = "solana"

// Token is the canonical, provider-agnostic record this service serves.
type Token struct {
	Address          string  `json:"address"`
	Name             string  `json:"name"`
	Ticker           string  `json:"ticker"`
	PriceNative      float64 `json:"priceNative"`
	PriceUSD         float64 `json:"priceUsd"`
	MarketCapNative  float64 `json:"marketCapNative"`
	MarketCapUSD     float64 `json:"marketCapUsd"`
	VolumeNative     float64 `json:"volumeNative"`
	VolumeUSD        float64 `json:"volumeUsd"`
	LiquidityNative  float64 `json:"liquidityNative"`
	LiquidityUSD     float64 `json:"liquidityUsd"`
	TransactionCount int64   `json:"transactionCount"`
	PriceChange1h    float64 `json:"priceChange1h"`
	PriceChange24h   float64 `json:"priceChange24h"`
	PriceChange7d    float64 `json:"priceChange7d"`
	Protocol         string  `json:"protocol,omitempty"`
	VenueID          string  `json:"venueId,omitempty"`
	PairAddress      string  `json:"pairAddress,omitempty"`
	// CreatedAt is the pair origination time in epoch seconds, immutable once set.
	CreatedAt int64 `json:"createdAt,omitempty"`
	// UpdatedAt is the last merge/enrichment time in epoch milliseconds.
	UpdatedAt int64  `json:"updatedAt"`
	Source    Source `json:"source"`
}

// Snapshot is one immutable, fully-merged token set captured at a point in
// time. Snapshots are replaced wholesale, never mutated in place.
type Snapshot struct {
	Tokens     []Token `json:"tokens"`
	CapturedAt int64   `json:"capturedAt"`
}

// Index returns the snapshot's tokens keyed by address. A merged snapshot
// holds exactly one token per address.
func (s Snapshot) Index() map[string]Token {
	idx := make(map[string]Token, len(s.Tokens))
	for _, t := range s.Tokens {
		idx[t.Address] = t
	}
	return idx
}
