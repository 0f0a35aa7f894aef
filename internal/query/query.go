package query

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"sort"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

// SortField selects the comparator over the merged snapshot.
type SortField string

const (
	SortVolume      SortField = "volume"
	SortMarketCap   SortField = "marketCap"
	SortPriceChange SortField = "priceChange"
	SortLiquidity   SortField = "liquidity"
	SortCreatedAt   SortField = "createdAt"
)

type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

const (
	// MaxLimit is the page size ceiling; requested limits are clamped into
	// [1, MaxLimit].
	MaxLimit     = 100
	DefaultLimit = 20
)

// Params is the request-scoped filter/sort/page value object. Zero thresholds
// are inactive; a missing token field compares as 0, so missing data never
// passes a positive threshold.
type Params struct {
	MinVolume    float64
	MinMarketCap float64
	MinLiquidity float64
	Protocols    []string
	Sort         SortField
	Direction    Direction
	Cursor       string
	Limit        int
}

// Page is one slice of a sorted, filtered view.
type Page struct {
	Items      []domain.Token `json:"items"`
	Total      int            `json:"total"`
	HasMore    bool           `json:"hasMore"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

type cursorPayload struct {
	Offset int `json:"offset"`
}

// Apply filters, sorts, and paginates tokens. It is pure over its inputs: the
// snapshot is never mutated and the sort is stable for a given input order.
func Apply(tokens []domain.Token, p Params) Page {
	filtered := make([]domain.Token, 0, len(tokens))
	for _, t := range tokens {
		if matches(t, p) {
			filtered = append(filtered, t)
		}
	}

	sortTokens(filtered, p.Sort, p.Direction)

	offset := decodeCursor(p.Cursor)
	limit := clampLimit(p.Limit)
	total := len(filtered)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := Page{
		Items:   filtered[offset:end],
		Total:   total,
		HasMore: end < total,
	}
	if page.HasMore {
		page.NextCursor = encodeCursor(end)
	}
	return page
}

func matches(t domain.Token, p Params) bool {
	if p.MinVolume > 0 && t.VolumeUSD < p.MinVolume {
		return false
	}
	if p.MinMarketCap > 0 && t.MarketCapUSD < p.MinMarketCap {
		return false
	}
	if p.MinLiquidity > 0 && t.LiquidityUSD < p.MinLiquidity {
		return false
	}
	if len(p.Protocols) > 0 {
		found := false
		for _, proto := range p.Protocols {
			if t.Protocol == proto {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortTokens(tokens []domain.Token, field SortField, dir Direction) {
	key := sortKey(field)
	desc := dir != DirectionAsc // default direction is desc

	sort.SliceStable(tokens, func(i, j int) bool {
		a, b := key(tokens[i]), key(tokens[j])
		if desc {
			return a > b
		}
		return a < b
	})
}

func sortKey(field SortField) func(domain.Token) float64 {
	switch field {
	case SortMarketCap:
		return func(t domain.Token) float64 { return t.MarketCapUSD }
	case SortPriceChange:
		return func(t domain.Token) float64 { return t.PriceChange24h }
	case SortLiquidity:
		return func(t domain.Token) float64 { return t.LiquidityUSD }
	case SortCreatedAt:
		return func(t domain.Token) float64 { return float64(t.CreatedAt) }
	default:
		// Default sort is volume.
		return func(t domain.Token) float64 { return t.VolumeUSD }
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func encodeCursor(offset int) string {
	data, _ := json.Marshal(cursorPayload{Offset: offset})
	return base64.StdEncoding.EncodeToString(data)
}

// decodeCursor is defensive: an invalid or corrupt cursor reads as offset 0
// rather than failing the request.
func decodeCursor(cursor string) int {
	if cursor == "" {
		return 0
	}
	data, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		log.Printf("invalid pagination cursor %q, treating as start", cursor)
		return 0
	}
	var payload cursorPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Offset < 0 {
		log.Printf("corrupt pagination cursor %q, treating as start", cursor)
		return 0
	}
	return payload.Offset
}
