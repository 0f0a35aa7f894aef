package provider

import (
	"strconv"
	"strings"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
)

// parseFloatString converts provider string numerics, falling back to 0 on
// parse failure so NaN never propagates downstream.
func parseFloatString(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n
}

// dedupByAddress keeps the first token seen per address, preserving input
// order. This is the per-provider dedup; cross-provider merge happens later.
func dedupByAddress(tokens []domain.Token) []domain.Token {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t.Address]; ok {
			continue
		}
		seen[t.Address] = struct{}{}
		out = append(out, t)
	}
	return out
}

// chunkAddresses splits addresses into groups of at most size.
func chunkAddresses(addresses []string, size int) [][]string {
	if size <= 0 || len(addresses) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(addresses)+size-1)/size)
	for start := 0; start < len(addresses); start += size {
		end := start + size
		if end > len(addresses) {
			end = len(addresses)
		}
		chunks = append(chunks, addresses[start:end])
	}
	return chunks
}
