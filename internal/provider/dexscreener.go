package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
	"github.com/Anuragp22/axiom-sub000/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

const (
	// DexScreenerMaxBatch is the address cap the token endpoint accepts per call.
	DexScreenerMaxBatch = 30
)

// trendingTerms drives the synthesized trending list: DexScreener has no
// native trending endpoint, so candidates are searched in parallel and
// successful settlements are kept.
var trendingTerms = []string{"SOL", "USDC", "BONK", "WIF", "JUP", "meme"}

// DexScreenerClient adapts the DexScreener pair API. It is the primary
// identity source in cross-provider merges.
type DexScreenerClient struct {
	client *fetch.Client
	tracer trace.Tracer
}

// NewDexScreenerClient creates the adapter with built-in rate limiting when
// cfg carries no limiter (300 requests per minute on the free tier).
func NewDexScreenerClient(tracer trace.Tracer, cfg fetch.Config) *DexScreenerClient {
	if cfg.Limiter == nil {
		cfg.Limiter = fetch.NewRateLimiter(300, 200*time.Millisecond)
	}
	return &DexScreenerClient{
		client: fetch.NewClient(string(domain.SourceDexScreener), cfg),
		tracer: tracer,
	}
}

func (p *DexScreenerClient) Name() domain.Source { return domain.SourceDexScreener }

// dexPairsResponse is the shape shared by the search and token endpoints.
type dexPairsResponse struct {
	SchemaVersion string    `json:"schemaVersion"`
	Pairs         []dexPair `json:"pairs"`
}

type dexPair struct {
	ChainID     string             `json:"chainId"`
	DexID       string             `json:"dexId"`
	PairAddress string             `json:"pairAddress"`
	BaseToken   dexToken           `json:"baseToken"`
	QuoteToken  dexToken           `json:"quoteToken"`
	PriceNative string             `json:"priceNative"`
	PriceUSD    string             `json:"priceUsd"`
	Txns        map[string]dexTxns `json:"txns"`
	Volume      map[string]float64 `json:"volume"`
	PriceChange map[string]float64 `json:"priceChange"`
	Liquidity   *dexLiquidity      `json:"liquidity"`
	FDV         float64            `json:"fdv"`
	MarketCap   float64            `json:"marketCap"`
	CreatedAt   int64              `json:"pairCreatedAt"`
}

type dexToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexTxns struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type dexLiquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// Search runs the provider text search, keeping only pairs on the target chain.
func (p *DexScreenerClient) Search(ctx context.Context, query string) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "dexscreener.search")
	defer span.End()

	body, err := p.client.Get(ctx, "/latest/dex/search?q="+strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return p.parsePairs(body)
}

// GetByAddress returns all pairs for one token address.
func (p *DexScreenerClient) GetByAddress(ctx context.Context, address string) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "dexscreener.get-by-address")
	defer span.End()

	body, err := p.client.Get(ctx, "/latest/dex/tokens/"+address)
	if err != nil {
		return nil, fmt.Errorf("tokens %s: %w", address, err)
	}
	return p.parsePairs(body)
}

// GetTrending synthesizes a hot list from parallel candidate searches. A
// failed candidate never aborts the others; successes are concatenated and
// deduplicated by address.
func (p *DexScreenerClient) GetTrending(ctx context.Context) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "dexscreener.get-trending")
	defer span.End()

	type settled struct {
		tokens []domain.Token
		err    error
		term   string
	}

	results := make(chan settled, len(trendingTerms))
	for _, term := range trendingTerms {
		go func(term string) {
			tokens, err := p.Search(ctx, term)
			results <- settled{tokens: tokens, err: err, term: term}
		}(term)
	}

	var all []domain.Token
	for range trendingTerms {
		r := <-results
		if r.err != nil {
			log.Printf("dexscreener trending candidate %q failed: %v", r.term, r.err)
			continue
		}
		all = append(all, r.tokens...)
	}

	return dedupByAddress(all), nil
}

// GetBatch fetches tokens for multiple addresses. The endpoint caps addresses
// per call, so the input is chunked and chunk requests run in parallel; a
// failed chunk contributes zero tokens.
func (p *DexScreenerClient) GetBatch(ctx context.Context, addresses []string) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "dexscreener.get-batch")
	defer span.End()

	chunks := chunkAddresses(addresses, DexScreenerMaxBatch)
	if len(chunks) == 0 {
		return nil, nil
	}

	var (
		mu  sync.Mutex
		all []domain.Token
		wg  sync.WaitGroup
	)
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []string) {
			defer wg.Done()
			body, err := p.client.Get(ctx, "/latest/dex/tokens/"+strings.Join(chunk, ","))
			if err != nil {
				log.Printf("dexscreener batch chunk of %d failed: %v", len(chunk), err)
				return
			}
			tokens, err := p.parsePairs(body)
			if err != nil {
				log.Printf("dexscreener batch chunk parse failed: %v", err)
				return
			}
			mu.Lock()
			all = append(all, tokens...)
			mu.Unlock()
		}(chunk)
	}
	wg.Wait()

	return dedupByAddress(all), nil
}

func (p *DexScreenerClient) parsePairs(body []byte) ([]domain.Token, error) {
	var raw dexPairsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &domain.UpstreamError{
			Provider: string(domain.SourceDexScreener),
			Err:      fmt.Errorf("parse pairs payload: %w", err),
		}
	}

	now := time.Now().UnixMilli()
	tokens := make([]domain.Token, 0, len(raw.Pairs))
	for _, pair := range raw.Pairs {
		if pair.ChainID != domain.ChainID {
			continue
		}
		token, ok := mapDexPair(pair, now)
		if !ok {
			log.Printf("dexscreener: dropping pair %s without identity fields", pair.PairAddress)
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// mapDexPair normalizes one raw pair into the canonical record. It reports
// false when required identity fields are missing.
func mapDexPair(pair dexPair, nowMillis int64) (domain.Token, bool) {
	if pair.BaseToken.Address == "" || pair.BaseToken.Symbol == "" {
		return domain.Token{}, false
	}

	marketCap := pair.MarketCap
	if marketCap == 0 {
		marketCap = pair.FDV
	}

	var liquidityUSD, liquidityNative float64
	if pair.Liquidity != nil {
		liquidityUSD = pair.Liquidity.USD
		liquidityNative = pair.Liquidity.Base
	}

	txns := pair.Txns["h24"]

	return domain.Token{
		Address:          pair.BaseToken.Address,
		Name:             pair.BaseToken.Name,
		Ticker:           pair.BaseToken.Symbol,
		PriceNative:      parseFloatString(pair.PriceNative),
		PriceUSD:         parseFloatString(pair.PriceUSD),
		MarketCapUSD:     marketCap,
		VolumeUSD:        pair.Volume["h24"],
		LiquidityUSD:     liquidityUSD,
		LiquidityNative:  liquidityNative,
		TransactionCount: int64(txns.Buys + txns.Sells),
		PriceChange1h:    pair.PriceChange["h1"],
		PriceChange24h:   pair.PriceChange["h24"],
		Protocol:         pair.DexID,
		PairAddress:      pair.PairAddress,
		CreatedAt:        pair.CreatedAt / 1000,
		UpdatedAt:        nowMillis,
		Source:           domain.SourceDexScreener,
	}, true
}
