package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
	"github.com/Anuragp22/axiom-sub000/internal/fetch"

	"go.opentelemetry.io/otel/trace"
)

// GeckoTerminalMaxBatch is the address cap of the tokens/multi endpoint.
const GeckoTerminalMaxBatch = 30

// GeckoTerminalClient adapts the GeckoTerminal JSON:API. It is the
// authoritative source for price/volume/liquidity numerics in
// cross-provider merges.
type GeckoTerminalClient struct {
	client *fetch.Client
	tracer trace.Tracer
}

// NewGeckoTerminalClient creates the adapter. The free tier allows 30
// requests per minute, enforced with a token bucket when cfg carries no
// limiter.
func NewGeckoTerminalClient(tracer trace.Tracer, cfg fetch.Config) *GeckoTerminalClient {
	if cfg.Limiter == nil {
		cfg.Limiter = fetch.NewRateLimiter(30, 2*time.Second)
	}
	return &GeckoTerminalClient{
		client: fetch.NewClient(string(domain.SourceGeckoTerminal), cfg),
		tracer: tracer,
	}
}

func (p *GeckoTerminalClient) Name() domain.Source { return domain.SourceGeckoTerminal }

type gtPoolsResponse struct {
	Data []gtPool `json:"data"`
}

type gtPool struct {
	ID            string          `json:"id"`
	Attributes    gtPoolAttrs     `json:"attributes"`
	Relationships gtRelationships `json:"relationships"`
}

type gtPoolAttrs struct {
	Name                  string                 `json:"name"`
	Address               string                 `json:"address"`
	BaseTokenPriceUSD     string                 `json:"base_token_price_usd"`
	BaseTokenPriceNative  string                 `json:"base_token_price_native_currency"`
	ReserveInUSD          string                 `json:"reserve_in_usd"`
	FDVUSD                string                 `json:"fdv_usd"`
	MarketCapUSD          *string                `json:"market_cap_usd"`
	PoolCreatedAt         string                 `json:"pool_created_at"`
	PriceChangePercentage map[string]string      `json:"price_change_percentage"`
	Transactions          map[string]gtTxnWindow `json:"transactions"`
	VolumeUSD             map[string]string      `json:"volume_usd"`
}

type gtTxnWindow struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type gtRelationships struct {
	BaseToken gtRelationship `json:"base_token"`
	Dex       gtRelationship `json:"dex"`
}

type gtRelationship struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type gtTokensResponse struct {
	Data []gtTokenData `json:"data"`
}

type gtTokenData struct {
	Attributes gtTokenAttrs `json:"attributes"`
}

type gtTokenAttrs struct {
	Address           string            `json:"address"`
	Name              string            `json:"name"`
	Symbol            string            `json:"symbol"`
	PriceUSD          string            `json:"price_usd"`
	FDVUSD            string            `json:"fdv_usd"`
	MarketCapUSD      *string           `json:"market_cap_usd"`
	TotalReserveInUSD string            `json:"total_reserve_in_usd"`
	VolumeUSD         map[string]string `json:"volume_usd"`
}

// Search runs the pool search scoped to the target network.
func (p *GeckoTerminalClient) Search(ctx context.Context, query string) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "geckoterminal.search")
	defer span.End()

	path := fmt.Sprintf("/search/pools?query=%s&network=%s", url.QueryEscape(strings.TrimSpace(query)), domain.ChainID)
	body, err := p.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return p.parsePools(body)
}

// GetByAddress returns the token's top pools on the target network.
func (p *GeckoTerminalClient) GetByAddress(ctx context.Context, address string) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "geckoterminal.get-by-address")
	defer span.End()

	body, err := p.client.Get(ctx, fmt.Sprintf("/networks/%s/tokens/%s/pools", domain.ChainID, address))
	if err != nil {
		return nil, fmt.Errorf("token pools %s: %w", address, err)
	}
	return p.parsePools(body)
}

// GetTrending returns the provider's native trending pool list.
func (p *GeckoTerminalClient) GetTrending(ctx context.Context) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "geckoterminal.get-trending")
	defer span.End()

	body, err := p.client.Get(ctx, fmt.Sprintf("/networks/%s/trending_pools", domain.ChainID))
	if err != nil {
		return nil, fmt.Errorf("trending pools: %w", err)
	}
	tokens, err := p.parsePools(body)
	if err != nil {
		return nil, err
	}
	return dedupByAddress(tokens), nil
}

// GetBatch fetches token-level data for multiple addresses via the
// tokens/multi endpoint, chunked and parallel; a failed chunk contributes
// zero tokens.
func (p *GeckoTerminalClient) GetBatch(ctx context.Context, addresses []string) ([]domain.Token, error) {
	ctx, span := p.tracer.Start(ctx, "geckoterminal.get-batch")
	defer span.End()

	chunks := chunkAddresses(addresses, GeckoTerminalMaxBatch)
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
			path := fmt.Sprintf("/networks/%s/tokens/multi/%s", domain.ChainID, strings.Join(chunk, ","))
			body, err := p.client.Get(ctx, path)
			if err != nil {
				log.Printf("geckoterminal batch chunk of %d failed: %v", len(chunk), err)
				return
			}
			tokens, err := p.parseTokens(body)
			if err != nil {
				log.Printf("geckoterminal batch chunk parse failed: %v", err)
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

func (p *GeckoTerminalClient) parsePools(body []byte) ([]domain.Token, error) {
	var raw gtPoolsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &domain.UpstreamError{
			Provider: string(domain.SourceGeckoTerminal),
			Err:      fmt.Errorf("parse pools payload: %w", err),
		}
	}

	now := time.Now().UnixMilli()
	tokens := make([]domain.Token, 0, len(raw.Data))
	for _, pool := range raw.Data {
		token, ok := mapGtPool(pool, now)
		if !ok {
			log.Printf("geckoterminal: dropping pool %s without identity fields", pool.ID)
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func (p *GeckoTerminalClient) parseTokens(body []byte) ([]domain.Token, error) {
	var raw gtTokensResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &domain.UpstreamError{
			Provider: string(domain.SourceGeckoTerminal),
			Err:      fmt.Errorf("parse tokens payload: %w", err),
		}
	}

	now := time.Now().UnixMilli()
	tokens := make([]domain.Token, 0, len(raw.Data))
	for _, data := range raw.Data {
		attrs := data.Attributes
		if attrs.Address == "" || attrs.Symbol == "" {
			log.Printf("geckoterminal: dropping token without identity fields")
			continue
		}
		marketCap := parseFloatString(attrs.FDVUSD)
		if attrs.MarketCapUSD != nil {
			if v := parseFloatString(*attrs.MarketCapUSD); v > 0 {
				marketCap = v
			}
		}
		tokens = append(tokens, domain.Token{
			Address:      attrs.Address,
			Name:         attrs.Name,
			Ticker:       attrs.Symbol,
			PriceUSD:     parseFloatString(attrs.PriceUSD),
			MarketCapUSD: marketCap,
			VolumeUSD:    parseFloatString(attrs.VolumeUSD["h24"]),
			LiquidityUSD: parseFloatString(attrs.TotalReserveInUSD),
			UpdatedAt:    now,
			Source:       domain.SourceGeckoTerminal,
		})
	}
	return tokens, nil
}

// mapGtPool normalizes one raw pool into the canonical record. The base token
// address is carried in the relationship id as "<network>_<address>".
func mapGtPool(pool gtPool, nowMillis int64) (domain.Token, bool) {
	address := strings.TrimPrefix(pool.Relationships.BaseToken.Data.ID, domain.ChainID+"_")
	if address == "" {
		return domain.Token{}, false
	}

	name := pool.Attributes.Name
	ticker := name
	if idx := strings.Index(name, " / "); idx > 0 {
		ticker = name[:idx]
	}
	if ticker == "" {
		return domain.Token{}, false
	}

	marketCap := parseFloatString(pool.Attributes.FDVUSD)
	if pool.Attributes.MarketCapUSD != nil {
		if v := parseFloatString(*pool.Attributes.MarketCapUSD); v > 0 {
			marketCap = v
		}
	}

	var createdAt int64
	if ts, err := time.Parse(time.RFC3339, pool.Attributes.PoolCreatedAt); err == nil {
		createdAt = ts.Unix()
	}

	txns := pool.Attributes.Transactions["h24"]

	return domain.Token{
		Address:          address,
		Name:             name,
		Ticker:           ticker,
		PriceNative:      parseFloatString(pool.Attributes.BaseTokenPriceNative),
		PriceUSD:         parseFloatString(pool.Attributes.BaseTokenPriceUSD),
		MarketCapUSD:     marketCap,
		VolumeUSD:        parseFloatString(pool.Attributes.VolumeUSD["h24"]),
		LiquidityUSD:     parseFloatString(pool.Attributes.ReserveInUSD),
		TransactionCount: int64(txns.Buys + txns.Sells),
		PriceChange1h:    parseFloatString(pool.Attributes.PriceChangePercentage["h1"]),
		PriceChange24h:   parseFloatString(pool.Attributes.PriceChangePercentage["h24"]),
		Protocol:         pool.Relationships.Dex.Data.ID,
		VenueID:          pool.ID,
		PairAddress:      pool.Attributes.Address,
		CreatedAt:        createdAt,
		UpdatedAt:        nowMillis,
		Source:           domain.SourceGeckoTerminal,
	}, true
}
