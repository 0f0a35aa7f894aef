package handler

import (
	"strconv"
	"strings"

	"github.com/Anuragp22/axiom-sub000/internal/domain"
	"github.com/Anuragp22/axiom-sub000/internal/query"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// ListTokens godoc
// @Summary      List aggregated tokens
// @Description  Returns the merged token universe with filtering, sorting, and cursor pagination
// @Tags         tokens
// @Produce      json
// @Param        minVolume     query  number  false  "Minimum 24h volume in USD"
// @Param        minMarketCap  query  number  false  "Minimum market cap in USD"
// @Param        minLiquidity  query  number  false  "Minimum liquidity in USD"
// @Param        protocols     query  string  false  "Comma-separated protocol allow-list"
// @Param        sort          query  string  false  "Sort field (volume, marketCap, priceChange, liquidity, createdAt)"  default(volume)
// @Param        direction     query  string  false  "Sort direction (asc, desc)"  default(desc)
// @Param        cursor        query  string  false  "Opaque pagination cursor"
// @Param        limit         query  int     false  "Page size (max 100)"  default(20)
// @Success      200  {object}  handler.Envelope
// @Failure      400  {object}  handler.Envelope
// @Failure      502  {object}  handler.Envelope
// @Router       /api/tokens [get]
func (h *Handler) ListTokens(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-tokens")
	defer span.End()

	params, err := parseQueryParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.tokens.List(ctx, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

// SearchTokens godoc
// @Summary      Search tokens across providers
// @Description  Runs the upstream text searches and returns merged, filtered results
// @Tags         tokens
// @Produce      json
// @Param        q  query  string  true  "Search query (min 2 characters)"
// @Success      200  {object}  handler.Envelope
// @Failure      400  {object}  handler.Envelope
// @Failure      502  {object}  handler.Envelope
// @Router       /api/tokens/search [get]
func (h *Handler) SearchTokens(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search-tokens")
	defer span.End()

	q := c.Query("q")
	span.SetAttributes(attribute.String("query", q))

	params, err := parseQueryParams(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.tokens.Search(ctx, q, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, page)
}

// TrendingTokens godoc
// @Summary      Get trending tokens
// @Description  Returns the top tokens by 24h volume from the merged universe
// @Tags         tokens
// @Produce      json
// @Param        limit  query  int  false  "Number of tokens"  default(20)
// @Success      200  {object}  handler.Envelope
// @Failure      502  {object}  handler.Envelope
// @Router       /api/tokens/trending [get]
func (h *Handler) TrendingTokens(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.trending-tokens")
	defer span.End()

	limit := query.DefaultLimit
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= query.MaxLimit {
			limit = n
		}
	}

	tokens, err := h.tokens.Trending(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"tokens": tokens})
}

// GetToken godoc
// @Summary      Get one token by address
// @Description  Returns the merged record for a single token address
// @Tags         tokens
// @Produce      json
// @Param        address  path  string  true  "Token address"
// @Success      200  {object}  handler.Envelope
// @Failure      404  {object}  handler.Envelope
// @Failure      502  {object}  handler.Envelope
// @Router       /api/tokens/{address} [get]
func (h *Handler) GetToken(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-token")
	defer span.End()

	address := c.Param("address")
	span.SetAttributes(attribute.String("address", address))

	token, ok, err := h.tokens.ByAddress(ctx, address)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		respondErrorCode(c, 404, codeNotFound, "token not found: "+address)
		return
	}
	respondOK(c, token)
}

// parseQueryParams builds the filter/sort/page value object from request
// query parameters. Unknown sort fields and directions are rejected.
func parseQueryParams(c *gin.Context) (query.Params, error) {
	var params query.Params

	params.MinVolume = parseFloatParam(c, "minVolume")
	params.MinMarketCap = parseFloatParam(c, "minMarketCap")
	params.MinLiquidity = parseFloatParam(c, "minLiquidity")

	if protocols := c.Query("protocols"); protocols != "" {
		for _, p := range strings.Split(protocols, ",") {
			if p = strings.TrimSpace(p); p != "" {
				params.Protocols = append(params.Protocols, p)
			}
		}
	}

	switch sortField := query.SortField(c.DefaultQuery("sort", string(query.SortVolume))); sortField {
	case query.SortVolume, query.SortMarketCap, query.SortPriceChange, query.SortLiquidity, query.SortCreatedAt:
		params.Sort = sortField
	default:
		return params, &domain.ValidationError{Field: "sort", Message: "unsupported sort field: " + string(sortField)}
	}

	switch dir := query.Direction(c.DefaultQuery("direction", string(query.DirectionDesc))); dir {
	case query.DirectionAsc, query.DirectionDesc:
		params.Direction = dir
	default:
		return params, &domain.ValidationError{Field: "direction", Message: "unsupported direction: " + string(dir)}
	}

	params.Cursor = c.Query("cursor")
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil {
			params.Limit = n
		}
	}

	return params, nil
}

func parseFloatParam(c *gin.Context, name string) float64 {
	v := c.Query(name)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
