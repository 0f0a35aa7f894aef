package handler

import (
	"context"

	"github.com/Anuragp22/axiom-sub000/internal/cache"
	"github.com/Anuragp22/axiom-sub000/internal/domain"
	"github.com/Anuragp22/axiom-sub000/internal/query"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// TokenService is the aggregation surface the HTTP layer serves from.
type TokenService interface {
	List(ctx context.Context, params query.Params) (query.Page, error)
	Search(ctx context.Context, q string, params query.Params) (query.Page, error)
	Trending(ctx context.Context, limit int) ([]domain.Token, error)
	ByAddress(ctx context.Context, address string) (domain.Token, bool, error)
	ClearCache(ctx context.Context, key string)
	CacheStats(ctx context.Context) cache.Stats
}

// StreamHandler upgrades push-channel subscriptions.
type StreamHandler interface {
	Serve(c *gin.Context)
}

type Handler struct {
	tracer   trace.Tracer
	tokens   TokenService
	stream   StreamHandler
	adminKey string
}

func New(tracer trace.Tracer, tokens TokenService, stream StreamHandler, adminKey string) *Handler {
	return &Handler{
		tracer:   tracer,
		tokens:   tokens,
		stream:   stream,
		adminKey: adminKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/tokens", h.ListTokens)
	r.GET("/api/tokens/search", h.SearchTokens)
	r.GET("/api/tokens/trending", h.TrendingTokens)
	r.GET("/api/tokens/:address", h.GetToken)
	r.GET("/api/cache/stats", h.CacheStats)
	r.POST("/api/cache/clear", APIKeyAuth(h.adminKey), h.ClearCache)
	if h.stream != nil {
		r.GET("/ws", h.stream.Serve)
	}
}
