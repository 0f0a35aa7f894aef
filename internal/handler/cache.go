package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// CacheStats godoc
// @Summary      Cache statistics
// @Description  Returns hit/miss counters and live entry count for the snapshot cache
// @Tags         cache
// @Produce      json
// @Success      200  {object}  handler.Envelope
// @Router       /api/cache/stats [get]
func (h *Handler) CacheStats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.cache-stats")
	defer span.End()

	respondOK(c, h.tokens.CacheStats(ctx))
}

// ClearCache godoc
// @Summary      Clear the snapshot cache
// @Description  Invalidates one cache key, or every entry when key is omitted
// @Tags         cache
// @Produce      json
// @Param        key  query  string  false  "Cache key to invalidate"
// @Success      200  {object}  handler.Envelope
// @Router       /api/cache/clear [post]
func (h *Handler) ClearCache(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.clear-cache")
	defer span.End()

	key := c.Query("key")
	span.SetAttributes(attribute.String("key", key))

	h.tokens.ClearCache(ctx, key)
	respondOK(c, gin.H{"cleared": true, "key": key})
}
