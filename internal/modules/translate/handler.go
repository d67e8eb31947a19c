package translate

import (
	"errors"
	"fmt"
	"time"

	"github.com/asl-dict/core/internal/models"
	"github.com/asl-dict/core/internal/modules/analytics"
	"github.com/asl-dict/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CustomKeyHeader lets a caller supply their own provider API key; such
// requests never count against the shared daily quota.
const CustomKeyHeader = "X-Custom-API-Key"

type Handler struct {
	svc    *Service
	an     *analytics.Service
	logger *zap.Logger
}

func NewHandler(svc *Service, an *analytics.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, an: an, logger: logger}
}

// RegisterRoutes mounts the public translation endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/translate", h.translate)
	r.GET("/rate-limit", h.rateLimit)
}

// RegisterAdminRoutes mounts the cache management endpoints under the
// admin group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/cache/stats", h.cacheStats)
	admin.DELETE("/cache", h.clearCache)
}

func (h *Handler) translate(c *gin.Context) {
	var dto translateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.UnprocessableEntity(c, "text is required and must be 1-500 characters")
		return
	}

	started := time.Now()
	result, meta, err := h.svc.Translate(
		c.Request.Context(),
		dto.Text,
		c.GetHeader(CustomKeyHeader),
		c.ClientIP(),
	)

	if meta.Quota != nil {
		h.writeQuotaHeaders(c, *meta.Quota)
	}

	if err != nil {
		h.renderTranslateError(c, err)
		return
	}

	elapsed := time.Since(started).Milliseconds()
	hit := meta.CacheHit
	h.an.RecordAsync(analytics.Event{
		EventType:      models.EventTypeTranslation,
		IP:             c.ClientIP(),
		Query:          dto.Text,
		CacheHit:       &hit,
		UserAgent:      c.GetHeader("User-Agent"),
		Endpoint:       "/api/translate",
		ResponseTimeMS: &elapsed,
	})

	c.JSON(200, result)
}

func (h *Handler) renderTranslateError(c *gin.Context, err error) {
	var quotaErr *QuotaError
	switch {
	case errors.As(err, &quotaErr):
		response.TooManyRequests(c, "daily free limit reached, supply your own API key to continue", gin.H{
			"used":      quotaErr.Status.Used,
			"limit":     quotaErr.Status.Limit,
			"resets_at": quotaErr.Status.ResetsAt,
		})
	case errors.Is(err, ErrNoCredential):
		response.ServiceUnavailable(c, "translation service is not configured")
	case errors.Is(err, ErrLLMUnavailable):
		response.ServiceUnavailable(c, "translation provider temporarily unavailable, try again shortly")
	default:
		var wfErr *workflowError
		if errors.As(err, &wfErr) {
			h.logger.Error("translation workflow failed",
				zap.String("step", wfErr.Step),
				zap.Error(wfErr.Err))
		} else {
			h.logger.Error("translation failed", zap.Error(err))
		}
		response.InternalError(c, "translation failed")
	}
}

func (h *Handler) writeQuotaHeaders(c *gin.Context, status analytics.QuotaStatus) {
	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", status.Limit))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", status.Remaining))
	c.Header("X-RateLimit-Used", fmt.Sprintf("%d", status.Used))
}

// rateLimit reports the caller's shared-key quota standing.
func (h *Handler) rateLimit(c *gin.Context) {
	enabled, status, err := h.svc.QuotaInfo(c.ClientIP())
	if err != nil {
		response.InternalError(c, "failed to read quota status")
		return
	}
	if !enabled {
		c.JSON(200, gin.H{"shared_key_enabled": false})
		return
	}
	c.JSON(200, gin.H{
		"shared_key_enabled": true,
		"used":               status.Used,
		"limit":              status.Limit,
		"remaining":          status.Remaining,
		"resets_at":          status.ResetsAt.UTC(),
	})
}

func (h *Handler) cacheStats(c *gin.Context) {
	c.JSON(200, h.svc.CacheStats(c.Request.Context()))
}

// clearCache purges every cached translation, or just one when a query
// parameter is given.
func (h *Handler) clearCache(c *gin.Context) {
	if query := c.Query("query"); query != "" {
		h.svc.cache.Invalidate(c.Request.Context(), query)
		c.JSON(200, gin.H{"cleared": 1, "query": query})
		return
	}
	removed := h.svc.ClearCache(c.Request.Context())
	c.JSON(200, gin.H{"cleared": removed})
}
