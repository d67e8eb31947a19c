package analytics

import (
	"strconv"
	"time"

	"github.com/asl-dict/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterAdminRoutes mounts the analytics reports under the admin group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/analytics")
	g.GET("/overview", h.overview)
	g.GET("/users", h.users)
	g.GET("/searches", h.searches)
}

// overview is the combined dashboard report over a fixed 7-day window.
func (h *Handler) overview(c *gin.Context) {
	unique, err := h.svc.UniqueUsers(nil, nil)
	if err != nil {
		response.InternalError(c, "failed to compute analytics overview")
		return
	}
	translations, err := h.svc.TranslationsCount()
	if err != nil {
		response.InternalError(c, "failed to compute analytics overview")
		return
	}
	popular, err := h.svc.PopularSearches(10)
	if err != nil {
		response.InternalError(c, "failed to compute analytics overview")
		return
	}
	daily, err := h.svc.DailyActiveUsers(7)
	if err != nil {
		response.InternalError(c, "failed to compute analytics overview")
		return
	}
	hourly, err := h.svc.HourlyUsage(7)
	if err != nil {
		response.InternalError(c, "failed to compute analytics overview")
		return
	}

	c.JSON(200, gin.H{
		"unique_users":       unique,
		"translations":       translations,
		"popular_searches":   popular,
		"daily_active_users": daily,
		"hourly_pattern":     hourly,
		"generated_at":       time.Now().UTC(),
	})
}

func (h *Handler) users(c *gin.Context) {
	days := queryInt(c, "days", 7)

	daily, err := h.svc.DailyActiveUsers(days)
	if err != nil {
		response.InternalError(c, "failed to compute user activity")
		return
	}
	hourly, err := h.svc.HourlyUsage(days)
	if err != nil {
		response.InternalError(c, "failed to compute user activity")
		return
	}

	var start *time.Time
	since := time.Now().UTC().AddDate(0, 0, -days)
	start = &since
	unique, err := h.svc.UniqueUsers(start, nil)
	if err != nil {
		response.InternalError(c, "failed to compute user activity")
		return
	}

	c.JSON(200, gin.H{
		"days":           days,
		"unique_users":   unique,
		"daily_active":   daily,
		"hourly_pattern": hourly,
	})
}

func (h *Handler) searches(c *gin.Context) {
	limit := queryInt(c, "limit", 20)
	if limit > 100 {
		limit = 100
	}

	popular, err := h.svc.PopularSearches(limit)
	if err != nil {
		response.InternalError(c, "failed to compute popular searches")
		return
	}
	c.JSON(200, gin.H{"searches": popular})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
