package analytics

import (
	"strings"

	"github.com/asl-dict/core/internal/models"
	"github.com/gin-gonic/gin"
)

// Middleware records each successful, non-bot public GET request as a
// page-view event on a detached goroutine.
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // handle request first to get status code

		if c.Request.Method != "GET" {
			return
		}
		path := strings.TrimSpace(c.Request.URL.Path)
		if path != "/api" && !strings.HasPrefix(path, "/api/") {
			return
		}
		// Admin traffic is not user activity.
		if strings.HasPrefix(path, "/api/admin") {
			return
		}
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if isBotUA(c.GetHeader("User-Agent")) {
			return
		}

		ip := strings.TrimSpace(c.ClientIP())
		if ip == "" {
			return
		}

		svc.RecordAsync(Event{
			EventType: models.EventTypePageView,
			IP:        ip,
			UserAgent: c.GetHeader("User-Agent"),
			Endpoint:  path,
		})
	}
}

// isBotUA returns true if the User-Agent string indicates a bot/crawler.
func isBotUA(ua string) bool {
	lower := strings.ToLower(ua)
	botKeywords := []string{"bot", "crawler", "spider", "headless", "wget", "curl", "python-requests", "go-http", "java/", "scrapy"}
	for _, kw := range botKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
