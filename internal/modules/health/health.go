package health

import (
	"github.com/asl-dict/core/internal/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the liveness probe.
func RegisterRoutes(r *gin.Engine, cfg *config.AppConfig) {
	r.GET("/health", func(c *gin.Context) {
		env := "development"
		if !cfg.IsDev() {
			env = "production"
		}
		c.JSON(200, gin.H{
			"status":      "healthy",
			"environment": env,
			"app_name":    cfg.AppName,
		})
	})
}
