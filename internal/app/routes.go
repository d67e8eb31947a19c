package app

import (
	"errors"

	"github.com/asl-dict/core/internal/middleware"
	"github.com/asl-dict/core/internal/modules/analytics"
	"github.com/asl-dict/core/internal/modules/feedback"
	"github.com/asl-dict/core/internal/modules/health"
	"github.com/asl-dict/core/internal/modules/translate"
	pkgcron "github.com/asl-dict/core/internal/pkg/cron"
	"github.com/asl-dict/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(analyticsSvc *analytics.Service) {
	analyticsHandler := analytics.NewHandler(analyticsSvc)

	cache := translate.NewCache(a.rc, a.cacheTTL(), a.logger)
	translateSvc := translate.NewService(a.cfg, cache, analyticsSvc, a.logger)
	translateHandler := translate.NewHandler(translateSvc, analyticsSvc, a.logger)

	feedbackSvc := feedback.NewService(a.db)
	feedbackHandler := feedback.NewHandler(feedbackSvc, a.logger)

	health.RegisterRoutes(a.router, a.cfg)

	api := a.router.Group("/api")
	api.Use(middleware.RateLimit(a.rawRedis(), a.cfg.RateLimitPerMinute))
	api.Use(analytics.Middleware(analyticsSvc))

	translateHandler.RegisterRoutes(api)
	feedbackHandler.RegisterRoutes(api)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(a.cfg.AdminPassword))
	translateHandler.RegisterAdminRoutes(admin)
	feedbackHandler.RegisterAdminRoutes(admin)
	analyticsHandler.RegisterAdminRoutes(admin)

	admin.GET("/cron", func(c *gin.Context) {
		response.OK(c, gin.H{"jobs": a.sched.List()})
	})
	admin.POST("/cron/run/:name", func(c *gin.Context) {
		err := a.sched.Run(c.Request.Context(), c.Param("name"))
		switch {
		case errors.Is(err, pkgcron.ErrJobNotFound):
			response.NotFoundMsg(c, err.Error())
		case err != nil:
			response.InternalError(c, err.Error())
		default:
			response.OK(c, gin.H{"message": "job completed"})
		}
	})

	a.router.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	a.router.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })
}
