package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/asl-dict/core/internal/config"
	"github.com/asl-dict/core/internal/database"
	"github.com/asl-dict/core/internal/middleware"
	"github.com/asl-dict/core/internal/modules/analytics"
	pkgcron "github.com/asl-dict/core/internal/pkg/cron"
	pkgredis "github.com/asl-dict/core/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler
	rc     *pkgredis.Client
}

// New initializes the application: config → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis is optional: without it the result cache and rate limiter
	// degrade, but translation still works.
	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled", zap.Error(err))
		rc = nil
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(!cfg.IsDev()))
	router.Use(buildCORS(cfg))

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		logger: logger,
		cancel: cancel,
		sched:  pkgcron.New(),
		rc:     rc,
	}

	analyticsSvc := analytics.NewService(db, logger)
	app.registerRoutes(analyticsSvc)

	registerCronJobs(app.sched, analyticsSvc, logger)
	go app.sched.Start(ctx)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines and connections.
func (a *App) Shutdown() {
	a.cancel()
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
}

func (a *App) cacheTTL() time.Duration {
	return time.Duration(a.cfg.CacheTTL) * time.Second
}

// rawRedis exposes the underlying go-redis client, nil when Redis is
// unavailable.
func (a *App) rawRedis() *goredis.Client {
	if a.rc == nil {
		return nil
	}
	return a.rc.Raw()
}
