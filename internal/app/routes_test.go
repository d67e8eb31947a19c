package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asl-dict/core/internal/config"
	"github.com/asl-dict/core/internal/database"
	"github.com/asl-dict/core/internal/middleware"
	"github.com/asl-dict/core/internal/modules/analytics"
	pkgcron "github.com/asl-dict/core/internal/pkg/cron"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	a := &App{
		cfg: &config.AppConfig{
			AppName:       "test",
			Env:           "test",
			CacheTTL:      60,
			AdminPassword: "s3cret",
			LLM:           config.LLMConfig{TimeoutSec: 5},
		},
		router: gin.New(),
		db:     db,
		logger: zap.NewNop(),
		sched:  pkgcron.New(),
	}

	analyticsSvc := analytics.NewService(db, a.logger)
	a.registerRoutes(analyticsSvc)
	registerCronJobs(a.sched, analyticsSvc, a.logger)
	return a
}

func adminReq(a *App, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(middleware.AdminHeaderName, "s3cret")
	a.router.ServeHTTP(w, req)
	return w
}

func TestAdminCronList(t *testing.T) {
	a := newTestApp(t)

	w := adminReq(a, http.MethodGet, "/api/admin/cron")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cleanup_analytics")
}

func TestAdminCronRun(t *testing.T) {
	a := newTestApp(t)

	w := adminReq(a, http.MethodPost, "/api/admin/cron/run/cleanup_analytics")
	require.Equal(t, http.StatusOK, w.Code)

	w = adminReq(a, http.MethodPost, "/api/admin/cron/run/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireSecret(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/cron", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
