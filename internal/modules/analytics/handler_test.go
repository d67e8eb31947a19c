package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _ := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterAdminRoutes(r.Group("/api/admin"))
	return r, svc
}

func getJSON(t *testing.T, r *gin.Engine, path string) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOverviewReport(t *testing.T) {
	r, svc := newAdminRouter(t)
	seedTranslation(t, svc, "1.1.1.1", "hello", true)
	seedTranslation(t, svc, "2.2.2.2", "hello", false)

	body := getJSON(t, r, "/api/admin/analytics/overview")

	assert.EqualValues(t, 2, body["unique_users"])

	translations, ok := body["translations"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, translations["total"])
	assert.EqualValues(t, 50, translations["cache_hit_rate"])

	popular, ok := body["popular_searches"].([]interface{})
	require.True(t, ok)
	require.Len(t, popular, 1)

	daily, ok := body["daily_active_users"].([]interface{})
	require.True(t, ok)
	require.Len(t, daily, 1)

	hourly, ok := body["hourly_pattern"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, hourly, 24)

	assert.NotEmpty(t, body["generated_at"])
}

func TestUsersReport(t *testing.T) {
	r, svc := newAdminRouter(t)
	seedTranslation(t, svc, "1.1.1.1", "hello", false)

	body := getJSON(t, r, "/api/admin/analytics/users?days=3")
	assert.EqualValues(t, 3, body["days"])
	assert.EqualValues(t, 1, body["unique_users"])

	// Bad day counts fall back to the default window.
	body = getJSON(t, r, "/api/admin/analytics/users?days=-1")
	assert.EqualValues(t, 7, body["days"])
}

func TestSearchesReport(t *testing.T) {
	r, svc := newAdminRouter(t)
	for i := 0; i < 3; i++ {
		seedTranslation(t, svc, "1.1.1.1", "hello", false)
	}
	seedTranslation(t, svc, "1.1.1.1", "world", false)

	body := getJSON(t, r, "/api/admin/analytics/searches?limit=1")
	searches, ok := body["searches"].([]interface{})
	require.True(t, ok)
	require.Len(t, searches, 1)

	top, ok := searches[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "hello", top["query"])
	assert.EqualValues(t, 3, top["count"])
}
