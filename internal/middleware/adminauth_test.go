package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminTestRouter(password string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", AdminAuth(password), func(c *gin.Context) {
		c.JSON(200, gin.H{"pong": true})
	})
	return r
}

func TestAdminAuthUnconfigured(t *testing.T) {
	r := adminTestRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(AdminHeaderName, "anything")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminAuthWrongPassword(t *testing.T) {
	r := adminTestRouter("s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(AdminHeaderName, "wrong")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthMissingHeader(t *testing.T) {
	r := adminTestRouter("s3cret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthSuccess(t *testing.T) {
	r := adminTestRouter("s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set(AdminHeaderName, "s3cret")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
