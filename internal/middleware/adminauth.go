package middleware

import (
	"crypto/subtle"

	"github.com/asl-dict/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// AdminHeaderName carries the shared admin secret.
const AdminHeaderName = "X-Admin-Password"

// AdminAuth guards administrative endpoints with a shared secret header.
// When no secret is configured the endpoints are unreachable (503) rather
// than silently open.
func AdminAuth(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if password == "" {
			response.ServiceUnavailable(c, "admin access not configured")
			return
		}

		supplied := c.GetHeader(AdminHeaderName)
		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) != 1 {
			response.Unauthorized(c, "invalid admin password")
			return
		}

		c.Next()
	}
}
