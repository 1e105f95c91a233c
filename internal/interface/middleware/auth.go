package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/pkg/helpers"
	"inkwell/pkg/response"
)

// CtxUserIDKey is the gin context key holding the authenticated account id.
const CtxUserIDKey = "userID"

// Auth extracts the bearer token from the Authorization header, verifies it,
// and injects the account id into the context. Missing, malformed, forged and
// expired credentials all abort with the same unauthorized reply; no handler
// downstream runs.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		uid, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
