package middleware

import (
	"net/http"
	"time"

	"jotfox-notes/jotfox/services"
	"jotfox-notes/jotfox/utils/token"

	"github.com/gin-gonic/gin"
)

// SessionTokenMiddleware passes the caller's token through to the UI bridge
// without validating it. The bridge has no signing secret; the API checks
// the token on every request the session makes.
func SessionTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if token.IsExpired(tokenString, time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(services.SessionTokenKey, tokenString)
		c.Next()
	}
}
