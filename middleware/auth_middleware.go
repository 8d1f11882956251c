package middleware

import (
	"net/http"

	"jotfox-notes/jotfox/services"
	"jotfox-notes/jotfox/utils/token"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware accepts the token from the auth-token header, a Bearer
// authorization header or the token query parameter.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Store user info in the context for later use
		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}
