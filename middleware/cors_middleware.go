package middleware

import (
	"strings"

	"jotfox-notes/jotfox/utils/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware lets the configured origins call the API and open the UI
// socket. origins is a comma separated list and may use wildcards.
func CORSMiddleware(origins string) gin.HandlerFunc {
	allowed := []string{}
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed = append(allowed, origin)
		}
	}

	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = allowed
	cfg.AllowWildcard = true
	cfg.AllowWebSockets = true
	cfg.AllowCredentials = true
	cfg.AddAllowHeaders("Accept", "Authorization", token.HeaderName, "X-Requested-With")
	cfg.AddExposeHeaders(token.HeaderName)
	return cors.New(cfg)
}
