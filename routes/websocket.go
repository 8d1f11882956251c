package routes

import (
	"jotfox-notes/jotfox/middleware"
	"jotfox-notes/jotfox/services"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes mounts the UI bridge. The session token is taken
// from the token query parameter or the usual auth headers.
func RegisterWebSocketRoutes(router *gin.Engine, wsService services.WebSocketServiceInterface) {
	wsGroup := router.Group("/ws")
	wsGroup.Use(middleware.SessionTokenMiddleware())
	{
		wsGroup.GET("", func(c *gin.Context) {
			wsService.HandleConnection(c)
		})
	}
}
