package routes

import (
	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/middleware"
	"jotfox-notes/jotfox/services"

	"github.com/gin-gonic/gin"
)

// NewAPIRouter builds the REST API served under /api.
func NewAPIRouter(db *database.Database, allowedOrigins string, authService services.AuthServiceInterface, noteItemService services.NoteItemServiceInterface) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(allowedOrigins),
	)
	RegisterMetricsRoutes(router)

	api := router.Group("/api")
	RegisterAuthRoutes(api, db, authService)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	RegisterTokenRoutes(protected)
	RegisterNoteRoutes(protected, db, noteItemService)
	RegisterCategoryRoutes(protected, db, noteItemService)

	return router
}

// NewUIRouter builds the server behind `jotfox ui`.
func NewUIRouter(allowedOrigins string, wsService services.WebSocketServiceInterface) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(allowedOrigins),
	)
	RegisterMetricsRoutes(router)
	RegisterWebSocketRoutes(router, wsService)
	return router
}
