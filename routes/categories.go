package routes

import (
	"net/http"

	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/services"

	"github.com/gin-gonic/gin"
)

func RegisterCategoryRoutes(group *gin.RouterGroup, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	group.PUT("/categories", func(c *gin.Context) { UpdateCategories(c, db, noteItemService) })
}

// UpdateCategories replaces the caller's whole category registry.
func UpdateCategories(c *gin.Context, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	var req models.UpdateCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	item, err := noteItemService.UpdateCategories(db, userID, req.Categories)
	respondNoteItem(c, http.StatusOK, item, err)
}
