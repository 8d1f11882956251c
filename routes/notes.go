package routes

import (
	"errors"
	"net/http"

	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/services"

	"github.com/gin-gonic/gin"
)

// RegisterNoteRoutes mounts the note endpoints. Every one of them answers
// with the caller's full note item.
func RegisterNoteRoutes(group *gin.RouterGroup, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	group.GET("/note", func(c *gin.Context) { GetNotes(c, db, noteItemService) })
	group.POST("/note", func(c *gin.Context) { CreateNote(c, db, noteItemService) })
	group.PUT("/note", func(c *gin.Context) { UpdateNote(c, db, noteItemService) })
	group.DELETE("/note", func(c *gin.Context) { DeleteNote(c, db, noteItemService) })
	group.PUT("/note/order", func(c *gin.Context) { ReorderNotes(c, db, noteItemService) })
}

func GetNotes(c *gin.Context, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	item, err := noteItemService.GetNoteItem(db, userID)
	respondNoteItem(c, http.StatusOK, item, err)
}

func CreateNote(c *gin.Context, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	var req models.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	item, err := noteItemService.CreateNote(db, userID, req)
	respondNoteItem(c, http.StatusCreated, item, err)
}

func UpdateNote(c *gin.Context, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	var req models.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	item, err := noteItemService.UpdateNote(db, userID, req)
	respondNoteItem(c, http.StatusOK, item, err)
}

func DeleteNote(c *gin.Context, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	var req models.DeleteNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	item, err := noteItemService.DeleteNote(db, userID, req.NoteID)
	respondNoteItem(c, http.StatusOK, item, err)
}

func ReorderNotes(c *gin.Context, db *database.Database, noteItemService services.NoteItemServiceInterface) {
	var req models.ReorderNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	item, err := noteItemService.ReorderNotes(db, userID, req.NoteIDs)
	respondNoteItem(c, http.StatusOK, item, err)
}

func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return "", false
	}
	return userID, true
}

func respondNoteItem(c *gin.Context, status int, item *models.NoteItem, err error) {
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(status, models.NoteItemResponse{NoteItem: item})
}
