package services

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"jotfox-notes/jotfox/broker"
	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/store"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// NoteItemServiceInterface answers every note and category call with the
// user's whole NoteItem, notes oldest-first.
type NoteItemServiceInterface interface {
	GetNoteItem(db *database.Database, userID string) (*models.NoteItem, error)
	CreateNote(db *database.Database, userID string, req models.CreateNoteRequest) (*models.NoteItem, error)
	UpdateNote(db *database.Database, userID string, req models.UpdateNoteRequest) (*models.NoteItem, error)
	DeleteNote(db *database.Database, userID string, noteID int) (*models.NoteItem, error)
	UpdateCategories(db *database.Database, userID string, categories []models.Category) (*models.NoteItem, error)
	ReorderNotes(db *database.Database, userID string, noteIDs []int) (*models.NoteItem, error)
}

type NoteItemService struct{}

// GetNoteItem returns nil for a user who has never saved a note or category.
func (s *NoteItemService) GetNoteItem(db *database.Database, userID string) (*models.NoteItem, error) {
	return loadNoteItem(db.DB, userID)
}

func (s *NoteItemService) CreateNote(db *database.Database, userID string, req models.CreateNoteRequest) (*models.NoteItem, error) {
	title, description, err := validateNoteFields(req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	categoryID, err := resolveCategory(tx, userID, req.Category)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	var lastPosition int
	if err := tx.Model(&models.Note{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&lastPosition).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	note := models.Note{
		UserID:      userID,
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
		Tags:        cleanTags(req.Tags),
		Position:    lastPosition + 1,
	}
	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createEvent(tx, broker.NoteCreated, "note", "create", userID, map[string]interface{}{
		"note_id":     note.ID,
		"title":       note.Title,
		"category_id": note.CategoryID,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return loadNoteItem(db.DB, userID)
}

func (s *NoteItemService) UpdateNote(db *database.Database, userID string, req models.UpdateNoteRequest) (*models.NoteItem, error) {
	title, description, err := validateNoteFields(req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var note models.Note
	if err := tx.Where("id = ? AND user_id = ?", req.NoteID, userID).First(&note).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	categoryID, err := resolveCategory(tx, userID, req.Category)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	note.Title = title
	note.Description = description
	note.CategoryID = categoryID
	note.Tags = cleanTags(req.Tags)
	if err := tx.Save(&note).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createEvent(tx, broker.NoteUpdated, "note", "update", userID, map[string]interface{}{
		"note_id":     note.ID,
		"title":       note.Title,
		"category_id": note.CategoryID,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return loadNoteItem(db.DB, userID)
}

func (s *NoteItemService) DeleteNote(db *database.Database, userID string, noteID int) (*models.NoteItem, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	result := tx.Where("id = ? AND user_id = ?", noteID, userID).Delete(&models.Note{})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrNoteNotFound
	}

	if err := createEvent(tx, broker.NoteDeleted, "note", "delete", userID, map[string]interface{}{
		"note_id": noteID,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return loadNoteItem(db.DB, userID)
}

// UpdateCategories replaces the user's registry. Notes whose category is no
// longer present fall back to uncategorized. Ids that are missing or repeated
// are reassigned.
func (s *NoteItemService) UpdateCategories(db *database.Database, userID string, categories []models.Category) (*models.NoteItem, error) {
	for _, category := range categories {
		if category.ID != models.UncategorizedID && strings.TrimSpace(category.Name) == "" {
			return nil, ErrCategoryNameRequired
		}
	}
	if store.DoCategoryNamesCollide(categories) {
		return nil, ErrCategoryNamesCollide
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var existing []models.Category
	if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	registry := make([]models.Category, 0, len(categories))
	for _, category := range categories {
		if category.ID == models.UncategorizedID && strings.TrimSpace(category.Name) == "" {
			continue
		}
		id := category.ID
		if id <= 0 || slices.ContainsFunc(registry, func(c models.Category) bool { return c.ID == id }) {
			// never reuse an id a note may still point at
			id = store.CreateCategoryID(slices.Concat(existing, registry, categories))
		}
		color := category.Color
		if color == "" {
			color = models.NoColor
		}
		registry = append(registry, models.Category{
			ID:     id,
			UserID: userID,
			Name:   strings.TrimSpace(category.Name),
			Color:  color,
		})
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.Category{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(registry) > 0 {
		if err := tx.Create(&registry).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	orphans := tx.Model(&models.Note{}).Where("user_id = ? AND category_id <> ?", userID, models.UncategorizedID)
	if len(registry) > 0 {
		kept := make([]int, len(registry))
		for i, category := range registry {
			kept[i] = category.ID
		}
		orphans = orphans.Where("category_id NOT IN ?", kept)
	}
	if err := orphans.UpdateColumn("category_id", models.UncategorizedID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createEvent(tx, broker.CategoriesUpdated, "category", "update", userID, map[string]interface{}{
		"count": len(registry),
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return loadNoteItem(db.DB, userID)
}

// ReorderNotes stores a new display order. noteIDs is newest-first and must
// name every note of the user exactly once.
func (s *NoteItemService) ReorderNotes(db *database.Database, userID string, noteIDs []int) (*models.NoteItem, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var existing []int
	if err := tx.Model(&models.Note{}).Where("user_id = ?", userID).Pluck("id", &existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	requested := slices.Clone(noteIDs)
	slices.Sort(requested)
	slices.Sort(existing)
	if !slices.Equal(requested, existing) {
		tx.Rollback()
		return nil, fmt.Errorf("%w: order must list every note once", ErrInvalidInput)
	}

	for i, id := range noteIDs {
		position := len(noteIDs) - 1 - i
		if err := tx.Model(&models.Note{}).
			Where("id = ? AND user_id = ?", id, userID).
			UpdateColumn("position", position).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := createEvent(tx, broker.NotesReordered, "note", "reorder", userID, map[string]interface{}{
		"note_ids": noteIDs,
	}); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	return loadNoteItem(db.DB, userID)
}

func validateNoteFields(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title == "":
		return "", "", ErrTitleRequired
	case utf8.RuneCountInString(title) > models.NoteTitleCharLimit:
		return "", "", ErrTitleTooLong
	case utf8.RuneCountInString(description) > models.NoteDescriptionCharLimit:
		return "", "", ErrDescriptionTooLong
	}
	return title, description, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// resolveCategory finds the user's category named by ref, ignoring case, or
// creates it. A blank name is uncategorized.
func resolveCategory(tx *gorm.DB, userID string, ref models.CategoryRef) (int, error) {
	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return models.UncategorizedID, nil
	}
	color := ref.Color
	if color == "" {
		color = models.NoColor
	}

	var categories []models.Category
	if err := tx.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return 0, err
	}

	for _, category := range categories {
		if !strings.EqualFold(strings.TrimSpace(category.Name), name) {
			continue
		}
		if category.Color != color {
			if err := tx.Model(&models.Category{}).
				Where("id = ? AND user_id = ?", category.ID, userID).
				UpdateColumn("color", color).Error; err != nil {
				return 0, err
			}
		}
		return category.ID, nil
	}

	id := ref.ID
	if id <= 0 || slices.ContainsFunc(categories, func(c models.Category) bool { return c.ID == id }) {
		id = store.CreateCategoryID(categories)
	}
	category := models.Category{ID: id, UserID: userID, Name: name, Color: color}
	if err := tx.Create(&category).Error; err != nil {
		return 0, err
	}
	log.Debug().Str("user_id", userID).Int("category_id", id).Msg("created category")
	return id, nil
}

func loadNoteItem(db *gorm.DB, userID string) (*models.NoteItem, error) {
	var categories []models.Category
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	var notes []models.Note
	if err := db.Where("user_id = ?", userID).Order("position asc, id asc").Find(&notes).Error; err != nil {
		return nil, err
	}
	if len(notes) == 0 && len(categories) == 0 {
		return nil, nil
	}

	byID := make(map[int]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	uncategorized := models.Uncategorized()
	for i := range notes {
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
		if category, ok := byID[notes[i].CategoryID]; ok {
			category.NoteCount++
			notes[i].Category = category.Ref()
			continue
		}
		uncategorized.NoteCount++
		notes[i].Category = models.Uncategorized().Ref()
	}

	return &models.NoteItem{
		Notes:      notes,
		Categories: append([]models.Category{uncategorized}, categories...),
	}, nil
}

func createEvent(tx *gorm.DB, eventType broker.EventType, entity, operation, actorID string, data map[string]interface{}) error {
	event, err := models.NewEvent(string(eventType), entity, operation, actorID, data)
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

var NoteItemServiceInstance NoteItemServiceInterface = &NoteItemService{}
