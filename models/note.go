package models

import (
	"encoding/json"
	"time"
)

const (
	NoteTitleCharLimit       = 100
	NoteDescriptionCharLimit = 5000
)

// CategoryRef is how a note points at a category: by id, name and color.
// An empty name means the note is uncategorized.
type CategoryRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Note struct {
	ID          int         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string      `gorm:"type:varchar(36);not null;index" json:"-"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description"`
	CategoryID  int         `gorm:"not null;default:0" json:"-"`
	Category    CategoryRef `gorm:"-" json:"category"`
	Tags        []string    `gorm:"serializer:json;type:text" json:"tags"`
	Position    int         `gorm:"not null;default:0" json:"-"`
	// DisplayIndex is the note's slot in the client's newest-first sequence.
	DisplayIndex int       `gorm:"-" json:"displayIndex"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (n *Note) FromJSON(data []byte) error {
	return json.Unmarshal(data, n)
}

func (n *Note) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// Clone returns a copy that shares no slices with n.
func (n Note) Clone() Note {
	if n.Tags != nil {
		n.Tags = append([]string(nil), n.Tags...)
	}
	return n
}

// NoteDraft is the user's candidate values for a note being created or edited.
type NoteDraft struct {
	Title       string      `json:"title" validate:"max=100"`
	Description string      `json:"description" validate:"max=5000"`
	Category    CategoryRef `json:"category"`
	Tags        []string    `json:"tags"`
}

// CreateNoteRequest is the body of POST note.
type CreateNoteRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    CategoryRef `json:"category"`
	Tags        []string    `json:"tags"`
}

// UpdateNoteRequest is the body of PUT note.
type UpdateNoteRequest struct {
	NoteID      int         `json:"noteID" binding:"required"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    CategoryRef `json:"category"`
	Tags        []string    `json:"tags"`
}

// DeleteNoteRequest is the body of DELETE note.
type DeleteNoteRequest struct {
	NoteID int `json:"noteID" binding:"required"`
}

// ReorderNotesRequest carries note ids in display (newest-first) order.
type ReorderNotesRequest struct {
	NoteIDs []int `json:"noteIDs"`
}
