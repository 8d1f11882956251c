package models

const (
	UncategorizedID = 0
	NoColor         = "none"
)

// Category is one entry of a user's category registry. NoteCount is derived
// by the server and never sent back as authoritative.
type Category struct {
	ID        int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    string `gorm:"primaryKey;type:varchar(36)" json:"-"`
	Name      string `gorm:"not null" json:"name"`
	Color     string `gorm:"not null;default:'none'" json:"color"`
	NoteCount int    `gorm:"-" json:"note_count"`
}

// Uncategorized is the sentinel registry entry with id 0 and an empty name.
func Uncategorized() Category {
	return Category{ID: UncategorizedID, Name: "", Color: NoColor}
}

// IsUncategorized reports whether c is the sentinel entry. A named entry
// with id 0 is a real category that has not been assigned an id yet.
func (c Category) IsUncategorized() bool {
	return c.ID == UncategorizedID && c.Name == ""
}

// Ref returns the reference a note uses to point at c.
func (c Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Color: c.Color}
}

// UpdateCategoriesRequest is the body of PUT categories.
type UpdateCategoriesRequest struct {
	Categories []Category `json:"categories"`
}
