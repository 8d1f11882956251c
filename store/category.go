package store

import (
	"slices"
	"strings"

	"jotfox-notes/jotfox/models"
)

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetOrCreateCategoryID returns the id of the category whose name matches
// name case-insensitively, or a fresh id when none does. A blank name is the
// uncategorized id.
func GetOrCreateCategoryID(categories []models.Category, name string) int {
	key := categoryKey(name)
	if key == "" {
		return models.UncategorizedID
	}
	for _, category := range categories {
		if categoryKey(category.Name) == key {
			return category.ID
		}
	}
	return CreateCategoryID(categories)
}

// CreateCategoryID allocates one more than the highest id in use. Id 0 is
// reserved, so the first real category always gets 1. Ids are only unique
// within this registry; the server may remap them on save.
func CreateCategoryID(categories []models.Category) int {
	highest := models.UncategorizedID
	for _, category := range categories {
		if category.ID > highest {
			highest = category.ID
		}
	}
	return highest + 1
}

// DoCategoryNamesCollide reports whether two named categories share a name
// under case-insensitive comparison. Ids play no part.
func DoCategoryNamesCollide(categories []models.Category) bool {
	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		key := categoryKey(category.Name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

// DoesCategoryExist reports whether a real category named name exists.
func DoesCategoryExist(name string, categories []models.Category) bool {
	key := categoryKey(name)
	if key == "" {
		return false
	}
	return slices.ContainsFunc(categories, func(category models.Category) bool {
		return categoryKey(category.Name) == key
	})
}

// ManagedCategories drops the uncategorized entry, which is never shown in
// category management.
func ManagedCategories(categories []models.Category) []models.Category {
	out := make([]models.Category, 0, len(categories))
	for _, category := range categories {
		if category.ID == models.UncategorizedID {
			continue
		}
		out = append(out, category)
	}
	return out
}

func validateRegistry(categories []models.Category) error {
	for _, category := range categories {
		if category.ID != models.UncategorizedID && strings.TrimSpace(category.Name) == "" {
			return ErrEmptyCategoryName
		}
	}
	if DoCategoryNamesCollide(categories) {
		return ErrCategoryNamesCollide
	}
	return nil
}

// CategoryDraft is a working copy of the registry edited in the category
// manager before it is saved as a whole.
type CategoryDraft struct {
	original []models.Category
	working  []models.Category
}

func NewCategoryDraft(categories []models.Category) *CategoryDraft {
	return &CategoryDraft{
		original: slices.Clone(categories),
		working:  slices.Clone(categories),
	}
}

// Create prepends a new category unless one with that name already exists.
// Its id is above every id in the saved registry as well as the working copy,
// so an id deleted in this draft is not handed to a different category.
func (d *CategoryDraft) Create(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || DoesCategoryExist(name, d.working) {
		return false
	}
	category := models.Category{
		ID:        CreateCategoryID(slices.Concat(d.original, d.working)),
		Name:      name,
		Color:     models.NoColor,
		NoteCount: 0,
	}
	d.working = append([]models.Category{category}, d.working...)
	return true
}

func (d *CategoryDraft) Rename(id int, name string) {
	d.update(id, func(category *models.Category) { category.Name = name })
}

func (d *CategoryDraft) Recolor(id int, color string) {
	if color == "" {
		color = models.NoColor
	}
	d.update(id, func(category *models.Category) { category.Color = color })
}

func (d *CategoryDraft) update(id int, apply func(*models.Category)) {
	if id == models.UncategorizedID {
		return
	}
	for i := range d.working {
		if d.working[i].ID == id {
			apply(&d.working[i])
		}
	}
}

func (d *CategoryDraft) Delete(id int) {
	if id == models.UncategorizedID {
		return
	}
	d.working = slices.DeleteFunc(d.working, func(category models.Category) bool {
		return category.ID == id
	})
}

// Filter lists the managed categories whose name contains term.
func (d *CategoryDraft) Filter(term string) []models.Category {
	key := categoryKey(term)
	out := make([]models.Category, 0, len(d.working))
	for _, category := range ManagedCategories(d.working) {
		if key == "" || strings.Contains(strings.ToLower(category.Name), key) {
			out = append(out, category)
		}
	}
	return out
}

func (d *CategoryDraft) Changed() bool {
	return !slices.Equal(d.original, d.working)
}

func (d *CategoryDraft) Collides() bool {
	return DoCategoryNamesCollide(d.working)
}

func (d *CategoryDraft) Reset() {
	d.working = slices.Clone(d.original)
}

func (d *CategoryDraft) Categories() []models.Category {
	return slices.Clone(d.working)
}
