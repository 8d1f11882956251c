package store_test

import (
	"testing"

	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDoCategoryNamesCollide(t *testing.T) {
	tests := []struct {
		name       string
		categories []models.Category
		want       bool
	}{
		{"same name different case", []models.Category{{ID: 1, Name: "Work"}, {ID: 2, Name: "work"}}, true},
		{"distinct names", []models.Category{{ID: 1, Name: "Work"}, {ID: 2, Name: "Home"}}, false},
		{"padding is ignored", []models.Category{{ID: 1, Name: "Work "}, {ID: 2, Name: " WORK"}}, true},
		{"uncategorized entries never collide", []models.Category{models.Uncategorized(), {ID: 0, Name: ""}}, false},
		{"entries without ids", []models.Category{{Name: "Work"}, {Name: "work"}}, true},
		{"named entry against a saved one", []models.Category{{ID: 3, Name: "Work"}, {Name: "WORK"}}, true},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.DoCategoryNamesCollide(tt.categories))
		})
	}
}

func TestCreateCategoryID(t *testing.T) {
	assert.Equal(t, 1, store.CreateCategoryID(nil))
	assert.Equal(t, 1, store.CreateCategoryID([]models.Category{models.Uncategorized()}))
	assert.Equal(t, 8, store.CreateCategoryID([]models.Category{{ID: 7, Name: "a"}, {ID: 3, Name: "b"}}))
}

func TestGetOrCreateCategoryID(t *testing.T) {
	categories := []models.Category{models.Uncategorized(), {ID: 4, Name: "Errands"}}

	assert.Equal(t, 4, store.GetOrCreateCategoryID(categories, "ERRANDS"))
	assert.Equal(t, 5, store.GetOrCreateCategoryID(categories, "Work"))
	assert.Equal(t, models.UncategorizedID, store.GetOrCreateCategoryID(categories, "  "))
}

func TestGetOrCreateCategoryID_MatchesEntriesWithoutIDs(t *testing.T) {
	categories := []models.Category{{Name: "Work"}, {ID: 2, Name: "Home"}}

	assert.Equal(t, 0, store.GetOrCreateCategoryID(categories, "work"))
	assert.True(t, store.DoesCategoryExist("WORK", categories))
	assert.Equal(t, 3, store.GetOrCreateCategoryID(categories, "Garden"))
}

func TestGetOrCreateCategoryID_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfDistinct(rapid.StringMatching(`[a-z]{1,6}`), func(s string) string { return s }).Draw(t, "names")
		categories := []models.Category{models.Uncategorized()}
		for i, name := range names {
			categories = append(categories, models.Category{ID: i + 1, Name: name})
		}
		name := rapid.StringMatching(`[a-zA-Z]{1,6}`).Draw(t, "name")

		first := store.GetOrCreateCategoryID(categories, name)
		second := store.GetOrCreateCategoryID(categories, name)
		if first != second {
			t.Fatalf("not idempotent: %d then %d", first, second)
		}
		for _, category := range categories {
			if category.ID == first && !store.DoesCategoryExist(name, []models.Category{category}) {
				t.Fatalf("id %d already belongs to %q", first, category.Name)
			}
		}
	})
}

func TestDoesCategoryExist(t *testing.T) {
	categories := []models.Category{models.Uncategorized(), {ID: 1, Name: "Work"}}

	assert.True(t, store.DoesCategoryExist("work", categories))
	assert.False(t, store.DoesCategoryExist("home", categories))
	assert.False(t, store.DoesCategoryExist("", categories))
}

func TestCategoryDraft(t *testing.T) {
	registry := []models.Category{models.Uncategorized(), {ID: 1, Name: "Work", Color: "red"}}
	draft := store.NewCategoryDraft(registry)

	assert.False(t, draft.Changed())
	assert.False(t, draft.Create("work"), "duplicate name")
	assert.False(t, draft.Create("  "), "blank name")
	assert.True(t, draft.Create(" Home "))

	categories := draft.Categories()
	assert.Equal(t, models.Category{ID: 2, Name: "Home", Color: "none"}, categories[0])
	assert.True(t, draft.Changed())

	draft.Rename(2, "work")
	assert.True(t, draft.Collides())
	draft.Rename(2, "House")
	draft.Recolor(2, "")
	draft.Recolor(1, "blue")
	assert.False(t, draft.Collides())

	draft.Rename(models.UncategorizedID, "nope")
	draft.Delete(models.UncategorizedID)
	assert.Len(t, draft.Categories(), 3)

	assert.Equal(t, []models.Category{{ID: 2, Name: "House", Color: "none"}}, draft.Filter("hou"))
	assert.Len(t, draft.Filter(""), 2)

	draft.Delete(1)
	assert.Len(t, draft.Categories(), 2)

	draft.Reset()
	assert.Equal(t, registry, draft.Categories())
	assert.False(t, draft.Changed())
}

func TestCategoryDraft_DeletedIDIsNotReused(t *testing.T) {
	registry := []models.Category{models.Uncategorized(), {ID: 1, Name: "Work"}}
	draft := store.NewCategoryDraft(registry)

	draft.Delete(1)
	require.True(t, draft.Create("Home"))

	assert.Equal(t, []models.Category{
		{ID: 2, Name: "Home", Color: "none"},
		models.Uncategorized(),
	}, draft.Categories())
}

func TestManagedCategories(t *testing.T) {
	categories := []models.Category{{ID: 3, Name: "c"}, models.Uncategorized(), {ID: 1, Name: "a"}}
	got := store.ManagedCategories(categories)
	assert.Equal(t, []models.Category{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}}, got)
	assert.Len(t, categories, 3)
}
