package store_test

import (
	"slices"
	"testing"

	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/store"

	"github.com/stretchr/testify/assert"
)

func titles(s *store.NoteStore, term string) []string {
	var out []string
	for note := range s.Filter(term) {
		out = append(out, note.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	// oldest-first on the wire, so "Buy milk" ends up on top
	s := seededStore(nil, nil,
		models.Note{ID: 1, Title: "Call dentist", Tags: []string{"health"}},
		models.Note{ID: 2, Title: "Buy milk", Category: models.CategoryRef{ID: 1, Name: "Errands"}},
	)

	assert.Equal(t, []string{"Buy milk"}, titles(s, "milk"))
	assert.Equal(t, []string{"Buy milk", "Call dentist"}, titles(s, ""))
	assert.Equal(t, []string{"Buy milk", "Call dentist"}, titles(s, "   "))
	assert.Equal(t, []string{"Buy milk"}, titles(s, "ERRAND"))
	assert.Equal(t, []string{"Call dentist"}, titles(s, "Health"))
	assert.Empty(t, titles(s, "heal"), "tags match whole words only")
	assert.Empty(t, titles(s, "milk "), "spaces are part of the term")
	assert.Equal(t, []string{"Buy milk"}, titles(s, "buy "))
}

func TestFilter_IsRestartableAndReadOnly(t *testing.T) {
	s := seededStore(nil, nil, numberedNotes(3)...)
	before := s.Snapshot()
	seq := s.Filter("note")

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, before, s.Snapshot())

	for range seq {
		break
	}
}

func TestMatchesSearch(t *testing.T) {
	note := models.Note{Title: "Plan", Description: "Quarterly REVIEW", Tags: []string{"Work"}}

	assert.True(t, store.MatchesSearch(note, "review"))
	assert.True(t, store.MatchesSearch(note, "work"))
	assert.False(t, store.MatchesSearch(note, "wor"))
	assert.True(t, store.MatchesSearch(note, ""))
}
