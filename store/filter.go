package store

import (
	"iter"
	"strings"

	"jotfox-notes/jotfox/models"
)

// MatchesSearch reports whether note matches term. Title, description and
// category name match on a case-insensitive substring; tags must equal the
// term exactly, ignoring case. A blank term matches every note; otherwise the
// term is used as typed, surrounding spaces included.
func MatchesSearch(note models.Note, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(note.Title), term) ||
		strings.Contains(strings.ToLower(note.Description), term) ||
		strings.Contains(strings.ToLower(note.Category.Name), term) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.EqualFold(tag, term) {
			return true
		}
	}
	return false
}

// Filter yields the notes matching term in display order. Each iteration
// works on a copy taken when it starts, so the sequence can be ranged over
// again and never sees later mutations halfway through.
func (s *NoteStore) Filter(term string) iter.Seq[models.Note] {
	return func(yield func(models.Note) bool) {
		for _, note := range s.Notes() {
			if !MatchesSearch(note, term) {
				continue
			}
			if !yield(note) {
				return
			}
		}
	}
}
