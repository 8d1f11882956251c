package models

import "encoding/json"

// NoteItem is the full {notes, categories} payload returned after every
// mutation. Notes are oldest-first on the wire.
type NoteItem struct {
	Notes      []Note     `json:"notes"`
	Categories []Category `json:"categories"`
}

// NoteItemResponse wraps NoteItem the way every note endpoint answers.
// NoteItem is nil for a user who has never saved anything.
type NoteItemResponse struct {
	NoteItem *NoteItem `json:"noteItem"`
}

func (r *NoteItemResponse) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

func (r *NoteItemResponse) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}
