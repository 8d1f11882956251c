package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteCloneSharesNoTags(t *testing.T) {
	note := Note{ID: 1, Title: "Buy milk", Tags: []string{"dairy"}}
	clone := note.Clone()
	clone.Tags[0] = "changed"
	assert.Equal(t, "dairy", note.Tags[0])

	assert.Nil(t, Note{}.Clone().Tags)
}

func TestNoteJSONHidesServerFields(t *testing.T) {
	note := Note{
		ID:         1,
		UserID:     "user-1",
		Title:      "Buy milk",
		CategoryID: 2,
		Category:   CategoryRef{ID: 2, Name: "Errands", Color: NoColor},
		Tags:       []string{},
		Position:   7,
	}
	data, err := note.ToJSON()
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "UserID")
	assert.NotContains(t, fields, "user_id")
	assert.NotContains(t, fields, "position")
	assert.Equal(t, map[string]interface{}{"id": float64(2), "name": "Errands", "color": "none"}, fields["category"])

	var back Note
	require.NoError(t, back.FromJSON(data))
	assert.Equal(t, note.Category, back.Category)
}

func TestUncategorized(t *testing.T) {
	u := Uncategorized()
	assert.True(t, u.IsUncategorized())
	assert.Equal(t, CategoryRef{ID: 0, Name: "", Color: "none"}, u.Ref())
	assert.False(t, Category{ID: 3, Name: "Work"}.IsUncategorized())
	assert.False(t, Category{ID: 3, Name: ""}.IsUncategorized())
	assert.False(t, Category{Name: "Work"}.IsUncategorized(), "named entry without an id")
}

func TestNoteItemResponseNull(t *testing.T) {
	var resp NoteItemResponse
	require.NoError(t, resp.FromJSON([]byte(`{"noteItem":null}`)))
	assert.Nil(t, resp.NoteItem)

	data, err := (&NoteItemResponse{}).ToJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"noteItem":null}`, string(data))
}

func TestStandardMessageReply(t *testing.T) {
	msg := NewStandardMessage(SnapshotMessage, "load", nil).InReplyTo("client-1")
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "client-1", msg.ReplyTo)
	assert.Equal(t, SnapshotMessage, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())
}
