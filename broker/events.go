package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	NoteCreated    EventType = "note.created"
	NoteUpdated    EventType = "note.updated"
	NoteDeleted    EventType = "note.deleted"
	NotesReordered EventType = "note.reordered"

	CategoriesUpdated EventType = "category.updated"

	UserCreated EventType = "user.created"
)
