package broker

// NATS subjects, one per entity. AllEvents matches every one of them.
const (
	NoteEventsSubject     = "jotfox.notes"
	CategoryEventsSubject = "jotfox.categories"
	UserEventsSubject     = "jotfox.users"
	MiscEventsSubject     = "jotfox.misc"
	AllEvents             = "jotfox.>"
)

// SubjectForEntity maps an outbox entity to the subject its events go to.
func SubjectForEntity(entity string) string {
	switch entity {
	case "note":
		return NoteEventsSubject
	case "category":
		return CategoryEventsSubject
	case "user":
		return UserEventsSubject
	default:
		return MiscEventsSubject
	}
}
