package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"jotfox-notes/jotfox/models"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Gateway is the persistence contract the store calls for every server-backed
// mutation. Each call answers with the full authoritative NoteItem; a nil item
// means the user has nothing saved yet.
type Gateway interface {
	GetNotes(ctx context.Context) (*models.NoteItem, error)
	CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.NoteItem, error)
	UpdateNote(ctx context.Context, req models.UpdateNoteRequest) (*models.NoteItem, error)
	DeleteNote(ctx context.Context, noteID int) (*models.NoteItem, error)
	UpdateCategories(ctx context.Context, categories []models.Category) (*models.NoteItem, error)
	ReorderNotes(ctx context.Context, noteIDs []int) (*models.NoteItem, error)
}

// Snapshot is a copy of the store's notes (newest-first) and categories.
type Snapshot struct {
	Notes      []models.Note     `json:"notes"`
	Categories []models.Category `json:"categories"`
}

type Option func(*NoteStore)

// WithInitialSnapshot seeds the store as if item had been returned by the
// server.
func WithInitialSnapshot(item *models.NoteItem) Option {
	return func(s *NoteStore) {
		s.adoptLocked(item)
	}
}

// NoteStore is the single owner of the note sequence and the category
// registry. Network-backed mutations never hold the lock while waiting, so
// overlapping requests resolve last-response-wins.
type NoteStore struct {
	mu      sync.RWMutex
	gateway Gateway

	notes      []models.Note
	categories []models.Category

	// last adopted server state, used for no-op edits and discarding reorders
	saved      map[int]models.Note
	savedOrder []int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func New(gateway Gateway, opts ...Option) *NoteStore {
	s := &NoteStore{
		gateway:    gateway,
		notes:      []models.Note{},
		categories: []models.Category{},
		saved:      map[int]models.Note{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NoteStore) Load(ctx context.Context) (Snapshot, error) {
	if s.gateway == nil {
		return Snapshot{}, ErrNoGateway
	}
	item, err := s.gateway.GetNotes(ctx)
	return s.finish("load", item, err)
}

func (s *NoteStore) CreateNote(ctx context.Context, draft models.NoteDraft) (Snapshot, error) {
	if s.gateway == nil {
		return Snapshot{}, ErrNoGateway
	}

	s.mu.RLock()
	normalized, err := s.prepareDraftLocked(draft)
	s.mu.RUnlock()
	if err != nil {
		return Snapshot{}, err
	}

	item, err := s.gateway.CreateNote(ctx, models.CreateNoteRequest{
		Title:       normalized.Title,
		Description: normalized.Description,
		Category:    normalized.Category,
		Tags:        normalized.Tags,
	})
	return s.finish("create", item, err)
}

// UpdateNote sends the edited note unless the draft matches what the server
// last returned for it; the bool reports whether a request was made.
func (s *NoteStore) UpdateNote(ctx context.Context, noteID int, draft models.NoteDraft) (Snapshot, bool, error) {
	if s.gateway == nil {
		return Snapshot{}, false, ErrNoGateway
	}

	s.mu.RLock()
	saved, ok := s.saved[noteID]
	normalized, err := s.prepareDraftLocked(draft)
	current := s.snapshotLocked()
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, false, fmt.Errorf("%w: %d", ErrNoteNotFound, noteID)
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	if unchanged(saved, normalized) {
		log.Debug().Int("note_id", noteID).Msg("note unchanged, skipping update")
		return current, false, nil
	}

	item, err := s.gateway.UpdateNote(ctx, models.UpdateNoteRequest{
		NoteID:      noteID,
		Title:       normalized.Title,
		Description: normalized.Description,
		Category:    normalized.Category,
		Tags:        normalized.Tags,
	})
	snapshot, err := s.finish("update", item, err)
	return snapshot, true, err
}

func (s *NoteStore) DeleteNote(ctx context.Context, noteID int) (Snapshot, error) {
	if s.gateway == nil {
		return Snapshot{}, ErrNoGateway
	}
	item, err := s.gateway.DeleteNote(ctx, noteID)
	return s.finish("delete", item, err)
}

// SaveCategoryRegistry replaces the whole registry. Colliding or blank names
// are rejected without contacting the server.
func (s *NoteStore) SaveCategoryRegistry(ctx context.Context, categories []models.Category) (Snapshot, error) {
	if s.gateway == nil {
		return Snapshot{}, ErrNoGateway
	}
	if err := validateRegistry(categories); err != nil {
		return Snapshot{}, err
	}
	item, err := s.gateway.UpdateCategories(ctx, slices.Clone(categories))
	return s.finish("save_categories", item, err)
}

// Reorder moves the note at from to to, shifting the notes in between. It is
// local only; see PersistOrder and DiscardReorder.
func (s *NoteStore) Reorder(from, to int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.notes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return s.snapshotLocked(), fmt.Errorf("%w: move %d to %d in %d notes", ErrIndexOutOfRange, from, to, n)
	}
	if from != to {
		s.notes = ArrayMove(s.notes, from, to)
		reindex(s.notes)
		reordersTotal.Inc()
	}
	return s.snapshotLocked(), nil
}

// OrderDirty reports whether the local order differs from the server's.
func (s *NoteStore) OrderDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderDirtyLocked()
}

func (s *NoteStore) PersistOrder(ctx context.Context) (Snapshot, error) {
	if s.gateway == nil {
		return Snapshot{}, ErrNoGateway
	}

	s.mu.RLock()
	if !s.orderDirtyLocked() {
		snapshot := s.snapshotLocked()
		s.mu.RUnlock()
		return snapshot, nil
	}
	ids := noteIDs(s.notes)
	s.mu.RUnlock()

	item, err := s.gateway.ReorderNotes(ctx, ids)
	return s.finish("persist_order", item, err)
}

// DiscardReorder puts the notes back in the order last returned by the
// server.
func (s *NoteStore) DiscardReorder() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orderDirtyLocked() {
		restored := make([]models.Note, 0, len(s.savedOrder))
		for _, id := range s.savedOrder {
			restored = append(restored, s.saved[id].Clone())
		}
		s.notes = restored
		reindex(s.notes)
	}
	return s.snapshotLocked()
}

func (s *NoteStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *NoteStore) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNotes(s.notes)
}

func (s *NoteStore) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *NoteStore) ManagedCategories() []models.Category {
	return ManagedCategories(s.Categories())
}

func (s *NoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// finish adopts item when the request succeeded and leaves the store alone
// otherwise.
func (s *NoteStore) finish(operation string, item *models.NoteItem, err error) (Snapshot, error) {
	if err != nil {
		requestsTotal.WithLabelValues(operation, "error").Inc()
		log.Warn().Err(err).Str("operation", operation).Msg("request failed, keeping last snapshot")
		return Snapshot{}, err
	}
	requestsTotal.WithLabelValues(operation, "ok").Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adoptLocked(item)
	log.Debug().
		Str("operation", operation).
		Int("notes", len(s.notes)).
		Int("categories", len(s.categories)).
		Msg("adopted server snapshot")
	return s.snapshotLocked(), nil
}

func (s *NoteStore) adoptLocked(item *models.NoteItem) {
	notes := []models.Note{}
	categories := []models.Category{}
	if item != nil {
		// server order is oldest-first
		for i := len(item.Notes) - 1; i >= 0; i-- {
			notes = append(notes, item.Notes[i].Clone())
		}
		if item.Categories != nil {
			categories = slices.Clone(item.Categories)
		}
	}
	reindex(notes)

	s.notes = notes
	s.categories = categories
	s.saved = make(map[int]models.Note, len(notes))
	for _, note := range notes {
		s.saved[note.ID] = note.Clone()
	}
	s.savedOrder = noteIDs(notes)
	snapshotsAdopted.Inc()
}

func (s *NoteStore) orderDirtyLocked() bool {
	return !slices.Equal(noteIDs(s.notes), s.savedOrder)
}

func (s *NoteStore) snapshotLocked() Snapshot {
	return Snapshot{
		Notes:      cloneNotes(s.notes),
		Categories: slices.Clone(s.categories),
	}
}

// prepareDraftLocked trims the draft, checks it and resolves its category
// against the current registry.
func (s *NoteStore) prepareDraftLocked(draft models.NoteDraft) (models.NoteDraft, error) {
	normalized := models.NoteDraft{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Tags:        normalizeTags(draft.Tags),
	}
	if normalized.Title == "" {
		return models.NoteDraft{}, ErrEmptyTitle
	}
	if err := validate.Struct(normalized); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				switch fieldErr.Field() {
				case "Title":
					return models.NoteDraft{}, ErrTitleTooLong
				case "Description":
					return models.NoteDraft{}, ErrDescriptionTooLong
				}
			}
		}
		return models.NoteDraft{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	name := strings.TrimSpace(draft.Category.Name)
	if name == "" {
		normalized.Category = models.Uncategorized().Ref()
		return normalized, nil
	}
	color := draft.Category.Color
	if color == "" {
		color = models.NoColor
	}
	normalized.Category = models.CategoryRef{
		ID:    GetOrCreateCategoryID(s.categories, name),
		Name:  name,
		Color: color,
	}
	return normalized, nil
}

func unchanged(saved models.Note, draft models.NoteDraft) bool {
	savedColor := saved.Category.Color
	if savedColor == "" {
		savedColor = models.NoColor
	}
	return saved.Title == draft.Title &&
		saved.Description == draft.Description &&
		saved.Category.Name == draft.Category.Name &&
		savedColor == draft.Category.Color &&
		slices.Equal(normalizeTags(saved.Tags), draft.Tags)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ArrayMove returns a copy of items with the element at from moved to to.
func ArrayMove[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved)
}

func reindex(notes []models.Note) {
	for i := range notes {
		notes[i].DisplayIndex = i
	}
}

func noteIDs(notes []models.Note) []int {
	ids := make([]int, len(notes))
	for i, note := range notes {
		ids[i] = note.ID
	}
	return ids
}

func cloneNotes(notes []models.Note) []models.Note {
	out := make([]models.Note, len(notes))
	for i, note := range notes {
		out[i] = note.Clone()
	}
	return out
}
