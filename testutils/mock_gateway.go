package testutils

import (
	"context"

	"jotfox-notes/jotfox/models"

	"github.com/stretchr/testify/mock"
)

// MockGateway mocks the persistence gateway the note store talks to.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) item(args mock.Arguments) (*models.NoteItem, error) {
	item, _ := args.Get(0).(*models.NoteItem)
	return item, args.Error(1)
}

func (m *MockGateway) GetNotes(ctx context.Context) (*models.NoteItem, error) {
	return m.item(m.Called(ctx))
}

func (m *MockGateway) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.NoteItem, error) {
	return m.item(m.Called(ctx, req))
}

func (m *MockGateway) UpdateNote(ctx context.Context, req models.UpdateNoteRequest) (*models.NoteItem, error) {
	return m.item(m.Called(ctx, req))
}

func (m *MockGateway) DeleteNote(ctx context.Context, noteID int) (*models.NoteItem, error) {
	return m.item(m.Called(ctx, noteID))
}

func (m *MockGateway) UpdateCategories(ctx context.Context, categories []models.Category) (*models.NoteItem, error) {
	return m.item(m.Called(ctx, categories))
}

func (m *MockGateway) ReorderNotes(ctx context.Context, noteIDs []int) (*models.NoteItem, error) {
	return m.item(m.Called(ctx, noteIDs))
}

// NoteItemOf builds a server payload from notes listed oldest-first.
func NoteItemOf(categories []models.Category, notes ...models.Note) *models.NoteItem {
	if categories == nil {
		categories = []models.Category{models.Uncategorized()}
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return &models.NoteItem{Notes: notes, Categories: categories}
}
