package testutils

import (
	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/utils/token"

	"github.com/stretchr/testify/mock"
)

// MockNoteItemService mocks the note item service for handler tests
type MockNoteItemService struct {
	mock.Mock
}

func (m *MockNoteItemService) noteItem(args mock.Arguments) (*models.NoteItem, error) {
	item, _ := args.Get(0).(*models.NoteItem)
	return item, args.Error(1)
}

func (m *MockNoteItemService) GetNoteItem(db *database.Database, userID string) (*models.NoteItem, error) {
	return m.noteItem(m.Called(db, userID))
}

func (m *MockNoteItemService) CreateNote(db *database.Database, userID string, req models.CreateNoteRequest) (*models.NoteItem, error) {
	return m.noteItem(m.Called(db, userID, req))
}

func (m *MockNoteItemService) UpdateNote(db *database.Database, userID string, req models.UpdateNoteRequest) (*models.NoteItem, error) {
	return m.noteItem(m.Called(db, userID, req))
}

func (m *MockNoteItemService) DeleteNote(db *database.Database, userID string, noteID int) (*models.NoteItem, error) {
	return m.noteItem(m.Called(db, userID, noteID))
}

func (m *MockNoteItemService) UpdateCategories(db *database.Database, userID string, categories []models.Category) (*models.NoteItem, error) {
	return m.noteItem(m.Called(db, userID, categories))
}

func (m *MockNoteItemService) ReorderNotes(db *database.Database, userID string, noteIDs []int) (*models.NoteItem, error) {
	return m.noteItem(m.Called(db, userID, noteIDs))
}

// MockAuthService mocks the auth service for handler tests
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(db *database.Database, email, password string) (models.User, error) {
	args := m.Called(db, email, password)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) Login(db *database.Database, email, password string) (string, error) {
	args := m.Called(db, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*token.JWTClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*token.JWTClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}
