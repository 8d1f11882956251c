package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"jotfox-notes/jotfox/database"
	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/services"
	"jotfox-notes/jotfox/testutils"
	"jotfox-notes/jotfox/utils/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const goodToken = "good-token"

func newTestRouter(t *testing.T) (*gin.Engine, *testutils.MockAuthService, *testutils.MockNoteItemService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := new(testutils.MockAuthService)
	authService.On("ValidateToken", goodToken).Return(&token.JWTClaims{UserID: "user-1", Email: "a@example.com"}, nil)
	authService.On("ValidateToken", mock.Anything).Return(nil, services.ErrInvalidToken)

	noteItemService := new(testutils.MockNoteItemService)
	return NewAPIRouter(&database.Database{}, "*", authService, noteItemService), authService, noteItemService
}

func doRequest(router *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set(token.HeaderName, goodToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errandsItem() *models.NoteItem {
	return &models.NoteItem{
		Notes: []models.Note{{
			ID:       1,
			Title:    "Buy milk",
			Category: models.CategoryRef{ID: 1, Name: "Errands", Color: "none"},
			Tags:     []string{},
		}},
		Categories: []models.Category{
			models.Uncategorized(),
			{ID: 1, Name: "Errands", Color: "none", NoteCount: 1},
		},
	}
}

func decodeItem(t *testing.T, w *httptest.ResponseRecorder) *models.NoteItem {
	t.Helper()
	var resp models.NoteItemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.NoteItem
}

func TestGetNotes(t *testing.T) {
	router, _, noteItemService := newTestRouter(t)

	t.Run("Not Authenticated", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/note", "", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Bad Token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/note", nil)
		req.Header.Set(token.HeaderName, "forged")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("New User", func(t *testing.T) {
		noteItemService.On("GetNoteItem", mock.Anything, "user-1").Return(nil, nil).Once()
		w := doRequest(router, "GET", "/api/note", "", true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"noteItem":null}`, w.Body.String())
	})

	t.Run("Bearer Header", func(t *testing.T) {
		noteItemService.On("GetNoteItem", mock.Anything, "user-1").Return(errandsItem(), nil).Once()
		req, _ := http.NewRequest("GET", "/api/note", nil)
		req.Header.Set("Authorization", "Bearer "+goodToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Errands", decodeItem(t, w).Notes[0].Category.Name)
	})
}

func TestCreateNote(t *testing.T) {
	router, _, noteItemService := newTestRouter(t)

	t.Run("Invalid JSON", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/note", "invalid json", true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Validation Error", func(t *testing.T) {
		noteItemService.On("CreateNote", mock.Anything, "user-1", models.CreateNoteRequest{Title: ""}).
			Return(nil, services.ErrTitleRequired).Once()
		w := doRequest(router, "POST", "/api/note", `{"title":""}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "title is required")
	})

	t.Run("Created", func(t *testing.T) {
		req := models.CreateNoteRequest{
			Title:    "Buy milk",
			Category: models.CategoryRef{ID: 1, Name: "Errands", Color: "none"},
			Tags:     []string{},
		}
		noteItemService.On("CreateNote", mock.Anything, "user-1", req).Return(errandsItem(), nil).Once()
		body := `{"title":"Buy milk","description":"","category":{"id":1,"name":"Errands","color":"none"},"tags":[]}`
		w := doRequest(router, "POST", "/api/note", body, true)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, decodeItem(t, w).Categories, 2)
	})

	noteItemService.AssertExpectations(t)
}

func TestUpdateNote(t *testing.T) {
	router, _, noteItemService := newTestRouter(t)

	t.Run("Missing Note ID", func(t *testing.T) {
		w := doRequest(router, "PUT", "/api/note", `{"title":"x"}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Note Not Found", func(t *testing.T) {
		noteItemService.On("UpdateNote", mock.Anything, "user-1", models.UpdateNoteRequest{NoteID: 9, Title: "x"}).
			Return(nil, services.ErrNoteNotFound).Once()
		w := doRequest(router, "PUT", "/api/note", `{"noteID":9,"title":"x"}`, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Note Updated", func(t *testing.T) {
		noteItemService.On("UpdateNote", mock.Anything, "user-1", models.UpdateNoteRequest{NoteID: 1, Title: "Buy milk"}).
			Return(errandsItem(), nil).Once()
		w := doRequest(router, "PUT", "/api/note", `{"noteID":1,"title":"Buy milk"}`, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDeleteNote(t *testing.T) {
	router, _, noteItemService := newTestRouter(t)

	t.Run("Note Not Found", func(t *testing.T) {
		noteItemService.On("DeleteNote", mock.Anything, "user-1", 9).Return(nil, services.ErrNoteNotFound).Once()
		w := doRequest(router, "DELETE", "/api/note", `{"noteID":9}`, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Note Deleted", func(t *testing.T) {
		noteItemService.On("DeleteNote", mock.Anything, "user-1", 1).
			Return(&models.NoteItem{Notes: []models.Note{}, Categories: []models.Category{models.Uncategorized()}}, nil).Once()
		w := doRequest(router, "DELETE", "/api/note", `{"noteID":1}`, true)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeItem(t, w).Notes)
	})
}

func TestReorderNotes(t *testing.T) {
	router, _, noteItemService := newTestRouter(t)

	t.Run("Incomplete Order", func(t *testing.T) {
		noteItemService.On("ReorderNotes", mock.Anything, "user-1", []int{2}).
			Return(nil, fmt.Errorf("%w: order must list every note once", services.ErrInvalidInput)).Once()
		w := doRequest(router, "PUT", "/api/note/order", `{"noteIDs":[2]}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Reordered", func(t *testing.T) {
		noteItemService.On("ReorderNotes", mock.Anything, "user-1", []int{2, 1}).Return(errandsItem(), nil).Once()
		w := doRequest(router, "PUT", "/api/note/order", `{"noteIDs":[2,1]}`, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Database Down", func(t *testing.T) {
		noteItemService.On("ReorderNotes", mock.Anything, "user-1", []int{1}).Return(nil, errors.New("connection refused")).Once()
		w := doRequest(router, "PUT", "/api/note/order", `{"noteIDs":[1]}`, true)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUpdateCategories(t *testing.T) {
	router, _, noteItemService := newTestRouter(t)

	t.Run("Collision", func(t *testing.T) {
		categories := []models.Category{{ID: 1, Name: "Work", Color: "none"}, {ID: 2, Name: "work", Color: "none"}}
		noteItemService.On("UpdateCategories", mock.Anything, "user-1", categories).
			Return(nil, services.ErrCategoryNamesCollide).Once()
		body := `{"categories":[{"id":1,"name":"Work","color":"none"},{"id":2,"name":"work","color":"none"}]}`
		w := doRequest(router, "PUT", "/api/categories", body, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Saved", func(t *testing.T) {
		categories := []models.Category{{ID: 1, Name: "Errands", Color: "#ff0000"}}
		noteItemService.On("UpdateCategories", mock.Anything, "user-1", categories).Return(errandsItem(), nil).Once()
		w := doRequest(router, "PUT", "/api/categories", `{"categories":[{"id":1,"name":"Errands","color":"#ff0000"}]}`, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMetricsAndHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, "GET", "/healthz", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/metrics", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jotfox_http_requests_total")
}

func TestGetNotesHandlerDirect(t *testing.T) {
	noteItemService := new(testutils.MockNoteItemService)
	db := &database.Database{}
	noteItemService.On("GetNoteItem", db, "user-9").Return(errandsItem(), nil).Once()

	w := httptest.NewRecorder()
	c := testutils.GetAuthedGinContext(w, httptest.NewRequest("GET", "/api/note", nil), "user-9")
	GetNotes(c, db, noteItemService)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeItem(t, w).Notes, 1)
	noteItemService.AssertExpectations(t)

	w = httptest.NewRecorder()
	c = testutils.GetTestGinContext(w, httptest.NewRequest("GET", "/api/note", nil))
	GetNotes(c, db, noteItemService)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
