package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/utils/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("gateway-test")

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := token.GenerateToken("user-1", "a@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func loggedInClient(t *testing.T, url string) *Client {
	t.Helper()
	app := NewAppContext(NewMemoryTokenStore(validToken(t)))
	require.NoError(t, app.Init())
	return NewClient(url+"/api", app)
}

type recorded struct {
	method string
	path   string
	token  string
	body   map[string]interface{}
}

func recordingServer(t *testing.T, status int, response string, got *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.token = r.Header.Get(token.HeaderName)
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const itemResponse = `{"noteItem":{"notes":[{"id":1,"title":"Buy milk","description":"","category":{"id":2,"name":"Errands","color":"none"},"tags":[]}],"categories":[{"id":0,"name":"","color":"none","note_count":0},{"id":2,"name":"Errands","color":"none","note_count":1}]}}`

func TestClient_Endpoints(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *Client) (*models.NoteItem, error)
		method string
		path   string
		body   map[string]interface{}
	}{
		{"get", func(c *Client) (*models.NoteItem, error) { return c.GetNotes(context.Background()) }, "GET", "/api/note", nil},
		{"create", func(c *Client) (*models.NoteItem, error) {
			return c.CreateNote(context.Background(), models.CreateNoteRequest{Title: "Buy milk", Category: models.CategoryRef{ID: 1, Name: "Errands", Color: "none"}, Tags: []string{}})
		}, "POST", "/api/note", map[string]interface{}{
			"title": "Buy milk", "description": "", "tags": []interface{}{},
			"category": map[string]interface{}{"id": float64(1), "name": "Errands", "color": "none"},
		}},
		{"update", func(c *Client) (*models.NoteItem, error) {
			return c.UpdateNote(context.Background(), models.UpdateNoteRequest{NoteID: 1, Title: "x"})
		}, "PUT", "/api/note", map[string]interface{}{
			"noteID": float64(1), "title": "x", "description": "", "tags": nil,
			"category": map[string]interface{}{"id": float64(0), "name": "", "color": ""},
		}},
		{"delete", func(c *Client) (*models.NoteItem, error) { return c.DeleteNote(context.Background(), 7) }, "DELETE", "/api/note", map[string]interface{}{"noteID": float64(7)}},
		{"categories", func(c *Client) (*models.NoteItem, error) {
			return c.UpdateCategories(context.Background(), []models.Category{{ID: 2, Name: "Errands", Color: "none"}})
		}, "PUT", "/api/categories", map[string]interface{}{
			"categories": []interface{}{map[string]interface{}{"id": float64(2), "name": "Errands", "color": "none", "note_count": float64(0)}},
		}},
		{"order", func(c *Client) (*models.NoteItem, error) { return c.ReorderNotes(context.Background(), []int{3, 1, 2}) }, "PUT", "/api/note/order", map[string]interface{}{
			"noteIDs": []interface{}{float64(3), float64(1), float64(2)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got recorded
			srv := recordingServer(t, http.StatusOK, itemResponse, &got)
			c := loggedInClient(t, srv.URL)

			item, err := tt.call(c)
			require.NoError(t, err)
			require.NotNil(t, item)
			assert.Len(t, item.Notes, 1)
			assert.Equal(t, "Errands", item.Notes[0].Category.Name)
			assert.Len(t, item.Categories, 2)

			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.path, got.path)
			assert.NotEmpty(t, got.token)
			assert.Equal(t, tt.body, got.body)
		})
	}
}

func TestClient_NullNoteItem(t *testing.T) {
	var got recorded
	srv := recordingServer(t, http.StatusOK, `{"noteItem":null}`, &got)

	item, err := loggedInClient(t, srv.URL).GetNotes(context.Background())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
		target error
	}{
		{http.StatusUnauthorized, Unauthorized, ErrUnauthorized},
		{http.StatusForbidden, Unauthorized, ErrUnauthorized},
		{http.StatusNotFound, NotFound, ErrNotFound},
		{http.StatusBadRequest, ServerError, ErrServer},
		{http.StatusInternalServerError, ServerError, ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var got recorded
			srv := recordingServer(t, tt.status, `{"error":"nope"}`, &got)

			_, err := loggedInClient(t, srv.URL).GetNotes(context.Background())
			assert.ErrorIs(t, err, tt.target)
			kind, ok := KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, kind)

			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, "nope", reqErr.Message)
			assert.Equal(t, tt.status, reqErr.Status)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := loggedInClient(t, url).GetNotes(context.Background())
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestClient_MalformedResponse(t *testing.T) {
	var got recorded
	srv := recordingServer(t, http.StatusOK, `{"noteItem":`, &got)

	_, err := loggedInClient(t, srv.URL).GetNotes(context.Background())
	assert.ErrorIs(t, err, ErrServer)
}

func TestClient_NoTokenFailsBeforeNetwork(t *testing.T) {
	var got recorded
	srv := recordingServer(t, http.StatusOK, itemResponse, &got)

	c := NewClient(srv.URL, NewAppContext(nil))
	_, err := c.GetNotes(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, got.method, "no request was made")

	expired, tokErr := token.GenerateToken("user-1", "a@example.com", testSecret, -time.Minute)
	require.NoError(t, tokErr)
	require.NoError(t, c.App().SetToken(expired))
	_, err = c.GetNotes(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, got.method)
}

func TestClient_LoginAndLogout(t *testing.T) {
	tok := validToken(t)
	var got recorded
	srv := recordingServer(t, http.StatusOK, `{"token":"`+tok+`"}`, &got)

	c := NewClient(srv.URL+"/api", NewAppContext(nil))
	require.NoError(t, c.Login(context.Background(), "a@example.com", "hunter22"))
	assert.Equal(t, "/api/user/login", got.path)
	assert.Equal(t, "a@example.com", got.body["email"])
	assert.Empty(t, got.token)
	assert.True(t, c.App().LoggedIn())

	require.NoError(t, c.Logout())
	assert.False(t, c.App().LoggedIn())
}

func TestClient_LoginRejected(t *testing.T) {
	var got recorded
	srv := recordingServer(t, http.StatusUnauthorized, `{"error":"Invalid email or password"}`, &got)

	c := NewClient(srv.URL, NewAppContext(nil))
	err := c.Login(context.Background(), "a@example.com", "bad")
	assert.True(t, IsUnauthorized(err))
	assert.False(t, c.App().LoggedIn())
}

func TestClient_Verify(t *testing.T) {
	var got recorded
	srv := recordingServer(t, http.StatusOK, `{"valid":true}`, &got)

	require.NoError(t, loggedInClient(t, srv.URL).Verify(context.Background()))
	assert.Equal(t, "/api/token", got.path)
}
