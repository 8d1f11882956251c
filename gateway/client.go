// Package gateway is the HTTP side of the note store: it speaks the JotFox
// REST contract and owns the session token.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jotfox-notes/jotfox/models"
	"jotfox-notes/jotfox/utils/token"

	"github.com/rs/zerolog/log"
)

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// Client implements the store's Gateway against a JotFox API.
type Client struct {
	baseURL string
	http    *http.Client
	app     *AppContext
}

func NewClient(baseURL string, app *AppContext, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		app:     app,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) App() *AppContext {
	return c.app
}

func (c *Client) GetNotes(ctx context.Context) (*models.NoteItem, error) {
	return c.noteItem(ctx, http.MethodGet, "/note", nil)
}

func (c *Client) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*models.NoteItem, error) {
	return c.noteItem(ctx, http.MethodPost, "/note", req)
}

func (c *Client) UpdateNote(ctx context.Context, req models.UpdateNoteRequest) (*models.NoteItem, error) {
	return c.noteItem(ctx, http.MethodPut, "/note", req)
}

func (c *Client) DeleteNote(ctx context.Context, noteID int) (*models.NoteItem, error) {
	return c.noteItem(ctx, http.MethodDelete, "/note", models.DeleteNoteRequest{NoteID: noteID})
}

func (c *Client) UpdateCategories(ctx context.Context, categories []models.Category) (*models.NoteItem, error) {
	return c.noteItem(ctx, http.MethodPut, "/categories", models.UpdateCategoriesRequest{Categories: categories})
}

func (c *Client) ReorderNotes(ctx context.Context, noteIDs []int) (*models.NoteItem, error) {
	return c.noteItem(ctx, http.MethodPut, "/note/order", models.ReorderNotesRequest{NoteIDs: noteIDs})
}

// Login exchanges credentials for a token and starts the session with it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp models.TokenResponse
	creds := models.Credentials{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/user/login", creds, &resp, false); err != nil {
		return err
	}
	if resp.Token == "" {
		return &RequestError{Kind: ServerError, Message: "login response carried no token"}
	}
	return c.app.SetToken(resp.Token)
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	creds := models.Credentials{Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/user/register", creds, nil, false)
}

// Verify asks the server whether the current token is still accepted.
func (c *Client) Verify(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/token", nil, nil, true)
}

func (c *Client) Logout() error {
	return c.app.Logout()
}

func (c *Client) noteItem(ctx context.Context, method, path string, body interface{}) (*models.NoteItem, error) {
	var resp models.NoteItemResponse
	if err := c.do(ctx, method, path, body, &resp, true); err != nil {
		return nil, err
	}
	return resp.NoteItem, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		tok, err := c.app.Token()
		if err != nil {
			return err
		}
		req.Header.Set(token.HeaderName, tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &RequestError{Kind: NetworkFailure, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Kind: NetworkFailure, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(data, resp.Status),
		}
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("request rejected")
		return reqErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Kind: ServerError, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

// errorMessage pulls the gin.H{"error": ...} text out of a failed response.
func errorMessage(data []byte, fallback string) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return fallback
}

// IsUnauthorized reports whether err means the user must log in again.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
