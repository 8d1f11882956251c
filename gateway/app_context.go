package gateway

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jotfox-notes/jotfox/utils/token"

	"github.com/rs/zerolog/log"
)

// TokenStore keeps the session token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	return s.Save("")
}

// FileTokenStore keeps the token in a file readable only by its owner.
type FileTokenStore struct {
	Path string
}

func (s FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

func (s FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// AppContext owns the session token for one user of the app. It is created
// at start-up, loaded with Init and cleared with Logout, and handed to every
// gateway client that needs to authenticate.
type AppContext struct {
	mu     sync.RWMutex
	tokens TokenStore
	token  string
	now    func() time.Time
}

func NewAppContext(tokens TokenStore) *AppContext {
	if tokens == nil {
		tokens = NewMemoryTokenStore("")
	}
	return &AppContext{tokens: tokens, now: time.Now}
}

// Init loads the saved token, dropping it if it has already expired.
func (a *AppContext) Init() error {
	saved, err := a.tokens.Load()
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if saved != "" && token.IsExpired(saved, a.now()) {
		log.Info().Msg("saved session expired, clearing it")
		a.token = ""
		return a.tokens.Clear()
	}
	a.token = saved
	return nil
}

// SetToken starts a session with a token issued by the server.
func (a *AppContext) SetToken(tok string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.tokens.Save(tok); err != nil {
		return err
	}
	a.token = tok
	return nil
}

// Token returns the session token, or an Unauthorized RequestError when
// there is none or it has expired.
func (a *AppContext) Token() (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.token == "" {
		return "", unauthorized("not logged in")
	}
	if token.IsExpired(a.token, a.now()) {
		return "", unauthorized("session expired")
	}
	return a.token, nil
}

func (a *AppContext) LoggedIn() bool {
	_, err := a.Token()
	return err == nil
}

// Logout forgets the token in memory and in the store.
func (a *AppContext) Logout() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	return a.tokens.Clear()
}
