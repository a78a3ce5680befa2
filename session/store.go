// Package session, identity/session store.
// This file implements durable session storage: one JSON file holding the
// current user, restored at process start. Absence of the file means
// logged out. This is the server-side equivalent of the single key a
// browser client keeps in local storage.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/user/cinetrack-go/config"
)

// Store holds the single process-wide session. All mutation goes through
// the four lifecycle operations (restore on start, set on login, update on
// profile edit, clear on logout); reads can come from any request
// goroutine, hence the lock.
type Store struct {
	path    string
	mu      sync.RWMutex
	current *User
	log     zerolog.Logger
}

// NewStore creates a session store persisting to the configured file.
func NewStore(cfg *config.SessionConfig, log zerolog.Logger) *Store {
	return &Store{
		path: cfg.FilePath,
		log:  log.With().Str("component", "session").Logger(),
	}
}

// Load restores the session from disk. A missing file means logged out;
// an unreadable or corrupt file is treated the same way (logged), since a
// broken session is not worth failing startup over.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("could not read session file")
		}
		s.current = nil
		return
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt session file, starting logged out")
		s.current = nil
		return
	}
	s.current = &user
	s.log.Info().Int("user_id", user.ID).Msg("session restored")
}

// Current returns a copy of the session user, or nil when logged out.
func (s *Store) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// Set establishes or replaces the session and persists it.
func (s *Store) Set(user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	s.current = &user
	return nil
}

// Clear destroys the session. A session file that never existed is fine.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.current = nil
	return nil
}
