// Package session persists the login session (bearer token + user profile)
// between runs. Two files under the data dir stand in for the fixed
// local-storage keys: "token" and "user.json".
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"zenflow/internal/api"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// Store reads and writes the persisted session. Single-process use; no
// cross-instance consistency is provided or required.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists both the user profile and the token. Written on login only.
func (s *Store) Save(user api.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}
	blob, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), blob, 0600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600)
}

// Load returns the persisted session. ok is false when either file is
// absent or unparsable; callers then start logged out.
func (s *Store) Load() (user api.User, token string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return api.User{}, "", false
	}
	token = strings.TrimSpace(string(raw))
	if token == "" {
		return api.User{}, "", false
	}
	blob, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return api.User{}, "", false
	}
	if err := json.Unmarshal(blob, &user); err != nil {
		return api.User{}, "", false
	}
	return user, token, true
}

// Clear removes both files. Called on logout; missing files are fine.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	errToken := os.Remove(filepath.Join(s.dir, tokenFile))
	errUser := os.Remove(filepath.Join(s.dir, userFile))
	if errToken != nil && !os.IsNotExist(errToken) {
		return errToken
	}
	if errUser != nil && !os.IsNotExist(errUser) {
		return errUser
	}
	return nil
}
