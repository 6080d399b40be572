package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// stateDocument is the on-disk shape: one JSON document per profile.
type stateDocument struct {
	Token             string       `json:"token,omitempty"`
	User              *domain.User `json:"user,omitempty"`
	SeenNotifications []string     `json:"seen_notifications,omitempty"`
}

// FileStore persists state as a single JSON file with atomic
// rename-on-write. Safe for concurrent use.
type FileStore struct {
	mu    sync.RWMutex
	path  string
	state stateDocument
}

// DefaultPath returns the per-user state file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "foodie-finder", "state.json"), nil
}

// OpenFile loads (or initializes) the state file at path.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read state file: %w", err)
	}

	// A corrupt state file is discarded rather than fatal: the worst case
	// is a forced re-login and a reset seen set.
	if err := json.Unmarshal(data, &s.state); err != nil {
		s.state = stateDocument{}
	}
	return s, nil
}

func (s *FileStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token, s.state.Token != ""
}

func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return s.flushLocked()
}

func (s *FileStore) User() (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil, false
	}
	u := *s.state.User
	return &u, true
}

func (s *FileStore) SetUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.state.User = nil
	} else {
		u := *user
		s.state.User = &u
	}
	return s.flushLocked()
}

func (s *FileStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = ""
	s.state.User = nil
	return s.flushLocked()
}

func (s *FileStore) SeenNotifications() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[string]struct{}, len(s.state.SeenNotifications))
	for _, id := range s.state.SeenNotifications {
		ids[id] = struct{}{}
	}
	return ids
}

func (s *FileStore) SetSeenNotifications(ids map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	sort.Strings(list) // stable file content for identical sets
	s.state.SeenNotifications = list
	return s.flushLocked()
}

// flushLocked writes the document to a temp file in the same directory and
// renames it over the target, so readers never observe a partial write.
func (s *FileStore) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
