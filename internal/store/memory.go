package store

import (
	"sync"

	"github.com/yuvi-2309/Foodie-Finder/internal/domain"
)

// MemoryStore is an in-memory Store used in tests and ephemeral sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
	seen  map[string]struct{}
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) User() (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

func (s *MemoryStore) SetUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
	} else {
		u := *user
		s.user = &u
	}
	return nil
}

func (s *MemoryStore) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

func (s *MemoryStore) SeenNotifications() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[string]struct{}, len(s.seen))
	for id := range s.seen {
		ids[id] = struct{}{}
	}
	return ids
}

func (s *MemoryStore) SetSeenNotifications(ids map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = make(map[string]struct{}, len(ids))
	for id := range ids {
		s.seen[id] = struct{}{}
	}
	return nil
}
