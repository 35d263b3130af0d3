package memory

import (
	"context"
	"sync"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/store"
)

// AuthStore is an in-process implementation of store.Store. It is the default
// backend: one user, one process, gone on exit.
type AuthStore struct {
	mu   sync.RWMutex
	auth store.Auth
	set  bool
}

func NewAuthStore() *AuthStore {
	return &AuthStore{}
}

func (s *AuthStore) SaveAuth(_ context.Context, auth store.Auth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
	s.set = true
	return nil
}

func (s *AuthStore) Auth(_ context.Context) (store.Auth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return store.Auth{}, domain.ErrUnauthorized
	}
	return s.auth, nil
}

func (s *AuthStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = store.Auth{}
	s.set = false
	return nil
}
