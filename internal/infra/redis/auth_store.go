package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/razmataz100/maxs-music-quiz-frontend/internal/domain"
	"github.com/razmataz100/maxs-music-quiz-frontend/internal/store"
)

// AuthStore keeps the session in Redis so several clients on the same
// deployment (e.g. a shared kiosk install) see one signed-in user. The key is
// namespaced per install.
type AuthStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewAuthStore(client *redis.Client, namespace string, ttl time.Duration) *AuthStore {
	return &AuthStore{client: client, namespace: namespace, ttl: ttl}
}

func (s *AuthStore) SaveAuth(ctx context.Context, auth store.Auth) error {
	data, err := json.Marshal(auth)
	if err != nil {
		return err
	}
	ttl := s.ttl
	// Never outlive the token itself.
	if !auth.Expiration.IsZero() {
		if until := time.Until(auth.Expiration); ttl <= 0 || until < ttl {
			ttl = until
		}
	}
	return s.client.Set(ctx, s.key(), data, ttl).Err()
}

func (s *AuthStore) Auth(ctx context.Context) (store.Auth, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.Auth{}, domain.ErrUnauthorized
	}
	if err != nil {
		return store.Auth{}, err
	}
	var auth store.Auth
	if err := json.Unmarshal(data, &auth); err != nil {
		return store.Auth{}, err
	}
	return auth, nil
}

func (s *AuthStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key()).Err()
}

func (s *AuthStore) key() string {
	return "mmq:session:" + s.namespace
}
