// Package store defines the session store: the small key-value state that
// survives between screens (and, with the redis backend, between processes).
// Components receive it as an injected dependency rather than reaching for
// ambient globals, so everything above it is testable against the in-memory
// backend.
package store

import (
	"context"
	"time"
)

// Store persists one signed-in user's session data.
type Store interface {
	// SaveAuth stores the login response. An auth payload without an explicit
	// expiration should be completed with ExpiryFromToken before saving.
	SaveAuth(ctx context.Context, auth Auth) error
	// Auth returns the stored session, or domain.ErrUnauthorized when absent.
	Auth(ctx context.Context) (Auth, error)
	// Clear wipes the session, signing the user out.
	Clear(ctx context.Context) error
}

// Auth is the persisted shape of a login.
type Auth struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	UserID     int       `json:"userId"`
	Username   string    `json:"username"`
	UserRole   string    `json:"userRole"`
}

// Valid reports whether the session exists and has not expired.
func (a Auth) Valid(now time.Time) bool {
	if a.Token == "" {
		return false
	}
	return a.Expiration.IsZero() || now.Before(a.Expiration)
}
