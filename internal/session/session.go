// Package session stores the credential the transport pipeline attaches to
// outbound calls, and defines the renewal operation invoked when the backend
// reports the credential expired.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ServiceName identifies this application in the OS keychain.
const ServiceName = "deckhand"

// ErrNoCredential is returned when no credential is stored.
var ErrNoCredential = errors.New("no session credential stored")

// Credential is the session credential pair issued by the console backend.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// Empty reports whether the credential carries no access token.
func (c Credential) Empty() bool {
	return c.AccessToken == ""
}

// Store reads and replaces the current session credential.
type Store interface {
	// Current returns the stored credential, false when none exists.
	Current() (Credential, bool)
	// Replace overwrites the stored credential.
	Replace(Credential) error
	// Clear removes the stored credential. Clearing an empty store is a no-op.
	Clear() error
}

// Renewer exchanges a refresh token for a fresh credential. The transport
// pipeline invokes it at most once concurrently regardless of how many calls
// observe the expiry.
type Renewer interface {
	Renew(ctx context.Context, refreshToken string) (Credential, error)
}

// MemoryStore keeps the credential in process memory. Used by tests and by
// short-lived invocations that log in per run.
type MemoryStore struct {
	mu   sync.Mutex
	cred Credential
	set  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Current returns the stored credential, false when none exists.
func (s *MemoryStore) Current() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred, s.set
}

// Replace overwrites the stored credential.
func (s *MemoryStore) Replace(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.set = true
	return nil
}

// Clear removes the stored credential.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = Credential{}
	s.set = false
	return nil
}
