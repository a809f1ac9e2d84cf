package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// credentialKey is the keychain account the JSON-encoded credential lives
// under.
const credentialKey = "session"

// KeyringStore persists the credential in the OS keychain so the operator CLI
// stays logged in across invocations.
type KeyringStore struct {
	serviceName string
}

// NewKeyringStore creates a keychain-backed store. An empty service name
// falls back to ServiceName.
func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

// Current returns the stored credential, false when none exists or the
// keychain entry cannot be decoded.
func (s *KeyringStore) Current() (Credential, bool) {
	raw, err := keyring.Get(s.serviceName, credentialKey)
	if err != nil {
		return Credential{}, false
	}

	var cred Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return Credential{}, false
	}
	return cred, !cred.Empty()
}

// Replace overwrites the stored credential.
func (s *KeyringStore) Replace(cred Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := keyring.Set(s.serviceName, credentialKey, string(raw)); err != nil {
		return fmt.Errorf("failed to store credential in keychain: %w", err)
	}
	return nil
}

// Clear removes the stored credential. A missing keychain entry is not an
// error.
func (s *KeyringStore) Clear() error {
	err := keyring.Delete(s.serviceName, credentialKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear credential from keychain: %w", err)
	}
	return nil
}
