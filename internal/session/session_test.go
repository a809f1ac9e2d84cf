package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreEmptyByDefault(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Current()
	assert.False(t, ok)
}

func TestMemoryStoreReplaceAndClear(t *testing.T) {
	store := NewMemoryStore()

	cred := Credential{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Replace(cred))

	got, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "refresh-1", got.RefreshToken)

	require.NoError(t, store.Clear())
	_, ok = store.Current()
	assert.False(t, ok)
}

func TestMemoryStoreReplaceOverwrites(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Replace(Credential{AccessToken: "old"}))
	require.NoError(t, store.Replace(Credential{AccessToken: "new"}))

	got, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "new", got.AccessToken)
}

func TestCredentialEmpty(t *testing.T) {
	assert.True(t, Credential{}.Empty())
	assert.True(t, Credential{RefreshToken: "r"}.Empty())
	assert.False(t, Credential{AccessToken: "a"}.Empty())
}
