package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path, "test-passphrase")
	require.NoError(t, err)

	_, err = store.Get(TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(TokenKey, "secret-token"))

	value, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", value)

	_, ok := store.UpdatedAt(TokenKey)
	assert.True(t, ok)
}

func TestFileStore_EncryptsAtRest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path, "test-passphrase")
	require.NoError(t, err)
	require.NoError(t, store.Put(TokenKey, "very-secret-token"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "very-secret-token")
	assert.True(t, strings.Contains(string(data), TokenKey))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")

	store, err := NewFileStore(path, "test-passphrase")
	require.NoError(t, err)
	require.NoError(t, store.Put(TokenKey, "persisted"))

	reopened, err := NewFileStore(path, "test-passphrase")
	require.NoError(t, err)
	value, err := reopened.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "persisted", value)
}

func TestFileStore_WrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path, "right")
	require.NoError(t, err)
	require.NoError(t, store.Put(TokenKey, "persisted"))

	other, err := NewFileStore(path, "wrong")
	require.NoError(t, err)
	_, err = other.Get(TokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store, err := NewFileStore(path, "test-passphrase")
	require.NoError(t, err)
	require.NoError(t, store.Put(TokenKey, "tok"))

	require.NoError(t, store.Delete(TokenKey))
	require.NoError(t, store.Delete(TokenKey))

	_, err = store.Get(TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_Errors(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "c.json"), "")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = NewFileStore(path, "p")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"version":9,"salt":"AAAA","entries":{}}`), 0o600))
	_, err = NewFileStore(path, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestSession_WithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path, "test-passphrase")
	require.NoError(t, err)

	s := New(store, nil)
	require.NoError(t, s.SetToken("abc"))

	restarted, err := NewFileStore(path, "test-passphrase")
	require.NoError(t, err)
	token, ok := New(restarted, nil).Token()
	require.True(t, ok)
	assert.Equal(t, "abc", token)
}
