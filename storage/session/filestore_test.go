package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presencehq/presence/core/auth"
)

func TestFileStore_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileStore(path)

	_, err := store.Load()
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)

	sess := auth.Session{
		Token: "abc.def.ghi",
		User:  auth.User{ID: "1", Name: "Admin", Email: "admin@test.edu"},
	}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)

	// clearing twice is fine
	assert.NoError(t, store.Clear())
}

func TestFileStore_corruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestFileStore_emptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte(`{"token": ""}`), 0o600))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
}
