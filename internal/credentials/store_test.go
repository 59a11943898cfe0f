package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutAndFind(t *testing.T) {
	store := NewStore(t.TempDir())

	cred := &Credential{
		Name:          "acme",
		Token:         "secret-token",
		WorkspaceID:   "ws1",
		WorkspaceName: "Acme Inc",
		TokenType:     TokenTypeOAuth,
	}
	require.NoError(t, store.Put(cred))

	// Keyed by workspace id, not name.
	path := filepath.Join(store.Dir(), "ws1.json")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	byName := store.Find("acme")
	require.NotNil(t, byName)
	assert.Equal(t, "secret-token", byName.Token)

	byID := store.Find("ws1")
	require.NotNil(t, byID)
	assert.Equal(t, "acme", byID.Name)
}

func TestStoreKeyFallsBackToName(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Put(&Credential{Name: "manual", Token: "t"}))

	_, err := os.Stat(filepath.Join(store.Dir(), "manual.json"))
	assert.NoError(t, err)
}

func TestStoreListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))

	assert.Empty(t, store.List())
}

func TestStoreListCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Put(&Credential{Name: "ok", Token: "t"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o600))

	// Enumeration degrades to empty rather than returning partial results.
	assert.Empty(t, store.List())
}

func TestStoreRenameKeepsWorkspaceKey(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(&Credential{Name: "old", Token: "t", WorkspaceID: "ws1"}))

	require.NoError(t, store.Rename("old", "new"))

	cred := store.Find("new")
	require.NotNil(t, cred)
	assert.Equal(t, "ws1", cred.WorkspaceID)
	assert.Nil(t, store.Find("old"))

	// Still a single file under the workspace id.
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "ws1.json", entries[0].Name())
}

func TestStoreRenameMovesNameKeyedFile(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(&Credential{Name: "old", Token: "t"}))

	require.NoError(t, store.Rename("old", "new"))

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new.json", entries[0].Name())
}

func TestStoreRenameMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	err := store.Rename("ghost", "new")
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestStoreRemove(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(&Credential{Name: "gone", Token: "t"}))

	assert.True(t, store.Remove("gone"))
	assert.Nil(t, store.Find("gone"))

	// Removing again, or removing something that never existed, is not an
	// error but reports false.
	assert.False(t, store.Remove("gone"))
	assert.False(t, store.Remove("never-there"))
}
