package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvTokenWins(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(&Credential{Name: "acme", Token: "stored", WorkspaceID: "ws1"}))

	resolver := NewResolver(store, "env-token")

	// The environment token beats stored credentials even when a workspace
	// is requested explicitly.
	token, label, err := resolver.Resolve("acme")
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)
	assert.Equal(t, "env", label)
}

func TestResolveExplicitWorkspace(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(&Credential{Name: "acme", Token: "t1", WorkspaceID: "ws1"}))
	require.NoError(t, store.Put(&Credential{Name: "beta", Token: "t2", WorkspaceID: "ws2"}))

	resolver := NewResolver(store, "")

	token, label, err := resolver.Resolve("ws1")
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
	assert.Equal(t, "acme", label)

	token, label, err = resolver.Resolve("beta")
	require.NoError(t, err)
	assert.Equal(t, "t2", token)
	assert.Equal(t, "beta", label)
}

func TestResolveExplicitWorkspaceMissing(t *testing.T) {
	resolver := NewResolver(NewStore(t.TempDir()), "")

	_, _, err := resolver.Resolve("ghost")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), `"ghost"`)
	assert.Contains(t, err.Error(), "notas auth login")
}

func TestResolveSoleCredential(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(&Credential{Name: "only", Token: "sole"}))

	token, label, err := NewResolver(store, "").Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "sole", token)
	assert.Equal(t, "only", label)
}

func TestResolveNoCredentials(t *testing.T) {
	_, _, err := NewResolver(NewStore(t.TempDir()), "").Resolve("")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "No workspaces configured")
}

func TestResolveAmbiguous(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(&Credential{Name: "acme", Token: "t1", WorkspaceID: "ws1"}))
	require.NoError(t, store.Put(&Credential{Name: "beta", Token: "t2", WorkspaceID: "ws2"}))

	_, _, err := NewResolver(store, "").Resolve("")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, err.Error(), "acme")
	assert.Contains(t, err.Error(), "beta")
	assert.Contains(t, err.Error(), "--workspace")
}
