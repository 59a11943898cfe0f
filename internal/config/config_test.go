package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvToken, "")
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvNoColor, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Token)
	assert.Empty(t, cfg.ClientID)
	assert.Empty(t, cfg.Workspace)
	assert.Empty(t, cfg.OutputFormat)
	assert.False(t, cfg.NoColor)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvToken, "ntn_abc")
	t.Setenv(EnvClientID, "client-1")
	t.Setenv(EnvClientSecret, "secret-1")
	t.Setenv(EnvNoColor, "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ntn_abc", cfg.Token)
	assert.Equal(t, "client-1", cfg.ClientID)
	assert.Equal(t, "secret-1", cfg.ClientSecret)
	assert.True(t, cfg.NoColor)
}

func TestLoad_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvToken, "")
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvNoColor, "")

	dir := filepath.Join(home, ".config", "notas")
	require.NoError(t, os.MkdirAll(dir, 0o700))

	content := "outputFormat: plain\nworkspace: acme\nclientId: file-client\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "plain", cfg.OutputFormat)
	assert.Equal(t, "acme", cfg.Workspace)
	assert.Equal(t, "file-client", cfg.ClientID)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvClientID, "env-client")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvNoColor, "")

	dir := filepath.Join(home, ".config", "notas")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("clientId: file-client\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env-client", cfg.ClientID)
}

func TestLoad_MalformedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "notas")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("outputFormat: [unclosed"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}
