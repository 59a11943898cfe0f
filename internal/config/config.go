// Package config loads the process-wide configuration exactly once at
// startup. Credential resolution and the OAuth flow receive the resulting
// Config value instead of reading the environment at call sites.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the CLI.
const (
	EnvToken        = "NOTION_TOKEN"
	EnvClientID     = "NOTION_CLIENT_ID"
	EnvClientSecret = "NOTION_CLIENT_SECRET"
	EnvNoColor      = "NO_COLOR"
)

// Config carries every externally sourced setting. Environment variables
// take precedence over the config file.
type Config struct {
	// Token, when set, bypasses the credential store entirely.
	Token string

	// ClientID and ClientSecret are the OAuth client credentials used for
	// login and refresh when not passed explicitly.
	ClientID     string
	ClientSecret string

	// Workspace is the default workspace name, used when --workspace is
	// not given.
	Workspace string

	// OutputFormat is the default output format ("table", "json", "plain").
	OutputFormat string

	// NoColor disables ANSI styling.
	NoColor bool
}

// fileConfig is the on-disk shape of ~/.config/notas/config.yaml.
type fileConfig struct {
	OutputFormat string `yaml:"outputFormat"`
	Workspace    string `yaml:"workspace"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "notas"), nil
}

// CredentialsDir returns the directory holding per-workspace credential files.
func CredentialsDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials"), nil
}

// Load reads the config file (if present) and the environment.
// A missing config file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := &Config{}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.OutputFormat = fc.OutputFormat
		cfg.Workspace = fc.Workspace
		cfg.ClientID = fc.ClientID
		cfg.ClientSecret = fc.ClientSecret
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvClientID); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		cfg.ClientSecret = v
	}
	if os.Getenv(EnvNoColor) != "" {
		cfg.NoColor = true
	}

	return cfg, nil
}
