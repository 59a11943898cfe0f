// Package credentials persists per-workspace integration credentials as one
// JSON file each under the user's config directory and resolves which
// credential a command should use.
//
// Files are created with 0600 permissions and the directory with 0700; token
// values are never logged.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"notas/pkg/logging"
)

// Token types for stored credentials.
const (
	TokenTypeOAuth    = "oauth"
	TokenTypeInternal = "internal"
)

// Credential is one stored workspace identity.
type Credential struct {
	// Name is the human label, unique among stored credentials. It doubles
	// as the storage key when no workspace id exists.
	Name string `json:"name"`

	// Token is the bearer secret presented on each API call.
	Token string `json:"token"`

	// RefreshToken is present only for OAuth-obtained credentials.
	RefreshToken string `json:"refreshToken,omitempty"`

	// WorkspaceID is the provider-assigned workspace identifier. When
	// present it is the preferred storage key.
	WorkspaceID string `json:"workspaceId,omitempty"`

	// WorkspaceName is the provider-supplied display label.
	WorkspaceName string `json:"workspaceName,omitempty"`

	// BotID identifies the integration's bot user.
	BotID string `json:"botId,omitempty"`

	// TokenType is "oauth" or "internal".
	TokenType string `json:"tokenType,omitempty"`
}

// StorageKey computes the on-disk identity of the credential:
// workspaceId when present, else name.
func (c *Credential) StorageKey() string {
	if c.WorkspaceID != "" {
		return c.WorkspaceID
	}
	return c.Name
}

// Store reads and writes credential files under a single directory.
// It does not guard against concurrent external writers; the last writer
// wins.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// the first Put.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes or overwrites the record at the credential's storage key.
func (s *Store) Put(cred *Credential) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	data = append(data, '\n')

	path := s.filePath(cred.StorageKey())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	logging.Debug("credentials", "stored credential name=%s key=%s", cred.Name, cred.StorageKey())
	return nil
}

// List returns all stored credentials. Any read failure degrades to an
// empty list; the caller never sees an error from enumeration.
func (s *Store) List() []*Credential {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var creds []*Credential
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil
		}

		var cred Credential
		if err := json.Unmarshal(data, &cred); err != nil {
			return nil
		}
		creds = append(creds, &cred)
	}

	return creds
}

// Find returns the credential matching nameOrID by name or workspace id,
// or nil when absent.
func (s *Store) Find(nameOrID string) *Credential {
	for _, cred := range s.List() {
		if cred.Name == nameOrID || (cred.WorkspaceID != "" && cred.WorkspaceID == nameOrID) {
			return cred
		}
	}
	return nil
}

// Rename changes a credential's display name. When the credential has a
// workspace id the storage key is unchanged and only the name field moves;
// otherwise the record migrates to a file named after the new name and the
// old file is removed.
func (s *Store) Rename(oldName, newName string) error {
	cred := s.Find(oldName)
	if cred == nil {
		return NewAuthError("Workspace %q not found", oldName)
	}

	oldKey := cred.StorageKey()
	cred.Name = newName

	if err := s.Put(cred); err != nil {
		return err
	}

	if newKey := cred.StorageKey(); newKey != oldKey {
		if err := os.Remove(s.filePath(oldKey)); err != nil && !os.IsNotExist(err) {
			logging.Warn("credentials", "failed to remove old credential file for %q: %v", oldKey, err)
		}
	}

	return nil
}

// Remove deletes the credential matching nameOrID. It reports whether a
// record was removed; a failed delete is reported as false, not an error.
func (s *Store) Remove(nameOrID string) bool {
	cred := s.Find(nameOrID)
	if cred == nil {
		return false
	}

	if err := os.Remove(s.filePath(cred.StorageKey())); err != nil {
		logging.Warn("credentials", "failed to remove credential %q: %v", cred.Name, err)
		return false
	}
	return true
}

// Names returns the display names of all stored credentials, in stored
// (directory) order.
func (s *Store) Names() []string {
	var names []string
	for _, cred := range s.List() {
		names = append(names, cred.Name)
	}
	return names
}

func (s *Store) filePath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// joinNames renders a name list for error messages.
func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
