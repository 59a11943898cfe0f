package oauth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// State is the OAuth state parameter payload. It travels through the
// authorization redirect as base64-encoded JSON so the public relay can
// recover the local callback port without any server-side session.
type State struct {
	// Port is the local callback listener port the relay redirects to.
	Port int `json:"p"`

	// Nonce ties the callback to the originating login attempt.
	Nonce string `json:"n,omitempty"`
}

// NewState creates a state payload for the given local port with a fresh
// random nonce.
func NewState(port int) *State {
	return &State{
		Port:  port,
		Nonce: uuid.NewString(),
	}
}

// Encode serializes the state as base64(JSON) for the authorization URL.
func (s *State) Encode() string {
	data, _ := json.Marshal(s)
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeState parses an encoded state parameter back into its payload.
func DecodeState(encoded string) (*State, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode state parameter: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state parameter: %w", err)
	}

	return &state, nil
}
