package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"notas/pkg/logging"
)

// TokenResponse is the token endpoint payload. Notion returns workspace
// metadata alongside the token, and signals failures with an error field in
// the JSON body rather than an OAuth error document.
type TokenResponse struct {
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	TokenType     string `json:"token_type"`
	BotID         string `json:"bot_id"`
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
	WorkspaceIcon string `json:"workspace_icon"`
	Owner         *Owner `json:"owner"`

	// Error fields populated on failure.
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Owner describes who authorized the integration.
type Owner struct {
	Type string     `json:"type"`
	User *OwnerUser `json:"user"`
}

// OwnerUser is the authorizing user, present when owner type is "user".
type OwnerUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Exchange trades an authorization code for an access token.
func (f *Flow) Exchange(ctx context.Context, code string) (*TokenResponse, error) {
	return f.doTokenRequest(ctx, map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": f.cfg.RedirectURI,
	})
}

// Refresh obtains a new access token from a refresh token.
func (f *Flow) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return f.doTokenRequest(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	})
}

// doTokenRequest performs a token endpoint request. The endpoint expects a
// JSON body and HTTP Basic client authentication, not form encoding.
func (f *Flow) doTokenRequest(ctx context.Context, params map[string]string) (*TokenResponse, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(f.cfg.ClientID, f.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		logging.Debug("oauth", "unparseable token response status=%d body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	if token.Error != "" {
		if token.Message != "" {
			return nil, fmt.Errorf("token request failed: %s: %s", token.Error, token.Message)
		}
		return nil, fmt.Errorf("token request failed: %s", token.Error)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	return &token, nil
}
