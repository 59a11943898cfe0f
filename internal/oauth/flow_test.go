package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notas/internal/credentials"
)

func TestStartBuildsAuthorizationURL(t *testing.T) {
	flow := NewFlow(Config{ClientID: "cid", ClientSecret: "cs"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := flow.Start(ctx)
	require.NoError(t, err)
	defer session.server.Stop()

	parsed, err := url.Parse(session.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, "api.notion.com", parsed.Host)
	assert.Equal(t, "/v1/oauth/authorize", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "cid", query.Get("client_id"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "user", query.Get("owner"))
	assert.Equal(t, DefaultRedirectURI, query.Get("redirect_uri"))

	// The state parameter carries the listener port for the relay.
	state, err := DecodeState(query.Get("state"))
	require.NoError(t, err)
	assert.Equal(t, session.Port(), state.Port)
	assert.GreaterOrEqual(t, session.Port(), portRangeStart)
	assert.Less(t, session.Port(), portRangeStart+portRangeSize)
}

func TestStartRequiresClientCredentials(t *testing.T) {
	ctx := context.Background()

	_, err := NewFlow(Config{ClientSecret: "cs"}).Start(ctx)
	var authErr *credentials.AuthError
	require.ErrorAs(t, err, &authErr)

	_, err = NewFlow(Config{ClientID: "cid"}).Start(ctx)
	require.ErrorAs(t, err, &authErr)
}

func TestExchange(t *testing.T) {
	var gotBody map[string]string
	var gotAuthHeader string
	var gotContentType string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthHeader = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":   "tok",
			"refresh_token":  "ref",
			"token_type":     "bearer",
			"bot_id":         "bot1",
			"workspace_id":   "ws1",
			"workspace_name": "Acme Inc",
			"owner": map[string]any{
				"type": "user",
				"user": map[string]any{"id": "u1", "name": "Ada"},
			},
		})
	}))
	defer ts.Close()

	flow := NewFlow(Config{ClientID: "cid", ClientSecret: "cs", TokenURL: ts.URL})

	token, err := flow.Exchange(context.Background(), "authcode")
	require.NoError(t, err)

	assert.Equal(t, "tok", token.AccessToken)
	assert.Equal(t, "ref", token.RefreshToken)
	assert.Equal(t, "ws1", token.WorkspaceID)
	assert.Equal(t, "Acme Inc", token.WorkspaceName)
	require.NotNil(t, token.Owner)
	assert.Equal(t, "Ada", token.Owner.User.Name)

	// Client authentication is Basic, the body JSON.
	user, pass, ok := parseBasicAuth(t, gotAuthHeader)
	require.True(t, ok)
	assert.Equal(t, "cid", user)
	assert.Equal(t, "cs", pass)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "authorization_code", gotBody["grant_type"])
	assert.Equal(t, "authcode", gotBody["code"])
	assert.Equal(t, DefaultRedirectURI, gotBody["redirect_uri"])
}

func TestExchangeProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "invalid_grant",
			"message": "Code already used",
		})
	}))
	defer ts.Close()

	flow := NewFlow(Config{ClientID: "cid", ClientSecret: "cs", TokenURL: ts.URL})

	_, err := flow.Exchange(context.Background(), "stale")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Contains(t, err.Error(), "Code already used")
}

func TestRefresh(t *testing.T) {
	var gotBody map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "newtok",
			"refresh_token": "newref",
		})
	}))
	defer ts.Close()

	flow := NewFlow(Config{ClientID: "cid", ClientSecret: "cs", TokenURL: ts.URL})

	token, err := flow.Refresh(context.Background(), "oldref")
	require.NoError(t, err)
	assert.Equal(t, "newtok", token.AccessToken)
	assert.Equal(t, "refresh_token", gotBody["grant_type"])
	assert.Equal(t, "oldref", gotBody["refresh_token"])
}

func TestCredentialName(t *testing.T) {
	token := &TokenResponse{WorkspaceID: "ws1", WorkspaceName: "Acme Inc"}

	assert.Equal(t, "custom", CredentialName("custom", "kept", token))
	assert.Equal(t, "kept", CredentialName("", "kept", token))
	assert.Equal(t, "acme-inc", CredentialName("", "", token))
	assert.Equal(t, "ws1", CredentialName("", "", &TokenResponse{WorkspaceID: "ws1"}))
	assert.Equal(t, "default", CredentialName("", "", &TokenResponse{}))
}

func TestMergeRefresh(t *testing.T) {
	cred := &credentials.Credential{
		Name:         "acme",
		Token:        "old",
		RefreshToken: "oldref",
		WorkspaceID:  "ws1",
	}

	MergeRefresh(cred, &TokenResponse{AccessToken: "new", WorkspaceName: "Acme"})

	assert.Equal(t, "acme", cred.Name)
	assert.Equal(t, "new", cred.Token)
	// Absent refresh token keeps the previous one.
	assert.Equal(t, "oldref", cred.RefreshToken)
	assert.Equal(t, "Acme", cred.WorkspaceName)
	assert.Equal(t, credentials.TokenTypeOAuth, cred.TokenType)
}

func parseBasicAuth(t *testing.T, header string) (string, string, bool) {
	t.Helper()
	req := &http.Request{Header: http.Header{"Authorization": []string{header}}}
	return req.BasicAuth()
}
