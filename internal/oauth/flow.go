// Package oauth implements the browser-based authorization flow: a local
// one-shot callback listener on a random high port, a public relay that
// bounces the provider redirect back to localhost using the port encoded in
// the state parameter, and the JSON token exchange.
package oauth

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/oauth2"

	"notas/internal/credentials"
	"notas/pkg/logging"
)

// Default endpoints and flow parameters.
const (
	DefaultAuthorizeURL = "https://api.notion.com/v1/oauth/authorize"
	DefaultTokenURL     = "https://api.notion.com/v1/oauth/token"

	// DefaultRedirectURI is the public relay that forwards the provider
	// redirect to the local callback listener.
	DefaultRedirectURI = "https://notas.circles.ac/callback"

	// DefaultTimeout bounds how long the flow waits for the user to finish
	// authorizing in the browser.
	DefaultTimeout = 2 * time.Minute
)

// Local callback ports are drawn from the dynamic range.
const (
	portRangeStart = 49152
	portRangeSize  = 16384
)

// Config configures an authorization flow.
type Config struct {
	ClientID     string
	ClientSecret string

	// RedirectURI defaults to the public relay.
	RedirectURI string

	// AuthorizeURL and TokenURL default to the provider endpoints.
	AuthorizeURL string
	TokenURL     string

	// Timeout bounds the wait for the browser callback.
	Timeout time.Duration

	// HTTPClient is used for the token exchange.
	HTTPClient *http.Client
}

// Flow runs the authorization-code flow for one login attempt.
type Flow struct {
	cfg Config
}

// NewFlow creates a flow, filling unset config fields with defaults.
func NewFlow(cfg Config) *Flow {
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = DefaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Flow{cfg: cfg}
}

// Session is one in-flight authorization attempt: a running local listener
// plus the URL the user must visit.
type Session struct {
	// AuthURL is the provider authorization URL to open in the browser.
	AuthURL string

	flow   *Flow
	state  *State
	server *CallbackServer
}

// Start picks a random local port, starts the callback listener, and builds
// the authorization URL carrying the port in the state parameter.
func (f *Flow) Start(ctx context.Context) (*Session, error) {
	if f.cfg.ClientID == "" {
		return nil, credentials.NewAuthError("OAuth client id not configured. Pass --client-id or set NOTION_CLIENT_ID")
	}
	if f.cfg.ClientSecret == "" {
		return nil, credentials.NewAuthError("OAuth client secret not configured. Pass --client-secret or set NOTION_CLIENT_SECRET")
	}

	server := NewCallbackServer(randomPort())
	if err := server.Start(ctx); err != nil {
		// The randomly chosen port may be taken; try once more.
		server = NewCallbackServer(randomPort())
		if err := server.Start(ctx); err != nil {
			return nil, err
		}
	}

	state := NewState(server.Port())

	oc := oauth2.Config{
		ClientID:    f.cfg.ClientID,
		Endpoint:    oauth2.Endpoint{AuthURL: f.cfg.AuthorizeURL},
		RedirectURL: f.cfg.RedirectURI,
	}
	authURL := oc.AuthCodeURL(state.Encode(), oauth2.SetAuthURLParam("owner", "user"))

	logging.Debug("oauth", "callback listener on port %d", server.Port())

	return &Session{
		AuthURL: authURL,
		flow:    f,
		state:   state,
		server:  server,
	}, nil
}

// Port returns the local callback port for this session.
func (s *Session) Port() int {
	return s.server.Port()
}

// Wait blocks until the browser callback delivers an authorization code or
// the flow times out. The returned error distinguishes user denial, a
// malformed callback, and timeout.
func (s *Session) Wait(ctx context.Context) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.flow.cfg.Timeout)
	defer cancel()
	defer s.server.Stop()

	result, err := s.server.WaitForCallback(waitCtx)
	if err != nil {
		if waitCtx.Err() != nil {
			return "", fmt.Errorf("timed out waiting for authorization after %s", s.flow.cfg.Timeout)
		}
		return "", err
	}

	if result.IsError() {
		if result.ErrorDescription != "" {
			return "", credentials.NewAuthError("Authorization failed: %s (%s)", result.Error, result.ErrorDescription)
		}
		return "", credentials.NewAuthError("Authorization failed: %s", result.Error)
	}

	if result.Code == "" {
		return "", fmt.Errorf("callback did not include an authorization code")
	}

	if result.State != "" {
		got, err := DecodeState(result.State)
		if err != nil {
			return "", err
		}
		if got.Nonce != s.state.Nonce {
			return "", fmt.Errorf("state parameter does not match this login attempt")
		}
	}

	return result.Code, nil
}

// CredentialName decides the stored name for a freshly obtained credential:
// an explicit override wins, then the name already used for the same
// workspace, then a slug of the workspace name, then the workspace id.
func CredentialName(override, existingName string, token *TokenResponse) string {
	if override != "" {
		return override
	}
	if existingName != "" {
		return existingName
	}
	if token.WorkspaceName != "" {
		return slug.Make(token.WorkspaceName)
	}
	if token.WorkspaceID != "" {
		return token.WorkspaceID
	}
	return "default"
}

// MergeRefresh applies a refresh response onto an existing credential,
// keeping the stored name.
func MergeRefresh(cred *credentials.Credential, token *TokenResponse) {
	cred.Token = token.AccessToken
	if token.RefreshToken != "" {
		cred.RefreshToken = token.RefreshToken
	}
	if token.WorkspaceID != "" {
		cred.WorkspaceID = token.WorkspaceID
	}
	if token.WorkspaceName != "" {
		cred.WorkspaceName = token.WorkspaceName
	}
	if token.BotID != "" {
		cred.BotID = token.BotID
	}
	cred.TokenType = credentials.TokenTypeOAuth
}

func randomPort() int {
	return portRangeStart + rand.Intn(portRangeSize)
}
