package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"notas/internal/credentials"
	"notas/internal/oauth"
)

func newAuthRefreshCmd() *cobra.Command {
	var (
		name         string
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh an OAuth token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := refreshTarget(name)
			if err != nil {
				return err
			}

			if cred.TokenType != credentials.TokenTypeOAuth {
				return credentials.NewAuthError("Workspace %q uses an internal token, not OAuth. No refresh needed", cred.Name)
			}
			if cred.RefreshToken == "" {
				return credentials.NewAuthError("Workspace %q has no refresh token stored", cred.Name)
			}

			if clientID == "" {
				clientID = runtimeCfg.ClientID
			}
			if clientSecret == "" {
				clientSecret = runtimeCfg.ClientSecret
			}
			if clientID == "" || clientSecret == "" {
				return credentials.NewAuthError(
					"OAuth client ID and secret required. Use --client-id/--client-secret or set NOTION_CLIENT_ID/NOTION_CLIENT_SECRET")
			}

			flow := oauth.NewFlow(oauth.Config{ClientID: clientID, ClientSecret: clientSecret})

			tokenResp, err := flow.Refresh(cmd.Context(), cred.RefreshToken)
			if err != nil {
				return err
			}

			oauth.MergeRefresh(cred, tokenResp)
			if err := credStore.Put(cred); err != nil {
				return err
			}

			successf("Token refreshed for %q", cred.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Workspace name to refresh")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID (or set NOTION_CLIENT_ID)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret (or set NOTION_CLIENT_SECRET)")

	return cmd
}

// refreshTarget picks which credential to refresh: the named one, or the
// sole stored OAuth credential.
func refreshTarget(name string) (*credentials.Credential, error) {
	if name != "" {
		if cred := credStore.Find(name); cred != nil {
			return cred, nil
		}
		return nil, credentials.NewAuthError("Workspace %q not found", name)
	}

	var oauthCreds []*credentials.Credential
	for _, cred := range credStore.List() {
		if cred.TokenType == credentials.TokenTypeOAuth {
			oauthCreds = append(oauthCreds, cred)
		}
	}

	switch len(oauthCreds) {
	case 0:
		return nil, credentials.NewAuthError("No OAuth workspaces found. Run: notas auth login")
	case 1:
		return oauthCreds[0], nil
	default:
		names := make([]string, 0, len(oauthCreds))
		for _, cred := range oauthCreds {
			names = append(names, cred.Name)
		}
		return nil, credentials.NewAuthError("Multiple OAuth workspaces found. Use --name to specify: %s", strings.Join(names, ", "))
	}
}
