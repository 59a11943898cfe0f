package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"notas/internal/credentials"
	"notas/internal/notion"
	"notas/internal/oauth"
)

func newAuthLoginCmd() *cobra.Command {
	var (
		token        string
		name         string
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Notion (OAuth or token)",
		Long: `Authenticate with Notion. With --token a manually created integration
token is verified and stored. Without it the browser-based OAuth flow runs:
a local callback listener is started on a random port and the authorization
redirect is relayed back to it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token != "" {
				return loginWithToken(cmd, token, name)
			}
			return loginWithOAuth(cmd, clientID, clientSecret, name)
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "Notion token (ntn_... or secret_...) for manual auth")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Name for this workspace")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID (or set NOTION_CLIENT_ID)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth client secret (or set NOTION_CLIENT_SECRET)")

	return cmd
}

// loginWithToken verifies a manual integration token against users/me and
// stores it.
func loginWithToken(cmd *cobra.Command, token, name string) error {
	if name == "" {
		name = "default"
	}

	client := notion.NewClient(token)
	me, err := client.Me(cmd.Context())
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	cred := &credentials.Credential{
		Name:      name,
		Token:     token,
		TokenType: credentials.TokenTypeInternal,
	}
	if err := credStore.Put(cred); err != nil {
		return err
	}

	bot, _ := me["name"].(string)
	if bot == "" {
		bot, _ = me["id"].(string)
	}
	successf("Logged in as %s (workspace: %s)", bot, name)
	return nil
}

// loginWithOAuth runs the browser authorization flow and stores the
// resulting credential.
func loginWithOAuth(cmd *cobra.Command, clientID, clientSecret, nameOverride string) error {
	if clientID == "" {
		clientID = runtimeCfg.ClientID
	}
	if clientSecret == "" {
		clientSecret = runtimeCfg.ClientSecret
	}

	flow := oauth.NewFlow(oauth.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})

	session, err := flow.Start(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println("Opening browser for Notion authorization...")
	fmt.Println(session.AuthURL)
	fmt.Println()

	if err := oauth.OpenBrowser(session.AuthURL); err != nil {
		fmt.Fprintf(os.Stderr, "Could not open a browser, visit the URL above manually.\n")
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = fmt.Sprintf(" Waiting for callback on http://localhost:%d/callback...", session.Port())
	sp.Start()

	code, err := session.Wait(cmd.Context())
	sp.Stop()
	if err != nil {
		return err
	}

	fmt.Println("Exchanging code for tokens...")

	tokenResp, err := flow.Exchange(cmd.Context(), code)
	if err != nil {
		return err
	}

	var existingName string
	if tokenResp.WorkspaceID != "" {
		if existing := credStore.Find(tokenResp.WorkspaceID); existing != nil {
			existingName = existing.Name
		}
	}
	name := oauth.CredentialName(nameOverride, existingName, tokenResp)

	cred := &credentials.Credential{
		Name:          name,
		Token:         tokenResp.AccessToken,
		RefreshToken:  tokenResp.RefreshToken,
		WorkspaceID:   tokenResp.WorkspaceID,
		WorkspaceName: tokenResp.WorkspaceName,
		BotID:         tokenResp.BotID,
		TokenType:     credentials.TokenTypeOAuth,
	}
	if err := credStore.Put(cred); err != nil {
		return err
	}

	workspaceLabel := tokenResp.WorkspaceName
	if workspaceLabel == "" {
		workspaceLabel = name
	}
	successf("Authorized! Token saved as %q (workspace: %q)", name, workspaceLabel)
	if tokenResp.Owner != nil && tokenResp.Owner.User != nil && tokenResp.Owner.User.Name != "" {
		fmt.Printf("  Owner: %s\n", tokenResp.Owner.User.Name)
	}
	return nil
}
