package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"notas/internal/notion"
	"notas/internal/output"
)

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status for all workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspaces := credStore.List()
			if len(workspaces) == 0 {
				fmt.Println("No workspaces configured. Run: notas auth login")
				return nil
			}

			var results []map[string]any
			for _, ws := range workspaces {
				tokenType := ws.TokenType
				if tokenType == "" {
					tokenType = "internal"
				}
				workspaceName := ws.WorkspaceName
				if workspaceName == "" {
					workspaceName = "-"
				}

				row := map[string]any{
					"name":      ws.Name,
					"auth":      tokenType,
					"workspace": workspaceName,
				}

				me, err := notion.NewClient(ws.Token).Me(cmd.Context())
				if err != nil {
					row["status"] = "error"
					row["bot"] = "-"
				} else {
					row["status"] = "connected"
					bot, _ := me["name"].(string)
					if bot == "" {
						bot, _ = me["id"].(string)
					}
					row["bot"] = bot
				}
				results = append(results, row)
			}

			printResult(results, []output.Column{
				{Key: "name", Label: "Workspace"},
				{Key: "status", Label: "Status"},
				{Key: "bot", Label: "Bot Name"},
				{Key: "auth", Label: "Auth"},
				{Key: "workspace", Label: "Workspace"},
			})
			return nil
		},
	}
}
