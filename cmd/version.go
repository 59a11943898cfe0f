package cmd

import (
	"github.com/spf13/cobra"

	"notas/internal/notion"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show connection info for the current workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, workspace, err := resolveToken()
			if err != nil {
				return err
			}

			me, err := notion.NewClient(token).Me(cmd.Context())
			if err != nil {
				return err
			}

			name, _ := me["name"].(string)
			owner := ""
			workspaceName := ""
			if bot, ok := me["bot"].(map[string]any); ok {
				owner = botOwnerType(bot)
				workspaceName, _ = bot["workspace_name"].(string)
			}

			printResult(map[string]any{
				"name":      workspace,
				"bot":       name,
				"bot id":    me["id"],
				"type":      me["type"],
				"owner":     owner,
				"workspace": workspaceName,
			}, nil)
			return nil
		},
	}
}
