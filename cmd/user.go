package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"notas/internal/notion"
	"notas/internal/output"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users"},
		Short:   "Inspect workspace users",
	}

	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserGetCmd())
	cmd.AddCommand(newUserMeCmd())

	return cmd
}

func newUserListCmd() *cobra.Command {
	var (
		pg     paginationFlags
		filter string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users in the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			// The user listing always walks the full cursor chain; --filter
			// is applied client-side afterwards.
			results, err := notion.CollectAll(cmd.Context(), func(ctx context.Context, cursor string) (*notion.ListResponse, error) {
				params := pg.params()
				if cursor != "" {
					params.StartCursor = cursor
				}
				return client.Users(ctx, params)
			})
			if err != nil {
				return err
			}

			users := make([]map[string]any, 0, len(results))
			for _, result := range results {
				email := ""
				if person, ok := result["person"].(map[string]any); ok {
					email, _ = person["email"].(string)
				}
				name, _ := result["name"].(string)
				avatar, _ := result["avatar_url"].(string)

				users = append(users, map[string]any{
					"id":     result["id"],
					"name":   name,
					"type":   result["type"],
					"email":  email,
					"avatar": avatar,
				})
			}

			if filter != "" {
				q := strings.ToLower(filter)
				filtered := users[:0]
				for _, user := range users {
					name, _ := user["name"].(string)
					email, _ := user["email"].(string)
					if strings.Contains(strings.ToLower(name), q) || strings.Contains(strings.ToLower(email), q) {
						filtered = append(filtered, user)
					}
				}
				users = filtered
			}

			printResult(users, []output.Column{
				{Key: "id", Label: "ID"},
				{Key: "name", Label: "Name"},
				{Key: "type", Label: "Type"},
				{Key: "email", Label: "Email"},
			})
			return nil
		},
	}

	addPaginationFlags(cmd, &pg)
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Filter users by name or email")

	return cmd
}

func newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a user by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			user, err := client.User(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(user, nil)
				return nil
			}

			name, _ := user["name"].(string)
			avatar, _ := user["avatar_url"].(string)
			record := map[string]any{
				"id":     user["id"],
				"name":   name,
				"type":   user["type"],
				"avatar": avatar,
			}
			if person, ok := user["person"].(map[string]any); ok {
				email, _ := person["email"].(string)
				record["email"] = email
			}
			if bot, ok := user["bot"].(map[string]any); ok {
				record["owner"] = botOwnerType(bot)
				workspace, _ := bot["workspace_name"].(string)
				record["workspace"] = workspace
			}

			printResult(record, nil)
			return nil
		},
	}
}

func newUserMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Get the current bot user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			me, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(me, nil)
				return nil
			}

			name, _ := me["name"].(string)
			avatar, _ := me["avatar_url"].(string)
			owner := ""
			workspace := ""
			if bot, ok := me["bot"].(map[string]any); ok {
				owner = botOwnerType(bot)
				workspace, _ = bot["workspace_name"].(string)
			}

			printResult(map[string]any{
				"id":        me["id"],
				"name":      name,
				"type":      me["type"],
				"avatar":    avatar,
				"owner":     owner,
				"workspace": workspace,
			}, nil)
			return nil
		},
	}
}

func botOwnerType(bot map[string]any) string {
	owner, ok := bot["owner"].(map[string]any)
	if !ok {
		return ""
	}
	ownerType, _ := owner["type"].(string)
	return ownerType
}
