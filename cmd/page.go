package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"notas/internal/notion"
	"notas/internal/output"
)

func newPageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Manage Notion pages",
	}

	cmd.AddCommand(newPageGetCmd())
	cmd.AddCommand(newPageCreateCmd())
	cmd.AddCommand(newPageUpdateCmd())
	cmd.AddCommand(newPageArchiveCmd())
	cmd.AddCommand(newPageRestoreCmd())

	return cmd
}

func newPageGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a page and its properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			page, err := client.Page(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(page, nil)
				return nil
			}

			properties, _ := page["properties"].(map[string]any)
			record := map[string]any{
				"id":       page["id"],
				"title":    notion.ExtractTitle(properties),
				"archived": page["archived"],
				"created":  page["created_time"],
				"edited":   page["last_edited_time"],
				"parent":   describeParent(page["parent"]),
				"url":      page["url"],
			}
			for name, value := range notion.FlattenProperties(properties) {
				if _, taken := record[name]; !taken {
					record[name] = value
				}
			}

			printResult(record, nil)
			return nil
		},
	}
}

func newPageCreateCmd() *cobra.Command {
	var (
		parentType string
		title      string
		icon       string
		cover      string
		properties string
		content    string
		stdio      bool
	)

	cmd := &cobra.Command{
		Use:   "create <parent>",
		Short: "Create a new page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdio && content != "" {
				return fmt.Errorf("cannot use both --stdio and --content")
			}
			if stdio {
				var err error
				if content, err = readStdin(); err != nil {
					return err
				}
			}

			client, err := apiClient()
			if err != nil {
				return err
			}

			body := map[string]any{}
			if parentType == "database" {
				body["parent"] = map[string]any{"type": "database_id", "database_id": args[0]}

				props := map[string]any{}
				if properties != "" {
					if err := parseJSONArg("properties", properties, &props); err != nil {
						return err
					}
				}
				props["Name"] = map[string]any{"title": richTextContent(title)}
				body["properties"] = props
			} else {
				body["parent"] = map[string]any{"type": "page_id", "page_id": args[0]}
				body["properties"] = map[string]any{
					"title": map[string]any{"title": richTextContent(title)},
				}
			}

			if icon != "" {
				body["icon"] = map[string]any{"type": "emoji", "emoji": icon}
			}
			if cover != "" {
				body["cover"] = map[string]any{"type": "external", "external": map[string]any{"url": cover}}
			}
			if content != "" {
				body["children"] = []any{
					map[string]any{
						"object": "block",
						"type":   "paragraph",
						"paragraph": map[string]any{
							"rich_text": richTextContent(content),
						},
					},
				}
			}

			page, err := client.CreatePage(cmd.Context(), body)
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(page, nil)
				return nil
			}

			successf("Page created: %v", page["id"])
			if url, ok := page["url"].(string); ok && url != "" {
				fmt.Printf("  URL: %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&parentType, "parent-type", "page", "Parent type: page or database")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().StringVar(&icon, "icon", "", "Page icon emoji")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image URL")
	cmd.Flags().StringVar(&properties, "properties", "", "Additional properties as JSON (for database pages)")
	cmd.Flags().StringVar(&content, "content", "", "Page body content as plain text (creates a paragraph block)")
	cmd.Flags().BoolVar(&stdio, "stdio", false, "Read content from stdin")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newPageUpdateCmd() *cobra.Command {
	var (
		title      string
		icon       string
		cover      string
		properties string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update page properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			props := map[string]any{}
			if properties != "" {
				if err := parseJSONArg("properties", properties, &props); err != nil {
					return err
				}
			}
			if title != "" {
				props["title"] = map[string]any{"title": richTextContent(title)}
			}

			body := map[string]any{}
			if len(props) > 0 {
				body["properties"] = props
			}
			if icon != "" {
				body["icon"] = map[string]any{"type": "emoji", "emoji": icon}
			}
			if cover != "" {
				body["cover"] = map[string]any{"type": "external", "external": map[string]any{"url": cover}}
			}

			page, err := client.UpdatePage(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(page, nil)
				return nil
			}

			successf("Page updated: %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New page title")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon emoji")
	cmd.Flags().StringVar(&cover, "cover", "", "New cover image URL")
	cmd.Flags().StringVar(&properties, "properties", "", "Properties to update as JSON")

	return cmd
}

func newPageArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive (soft-delete) a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			if _, err := client.UpdatePage(cmd.Context(), args[0], map[string]any{"archived": true}); err != nil {
				return err
			}
			successf("Page archived: %s", args[0])
			return nil
		},
	}
}

func newPageRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore an archived page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			if _, err := client.UpdatePage(cmd.Context(), args[0], map[string]any{"archived": false}); err != nil {
				return err
			}
			successf("Page restored: %s", args[0])
			return nil
		},
	}
}

// richTextContent wraps plain text as a single rich text run.
func richTextContent(content string) []any {
	return []any{
		map[string]any{"type": "text", "text": map[string]any{"content": content}},
	}
}

// describeParent renders a parent reference as "type: id".
func describeParent(parent any) string {
	p, ok := parent.(map[string]any)
	if !ok {
		return ""
	}
	tag, _ := p["type"].(string)
	value := p[tag]
	if value == nil {
		value = ""
	}
	return fmt.Sprintf("%s: %v", tag, value)
}
