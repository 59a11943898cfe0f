package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"notas/internal/notion"
	"notas/internal/output"
)

func newDatabaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "db",
		Aliases: []string{"databases"},
		Short:   "Manage Notion databases",
	}

	cmd.AddCommand(newDBListCmd())
	cmd.AddCommand(newDBGetCmd())
	cmd.AddCommand(newDBCreateCmd())
	cmd.AddCommand(newDBUpdateCmd())
	cmd.AddCommand(newDBQueryCmd())
	cmd.AddCommand(newDBDeleteCmd())

	return cmd
}

func newDBListCmd() *cobra.Command {
	var pg paginationFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all databases shared with the integration",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			fetch := func(ctx context.Context, cursor string) (*notion.ListResponse, error) {
				body := map[string]any{
					"filter": map[string]any{"property": "object", "value": "data_source"},
				}
				params := pg.params()
				if cursor != "" {
					params.StartCursor = cursor
				}
				params.ApplyToBody(body)
				return client.Search(ctx, body)
			}

			results, err := collectPages(cmd.Context(), &pg, fetch)
			if err != nil {
				return err
			}

			databases := make([]map[string]any, 0, len(results))
			for _, result := range results {
				databases = append(databases, map[string]any{
					"id":      result["id"],
					"type":    result["object"],
					"title":   joinTitle(result["title"]),
					"created": result["created_time"],
					"edited":  result["last_edited_time"],
				})
			}

			printResult(databases, []output.Column{
				{Key: "id", Label: "ID"},
				{Key: "title", Label: "Title"},
				{Key: "type", Label: "Type"},
				{Key: "edited", Label: "Last Edited"},
			})
			return nil
		},
	}

	addPaginationFlags(cmd, &pg)
	return cmd
}

func newDBGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get database details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			db, err := client.Database(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(db, nil)
				return nil
			}

			inline := db["is_inline"]
			if inline == nil {
				inline = false
			}
			printResult(map[string]any{
				"id":          db["id"],
				"title":       joinTitle(db["title"]),
				"description": joinTitle(db["description"]),
				"created":     db["created_time"],
				"edited":      db["last_edited_time"],
				"inline":      inline,
				"url":         db["url"],
			}, nil)
			return nil
		},
	}
}

func newDBCreateCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create <parent>",
		Short: "Create a new database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			db, err := client.CreateDatabase(cmd.Context(), map[string]any{
				"parent": map[string]any{"type": "page_id", "page_id": args[0]},
				"title":  richTextContent(title),
			})
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(db, nil)
				return nil
			}

			successf("Database created: %v", db["id"])
			if url, ok := db["url"].(string); ok && url != "" {
				fmt.Printf("  URL: %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Database title")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newDBUpdateCmd() *cobra.Command {
	var (
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a database title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			body := map[string]any{}
			if title != "" {
				body["title"] = richTextContent(title)
			}
			if description != "" {
				body["description"] = richTextContent(description)
			}

			db, err := client.UpdateDatabase(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(db, nil)
				return nil
			}

			successf("Database updated: %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New database title")
	cmd.Flags().StringVar(&description, "description", "", "New database description")

	return cmd
}

func newDBQueryCmd() *cobra.Command {
	var (
		pg      paginationFlags
		filter  string
		sort    string
		columns string
	)

	cmd := &cobra.Command{
		Use:   "query <id>",
		Short: "Query a database with optional filters and sorts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			var filterObj map[string]any
			if filter != "" {
				if err := parseJSONArg("filter", filter, &filterObj); err != nil {
					return err
				}
			}
			var sorts []any
			if sort != "" {
				if err := parseJSONArg("sort", sort, &sorts); err != nil {
					return err
				}
			}

			fetch := func(ctx context.Context, cursor string) (*notion.ListResponse, error) {
				body := map[string]any{}
				if filterObj != nil {
					body["filter"] = filterObj
				}
				if sorts != nil {
					body["sorts"] = sorts
				}
				params := pg.params()
				if cursor != "" {
					params.StartCursor = cursor
				}
				params.ApplyToBody(body)
				return client.QueryDatabase(ctx, args[0], body)
			}

			results, err := collectPages(cmd.Context(), &pg, fetch)
			if err != nil {
				return err
			}

			pages := make([]map[string]any, 0, len(results))
			for _, result := range results {
				properties, _ := result["properties"].(map[string]any)
				record := map[string]any{"id": result["id"]}
				for name, value := range notion.FlattenProperties(properties) {
					if _, taken := record[name]; !taken {
						record[name] = value
					}
				}
				if url, ok := result["url"]; ok {
					record["url"] = url
				} else {
					record["url"] = ""
				}
				pages = append(pages, record)
			}

			if outputFormat() == output.FormatJSON {
				printResult(pages, nil)
				return nil
			}

			printResult(pages, queryColumns(pages, columns))
			return nil
		},
	}

	addPaginationFlags(cmd, &pg)
	cmd.Flags().StringVar(&filter, "filter", "", "Filter as JSON (Notion filter object)")
	cmd.Flags().StringVar(&sort, "sort", "", `Sort as JSON array (e.g. '[{"property":"Name","direction":"ascending"}]')`)
	cmd.Flags().StringVar(&columns, "columns", "", "Comma-separated property names to display")

	return cmd
}

func newDBDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Move a database to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			if _, err := client.UpdateDatabase(cmd.Context(), args[0], map[string]any{"in_trash": true}); err != nil {
				return err
			}
			successf("Database trashed: %s", args[0])
			return nil
		},
	}
}

// queryColumns picks the displayed columns for a query result: the explicit
// --columns list prefixed with id, or every key except the url.
func queryColumns(pages []map[string]any, columns string) []output.Column {
	if columns != "" {
		cols := []output.Column{{Key: "id", Label: "id"}}
		for _, name := range strings.Split(columns, ",") {
			name = strings.TrimSpace(name)
			if name != "" && name != "id" {
				cols = append(cols, output.Column{Key: name, Label: name})
			}
		}
		return cols
	}

	if len(pages) == 0 {
		return nil
	}

	var cols []output.Column
	if _, ok := pages[0]["id"]; ok {
		cols = append(cols, output.Column{Key: "id", Label: "id"})
	}
	keys := make([]string, 0, len(pages[0]))
	for key := range pages[0] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if key == "id" || key == "url" {
			continue
		}
		cols = append(cols, output.Column{Key: key, Label: key})
	}
	return cols
}

// collectPages runs the list loop: one page normally, the full cursor chain
// with --all.
func collectPages(ctx context.Context, pg *paginationFlags, fetch func(context.Context, string) (*notion.ListResponse, error)) ([]map[string]any, error) {
	if !pg.all {
		page, err := fetch(ctx, "")
		if err != nil {
			return nil, err
		}
		return page.Results, nil
	}
	return notion.CollectAll(ctx, fetch)
}

// joinTitle concatenates the plain text runs of a bare rich text array
// (database titles live at the top level, not under a property).
func joinTitle(value any) string {
	arr, ok := value.([]any)
	if !ok {
		return ""
	}
	var text string
	for _, item := range arr {
		if run, ok := item.(map[string]any); ok {
			if s, ok := run["plain_text"].(string); ok {
				text += s
			}
		}
	}
	return text
}
