package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"notas/internal/notion"
	"notas/internal/output"
)

func newSearchCmd() *cobra.Command {
	var (
		pg         paginationFlags
		objectType string
		sortDir    string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search across all pages and databases",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			fetch := func(ctx context.Context, cursor string) (*notion.ListResponse, error) {
				body := map[string]any{}
				if query != "" {
					body["query"] = query
				}
				if objectType != "" {
					// The API calls databases "data_source" in search
					// filters.
					value := objectType
					if value == "database" {
						value = "data_source"
					}
					body["filter"] = map[string]any{"property": "object", "value": value}
				}
				if sortDir != "" {
					body["sort"] = map[string]any{"direction": sortDir, "timestamp": "last_edited_time"}
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

			records := make([]map[string]any, 0, len(results))
			for _, result := range results {
				object, _ := result["object"].(string)

				title := ""
				if object == "database" || object == "data_source" {
					title = joinTitle(result["title"])
				} else if properties, ok := result["properties"].(map[string]any); ok {
					title = notion.ExtractTitle(properties)
				}

				records = append(records, map[string]any{
					"id":     result["id"],
					"type":   object,
					"title":  title,
					"edited": result["last_edited_time"],
					"url":    result["url"],
				})
			}

			printResult(records, []output.Column{
				{Key: "id", Label: "ID"},
				{Key: "type", Label: "Type"},
				{Key: "title", Label: "Title", Width: 40},
				{Key: "edited", Label: "Last Edited"},
			})
			return nil
		},
	}

	addPaginationFlags(cmd, &pg)
	cmd.Flags().StringVarP(&objectType, "type", "t", "", "Filter by type: page or database")
	cmd.Flags().StringVar(&sortDir, "sort", "", "Sort direction: ascending or descending")

	return cmd
}
