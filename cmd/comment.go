package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"notas/internal/notion"
	"notas/internal/output"
)

func newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comment",
		Aliases: []string{"comments"},
		Short:   "Manage comments on pages and blocks",
	}

	cmd.AddCommand(newCommentListCmd())
	cmd.AddCommand(newCommentCreateCmd())

	return cmd
}

func newCommentListCmd() *cobra.Command {
	var pg paginationFlags

	cmd := &cobra.Command{
		Use:   "list <id>",
		Short: "List comments on a block or page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			fetch := func(ctx context.Context, cursor string) (*notion.ListResponse, error) {
				params := pg.params()
				if cursor != "" {
					params.StartCursor = cursor
				}
				return client.Comments(ctx, args[0], params)
			}

			results, err := collectPages(cmd.Context(), &pg, fetch)
			if err != nil {
				return err
			}

			comments := make([]map[string]any, 0, len(results))
			for _, result := range results {
				author := ""
				if creator, ok := result["created_by"].(map[string]any); ok {
					author, _ = creator["id"].(string)
				}
				comments = append(comments, map[string]any{
					"id":      result["id"],
					"created": result["created_time"],
					"author":  author,
					"text":    joinTitle(result["rich_text"]),
				})
			}

			printResult(comments, []output.Column{
				{Key: "id", Label: "ID"},
				{Key: "author", Label: "Author"},
				{Key: "text", Label: "Comment", Width: 50},
				{Key: "created", Label: "Created"},
			})
			return nil
		},
	}

	addPaginationFlags(cmd, &pg)
	return cmd
}

func newCommentCreateCmd() *cobra.Command {
	var (
		pageID       string
		discussionID string
		text         string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a comment to a page or discussion",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			if text == "" {
				if text, err = readStdin(); err != nil {
					return err
				}
			}
			if text == "" {
				return fmt.Errorf("no comment text provided")
			}

			body := map[string]any{"rich_text": richTextContent(text)}
			switch {
			case discussionID != "":
				body["discussion_id"] = discussionID
			case pageID != "":
				body["parent"] = map[string]any{"page_id": pageID}
			default:
				return fmt.Errorf("provide either --page-id or --discussion-id")
			}

			comment, err := client.CreateComment(cmd.Context(), body)
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(comment, nil)
				return nil
			}
			successf("Comment created: %v", comment["id"])
			return nil
		},
	}

	cmd.Flags().StringVar(&pageID, "page-id", "", "Page ID (starts a new discussion)")
	cmd.Flags().StringVar(&discussionID, "discussion-id", "", "Discussion thread ID (replies to existing)")
	cmd.Flags().StringVar(&text, "text", "", "Comment text (reads stdin when omitted)")

	return cmd
}
