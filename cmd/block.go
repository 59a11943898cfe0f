package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"notas/internal/notion"
	"notas/internal/output"
)

func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "block",
		Aliases: []string{"blocks"},
		Short:   "Manage Notion blocks",
	}

	cmd.AddCommand(newBlockListCmd())
	cmd.AddCommand(newBlockGetCmd())
	cmd.AddCommand(newBlockAppendCmd())
	cmd.AddCommand(newBlockUpdateCmd())
	cmd.AddCommand(newBlockDeleteCmd())

	return cmd
}

func newBlockListCmd() *cobra.Command {
	var (
		pg        paginationFlags
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "list <id>",
		Short: "List child blocks of a page or block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			var blocks []map[string]any

			// Depth-first: each subtree is flattened completely before the
			// outer loop advances to the next sibling. The --cursor flag
			// applies only to the top-level listing.
			var fetchBlocks func(ctx context.Context, parentID string, depth int) error
			fetchBlocks = func(ctx context.Context, parentID string, depth int) error {
				cursor := ""
				if depth == 0 {
					cursor = pg.cursor
				}

				for {
					resp, err := client.BlockChildren(ctx, parentID, notion.ListParams{
						PageSize:    pg.limit,
						StartCursor: cursor,
					})
					if err != nil {
						return err
					}

					for _, block := range resp.Results {
						hasChildren, _ := block["has_children"].(bool)
						children := ""
						if hasChildren {
							children = "yes"
						}

						blocks = append(blocks, map[string]any{
							"id":       block["id"],
							"type":     block["type"],
							"text":     notion.ExtractBlockText(block),
							"children": children,
							"depth":    depth,
						})

						if recursive && hasChildren {
							if id, ok := block["id"].(string); ok {
								if err := fetchBlocks(ctx, id, depth+1); err != nil {
									return err
								}
							}
						}
					}

					if !pg.all || !resp.HasMore || resp.NextCursor == "" {
						return nil
					}
					cursor = resp.NextCursor
				}
			}

			if err := fetchBlocks(cmd.Context(), args[0], 0); err != nil {
				return err
			}

			printResult(blocks, []output.Column{
				{Key: "id", Label: "ID"},
				{Key: "type", Label: "Type"},
				{Key: "text", Label: "Content", Width: 50},
				{Key: "children", Label: "Children"},
				{Key: "depth", Label: "Depth"},
			})
			return nil
		},
	}

	addPaginationFlags(cmd, &pg)
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Recursively list all nested blocks")

	return cmd
}

func newBlockGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			block, err := client.Block(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(block, nil)
				return nil
			}

			printResult(map[string]any{
				"id":           block["id"],
				"content":      notion.ExtractBlockText(block),
				"has_children": block["has_children"],
				"created":      block["created_time"],
				"edited":       block["last_edited_time"],
				"parent":       describeParent(block["parent"]),
			}, nil)
			return nil
		},
	}
}

func newBlockAppendCmd() *cobra.Command {
	var (
		blockType string
		blockText string
		language  string
		url       string
		checked   bool
		blocks    string
	)

	cmd := &cobra.Command{
		Use:   "append <id>",
		Short: "Append blocks to a page or block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			var children []any
			if blocks != "" {
				if err := parseJSONArg("blocks", blocks, &children); err != nil {
					return err
				}
			} else {
				child, err := buildBlock(blockType, blockText, language, url, checked)
				if err != nil {
					return err
				}
				children = []any{child}
			}

			resp, err := client.AppendChildren(cmd.Context(), args[0], map[string]any{"children": children})
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(resp.Results, nil)
				return nil
			}

			count := len(resp.Results)
			plural := "s"
			if count == 1 {
				plural = ""
			}
			successf("Appended %d block%s", count, plural)
			return nil
		},
	}

	cmd.Flags().StringVar(&blockType, "type", "paragraph", "Block type (paragraph, heading_1, code, to_do, divider, bookmark, ...)")
	cmd.Flags().StringVar(&blockText, "text", "", "Text content (reads stdin when omitted)")
	cmd.Flags().StringVar(&language, "language", "plain text", "Code block language")
	cmd.Flags().StringVar(&url, "url", "", "Bookmark URL")
	cmd.Flags().BoolVar(&checked, "checked", false, "Checked state (for to_do blocks)")
	cmd.Flags().StringVar(&blocks, "blocks", "", "Full children array as JSON")

	return cmd
}

// buildBlock constructs a single block object for the append shorthand
// flags. Types that carry text read stdin when --text is absent.
func buildBlock(blockType, blockText, language, url string, checked bool) (map[string]any, error) {
	switch blockType {
	case "divider":
		return map[string]any{"object": "block", "type": "divider", "divider": map[string]any{}}, nil

	case "bookmark":
		return map[string]any{
			"object":   "block",
			"type":     "bookmark",
			"bookmark": map[string]any{"url": url},
		}, nil

	case "code":
		text, err := blockTextOrStdin(blockText)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"object": "block",
			"type":   "code",
			"code": map[string]any{
				"rich_text": richTextContent(text),
				"language":  language,
			},
		}, nil

	case "to_do":
		text, err := blockTextOrStdin(blockText)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"object": "block",
			"type":   "to_do",
			"to_do": map[string]any{
				"rich_text": richTextContent(text),
				"checked":   checked,
			},
		}, nil

	default:
		text, err := blockTextOrStdin(blockText)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"object":  "block",
			"type":    blockType,
			blockType: map[string]any{"rich_text": richTextContent(text)},
		}, nil
	}
}

func blockTextOrStdin(text string) (string, error) {
	if text != "" {
		return text, nil
	}
	return readStdin()
}

func newBlockUpdateCmd() *cobra.Command {
	var (
		blockText string
		checked   bool
		body      string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a block's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			if body != "" {
				var update map[string]any
				if err := parseJSONArg("body", body, &update); err != nil {
					return err
				}

				block, err := client.UpdateBlock(cmd.Context(), args[0], update)
				if err != nil {
					return err
				}
				if outputFormat() == output.FormatJSON {
					printResult(block, nil)
					return nil
				}
				successf("Block updated: %s", args[0])
				return nil
			}

			// The block type dictates where the text lives, so look the
			// block up first.
			existing, err := client.Block(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			blockType, _ := existing["type"].(string)

			update := map[string]any{}
			textSet := cmd.Flags().Changed("text")
			checkedSet := cmd.Flags().Changed("checked")

			switch {
			case textSet && blockType == "to_do":
				content := map[string]any{"rich_text": richTextContent(blockText)}
				if checkedSet {
					content["checked"] = checked
				}
				update[blockType] = content
			case textSet:
				update[blockType] = map[string]any{"rich_text": richTextContent(blockText)}
			case checkedSet && blockType == "to_do":
				update[blockType] = map[string]any{"checked": checked}
			default:
				return fmt.Errorf("nothing to update: pass --text, --checked or --body")
			}

			block, err := client.UpdateBlock(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}

			if outputFormat() == output.FormatJSON {
				printResult(block, nil)
				return nil
			}
			successf("Block updated: %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&blockText, "text", "", "New text content")
	cmd.Flags().BoolVar(&checked, "checked", false, "Checked state (for to_do blocks)")
	cmd.Flags().StringVar(&body, "body", "", "Full block update body as JSON")

	return cmd
}

func newBlockDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}

			if _, err := client.DeleteBlock(cmd.Context(), args[0]); err != nil {
				return err
			}
			successf("Block deleted: %s", args[0])
			return nil
		},
	}
}
