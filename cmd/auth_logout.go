package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"notas/internal/credentials"
)

func newAuthLogoutCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove a stored workspace token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				workspaces := credStore.List()
				switch len(workspaces) {
				case 0:
					fmt.Println("No workspaces configured.")
					return nil
				case 1:
					name = workspaces[0].Name
				default:
					fmt.Println("Multiple workspaces found. Specify one with --name:")
					for _, ws := range workspaces {
						fmt.Printf("  - %s\n", ws.Name)
					}
					return nil
				}
			}

			if !credStore.Remove(name) {
				return credentials.NewAuthError("Workspace %q not found", name)
			}
			successf("Removed workspace: %s", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Workspace name to remove")

	return cmd
}
