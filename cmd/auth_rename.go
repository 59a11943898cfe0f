package cmd

import "github.com/spf13/cobra"

func newAuthRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <from> <to>",
		Short: "Rename a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credStore.Rename(args[0], args[1]); err != nil {
				return err
			}
			successf("Renamed %q → %q", args[0], args[1])
			return nil
		},
	}
}
