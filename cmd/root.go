package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"notas/internal/credentials"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates a credential or workspace resolution failure.
	ExitCodeAuthRequired = 2
)

var (
	flagWorkspace string
	flagJSON      bool
	flagPlain     bool
	flagDebug     bool
)

// rootCmd is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "notas",
	Short: "A command line client for Notion",
	Long: `notas talks to the Notion API from the terminal: authenticate
workspaces (OAuth or integration tokens), work with pages, databases,
blocks, comments and users, and search across the workspace.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// handled by the application; SilenceErrors lets Execute print them in
	// one place with the ✗ prefix.
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initRuntime,
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and terminates the process with a semantic
// exit code on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "notas version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", text.FgRed.Sprint("✗"), err)
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps the error type to an exit code for scripting.
func getExitCode(err error) int {
	var authErr *credentials.AuthError
	if errors.As(err, &authErr) {
		return ExitCodeAuthRequired
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagWorkspace, "workspace", "w", "", "Workspace name")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagPlain, "plain", false, "Output as plain text")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newPageCmd())
	rootCmd.AddCommand(newDatabaseCmd())
	rootCmd.AddCommand(newBlockCmd())
	rootCmd.AddCommand(newCommentCmd())
	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newAPICmd())
	rootCmd.AddCommand(newVersionCmd())
}
