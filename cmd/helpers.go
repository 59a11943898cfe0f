package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"notas/internal/config"
	"notas/internal/credentials"
	"notas/internal/notion"
	"notas/internal/output"
	"notas/pkg/logging"
)

var (
	runtimeCfg *config.Config
	credStore  *credentials.Store
)

// initRuntime loads configuration and prepares the credential store before
// any command runs.
func initRuntime(cmd *cobra.Command, args []string) error {
	logging.Init(flagDebug, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	runtimeCfg = cfg

	dir, err := config.CredentialsDir()
	if err != nil {
		return err
	}
	credStore = credentials.NewStore(dir)

	if cfg.NoColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		text.DisableColors()
	}

	return nil
}

// resolveToken returns the bearer token and workspace label for this
// invocation, honoring the --workspace flag and the configured default.
func resolveToken() (string, string, error) {
	workspace := flagWorkspace
	if workspace == "" {
		workspace = runtimeCfg.Workspace
	}
	return credentials.NewResolver(credStore, runtimeCfg.Token).Resolve(workspace)
}

// apiClient builds a client from the resolved token.
func apiClient() (*notion.Client, error) {
	token, _, err := resolveToken()
	if err != nil {
		return nil, err
	}
	return notion.NewClient(token), nil
}

func outputFormat() output.Format {
	return output.Detect(flagJSON, flagPlain, runtimeCfg.OutputFormat)
}

// printResult renders data in the active format to stdout.
func printResult(data any, columns []output.Column) {
	fmt.Println(output.Render(data, outputFormat(), columns))
}

// successf prints a green ✓ confirmation line.
func successf(format string, args ...any) {
	fmt.Printf("%s %s\n", text.FgGreen.Sprint("✓"), fmt.Sprintf(format, args...))
}

// readStdin reads all of stdin with trailing whitespace stripped.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), " \t\r\n"), nil
}

// parseJSONArg decodes a user-supplied JSON flag value.
func parseJSONArg(name, value string, out any) error {
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("invalid JSON for --%s: %w", name, err)
	}
	return nil
}

// paginationFlags are the shared cursor flags on list-shaped commands.
type paginationFlags struct {
	limit  int
	cursor string
	all    bool
}

func addPaginationFlags(cmd *cobra.Command, p *paginationFlags) {
	cmd.Flags().IntVar(&p.limit, "limit", 100, "Number of items to return per page")
	cmd.Flags().StringVar(&p.cursor, "cursor", "", "Pagination cursor for next page")
	cmd.Flags().BoolVar(&p.all, "all", false, "Auto-paginate to fetch all results")
}

func (p *paginationFlags) params() notion.ListParams {
	return notion.ListParams{PageSize: p.limit, StartCursor: p.cursor}
}
