package cmd

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"notas/internal/output"
)

var apiMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

func newAPICmd() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "api [METHOD] /v1/path",
		Short: "Make raw Notion API calls",
		Long: `Issue an arbitrary request against the API with the standard
authentication and version headers attached. The method defaults to GET,
or POST when a body is given.

Examples:
  notas api GET /v1/users
  notas api POST /v1/search --body '{"query":"test"}'
  notas api GET /v1/databases/DB_ID
  notas api POST /v1/databases/DB_ID/query --body '{"page_size":10}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method, path, err := parseAPIArgs(args, body)
			if err != nil {
				return err
			}

			client, err := apiClient()
			if err != nil {
				return err
			}

			var payload any
			if body != "" && method != http.MethodGet {
				var decoded map[string]any
				if err := parseJSONArg("body", body, &decoded); err != nil {
					return err
				}
				payload = decoded
			}

			data, status, err := client.RawCall(cmd.Context(), method, path, payload)
			if err != nil {
				return err
			}

			if status < 200 || status >= 300 {
				fmt.Fprintf(os.Stderr, "%s %d %s\n", text.FgRed.Sprint("✗"), status, http.StatusText(status))
			}

			fmt.Println(output.Render(data, output.FormatJSON, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "Request body as JSON")

	return cmd
}

// parseAPIArgs accepts "METHOD /path" or just "/path". Without an explicit
// method the call is GET, or POST when a body is present.
func parseAPIArgs(args []string, body string) (string, string, error) {
	method := http.MethodGet
	if body != "" {
		method = http.MethodPost
	}

	var path string
	switch len(args) {
	case 1:
		path = args[0]
	case 2:
		m := strings.ToUpper(args[0])
		if !apiMethods[m] {
			return "", "", fmt.Errorf("unknown method %q", args[0])
		}
		method = m
		path = args[1]
	}

	if !strings.HasPrefix(path, "/") {
		return "", "", fmt.Errorf("path must start with /, e.g. /v1/users")
	}

	return method, path, nil
}
