// Package output renders command results as a table, tab-separated plain
// text, or pretty-printed JSON.
package output

// Format selects how results are rendered.
type Format string

const (
	// FormatTable is the default human-readable rendering.
	FormatTable Format = "table"

	// FormatPlain is tab-separated values for piping into other tools.
	FormatPlain Format = "plain"

	// FormatJSON is the raw response, pretty-printed.
	FormatJSON Format = "json"
)

// Column describes one table or plain-text column.
type Column struct {
	// Key selects the record field.
	Key string

	// Label is the header text. Defaults to Key when empty.
	Label string

	// Width fixes the column width; zero means computed from content.
	Width int
}

// Detect picks the output format from the command flags, falling back to a
// configured default and finally to table.
func Detect(jsonFlag, plainFlag bool, configDefault string) Format {
	if jsonFlag {
		return FormatJSON
	}
	if plainFlag {
		return FormatPlain
	}
	switch Format(configDefault) {
	case FormatPlain, FormatJSON:
		return Format(configDefault)
	}
	return FormatTable
}
