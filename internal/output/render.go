package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/text"
)

// maxColumnWidth caps computed table column widths.
const maxColumnWidth = 60

// Render formats data in the requested format. data is either a record
// slice ([]map[string]any) or a single mapping; columns may be nil, in
// which case they are inferred from the first record.
func Render(data any, format Format, columns []Column) string {
	switch format {
	case FormatJSON:
		return renderJSON(data)
	case FormatPlain:
		return renderPlain(data, columns)
	default:
		return renderTable(data, columns)
	}
}

func renderJSON(data any) string {
	if records, ok := data.([]map[string]any); ok && records == nil {
		// A nil slice must still encode as an empty array.
		data = []map[string]any{}
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(encoded)
}

func renderPlain(data any, columns []Column) string {
	switch v := data.(type) {
	case []map[string]any:
		if len(v) == 0 {
			return ""
		}
		cols := resolveColumns(v, columns)
		lines := make([]string, 0, len(v))
		for _, row := range v {
			cells := make([]string, 0, len(cols))
			for _, col := range cols {
				cells = append(cells, formatValue(row[col.Key]))
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		keys := sortedKeys(v)
		lines := make([]string, 0, len(keys))
		for _, key := range keys {
			lines = append(lines, key+"\t"+formatValue(v[key]))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprintf("%v", data)
	}
}

func renderTable(data any, columns []Column) string {
	switch v := data.(type) {
	case []map[string]any:
		if len(v) == 0 {
			return "No results found."
		}
		return renderRecordTable(v, columns)
	case map[string]any:
		return renderKeyValue(v)
	default:
		return fmt.Sprintf("%v", data)
	}
}

func renderRecordTable(records []map[string]any, columns []Column) string {
	cols := resolveColumns(records, columns)

	widths := make([]int, len(cols))
	for i, col := range cols {
		width := utf8.RuneCountInString(col.Label)
		for _, row := range records {
			if n := utf8.RuneCountInString(formatValue(row[col.Key])); n > width {
				width = n
			}
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if col.Width > 0 {
			width = col.Width
		}
		widths[i] = width
	}

	var lines []string

	headers := make([]string, len(cols))
	for i, col := range cols {
		// Pad before styling so escape codes do not skew the width.
		headers[i] = text.Bold.Sprint(text.Pad(col.Label, widths[i], ' '))
	}
	lines = append(lines, strings.Join(headers, "  "))

	dividers := make([]string, len(cols))
	for i, width := range widths {
		dividers[i] = strings.Repeat("─", width)
	}
	lines = append(lines, strings.Join(dividers, "  "))

	for _, row := range records {
		cells := make([]string, len(cols))
		for i, col := range cols {
			val := text.Snip(formatValue(row[col.Key]), widths[i], "…")
			cells[i] = text.Pad(val, widths[i], ' ')
		}
		lines = append(lines, strings.Join(cells, "  "))
	}

	return strings.Join(lines, "\n")
}

// renderKeyValue renders a single mapping as a bold key column plus values,
// keys sorted for stable output.
func renderKeyValue(data map[string]any) string {
	keys := sortedKeys(data)

	keyWidth := 0
	for _, key := range keys {
		if n := utf8.RuneCountInString(key); n > keyWidth {
			keyWidth = n
		}
	}

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		padded := text.Bold.Sprint(text.Pad(key, keyWidth, ' '))
		lines = append(lines, padded+"  "+formatValue(data[key]))
	}
	return strings.Join(lines, "\n")
}

// resolveColumns returns the explicit columns, labels defaulted, or infers
// them from the first record: id first, the rest alphabetical.
func resolveColumns(records []map[string]any, columns []Column) []Column {
	if len(columns) > 0 {
		resolved := make([]Column, len(columns))
		for i, col := range columns {
			if col.Label == "" {
				col.Label = col.Key
			}
			resolved[i] = col
		}
		return resolved
	}

	keys := sortedKeys(records[0])
	cols := make([]Column, 0, len(keys))
	if _, ok := records[0]["id"]; ok {
		cols = append(cols, Column{Key: "id", Label: "id"})
	}
	for _, key := range keys {
		if key == "id" {
			continue
		}
		cols = append(cols, Column{Key: key, Label: key})
	}
	return cols
}

// formatValue renders a cell: nil as empty, nested structures as JSON,
// scalars via the default formatting.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any, []map[string]any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
