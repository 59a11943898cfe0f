package output

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Render plain text so width assertions are not confused by escape
	// codes.
	text.DisableColors()
	m.Run()
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatJSON, Detect(true, false, ""))
	assert.Equal(t, FormatJSON, Detect(true, true, ""))
	assert.Equal(t, FormatPlain, Detect(false, true, ""))
	assert.Equal(t, FormatTable, Detect(false, false, ""))
	assert.Equal(t, FormatPlain, Detect(false, false, "plain"))
	assert.Equal(t, FormatTable, Detect(false, false, "nonsense"))
}

func TestRenderZeroRecords(t *testing.T) {
	var records []map[string]any

	assert.Equal(t, "No results found.", Render(records, FormatTable, nil))
	assert.Equal(t, "", Render(records, FormatPlain, nil))
	assert.Equal(t, "[]", Render(records, FormatJSON, nil))
}

func TestRenderTable(t *testing.T) {
	records := []map[string]any{
		{"id": "p1", "title": "First"},
		{"id": "p2", "title": "Second page"},
	}
	cols := []Column{{Key: "id", Label: "ID"}, {Key: "title", Label: "Title"}}

	got := Render(records, FormatTable, cols)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)

	// Header, divider, then one line per record; widths come from the
	// longest value.
	assert.Equal(t, "ID  Title", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "──  ───────────", lines[1])
	assert.Equal(t, "p1  First", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "p2  Second page", lines[3])
}

func TestRenderTableTruncation(t *testing.T) {
	long := strings.Repeat("x", 80)
	records := []map[string]any{{"v": long}}

	got := Render(records, FormatTable, []Column{{Key: "v", Label: "V"}})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)

	cell := lines[2]
	assert.Equal(t, maxColumnWidth, utf8.RuneCountInString(cell))
	assert.True(t, strings.HasSuffix(cell, "…"))
	assert.Equal(t, strings.Repeat("x", maxColumnWidth-1)+"…", cell)
}

func TestRenderTableExplicitWidth(t *testing.T) {
	records := []map[string]any{{"v": "abcdefghij"}}

	got := Render(records, FormatTable, []Column{{Key: "v", Label: "V", Width: 5}})
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "abcd…", lines[2])
}

func TestRenderTableInferredColumns(t *testing.T) {
	records := []map[string]any{{"title": "x", "id": "p1", "created": "now"}}

	got := Render(records, FormatTable, nil)
	header := strings.Split(got, "\n")[0]

	// id leads, the rest alphabetical.
	assert.Regexp(t, `^id\s+created\s+title\s*$`, header)
}

func TestRenderKeyValue(t *testing.T) {
	got := Render(map[string]any{"name": "acme", "id": "ws1"}, FormatTable, nil)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id    ws1", lines[0])
	assert.Equal(t, "name  acme", lines[1])
}

func TestRenderPlain(t *testing.T) {
	records := []map[string]any{
		{"id": "p1", "title": "First"},
		{"id": "p2", "title": nil},
	}
	cols := []Column{{Key: "id"}, {Key: "title"}}

	got := Render(records, FormatPlain, cols)
	assert.Equal(t, "p1\tFirst\np2\t", got)
}

func TestRenderPlainSingleMap(t *testing.T) {
	got := Render(map[string]any{"b": "2", "a": "1"}, FormatPlain, nil)
	assert.Equal(t, "a\t1\nb\t2", got)
}

func TestRenderJSONIndent(t *testing.T) {
	got := Render(map[string]any{"a": 1}, FormatJSON, nil)
	assert.Equal(t, "{\n  \"a\": 1\n}", got)
}

func TestFormatValueNested(t *testing.T) {
	records := []map[string]any{{"v": map[string]any{"k": "x"}}}

	got := Render(records, FormatPlain, []Column{{Key: "v"}})
	assert.Equal(t, `{"k":"x"}`, got)
}
