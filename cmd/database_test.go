package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"notas/internal/output"
)

func TestQueryColumnsExplicit(t *testing.T) {
	cols := queryColumns(nil, "Name, Status,id")

	assert.Equal(t, []output.Column{
		{Key: "id", Label: "id"},
		{Key: "Name", Label: "Name"},
		{Key: "Status", Label: "Status"},
	}, cols)
}

func TestQueryColumnsInferred(t *testing.T) {
	pages := []map[string]any{
		{"id": "p1", "Name": "x", "Status": "Done", "url": "https://..."},
	}

	cols := queryColumns(pages, "")

	// id first, url dropped, the rest alphabetical.
	assert.Equal(t, []output.Column{
		{Key: "id", Label: "id"},
		{Key: "Name", Label: "Name"},
		{Key: "Status", Label: "Status"},
	}, cols)
}

func TestQueryColumnsEmpty(t *testing.T) {
	assert.Nil(t, queryColumns(nil, ""))
}

func TestJoinTitle(t *testing.T) {
	title := []any{
		map[string]any{"plain_text": "My "},
		map[string]any{"plain_text": "Database"},
	}
	assert.Equal(t, "My Database", joinTitle(title))
	assert.Equal(t, "", joinTitle(nil))
	assert.Equal(t, "", joinTitle("not an array"))
}
