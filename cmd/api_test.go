package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIArgs(t *testing.T) {
	method, path, err := parseAPIArgs([]string{"/v1/users"}, "")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "/v1/users", path)

	// A body flips the default method to POST.
	method, _, err = parseAPIArgs([]string{"/v1/search"}, `{"query":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)

	method, path, err = parseAPIArgs([]string{"patch", "/v1/blocks/b1"}, "")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/v1/blocks/b1", path)

	_, _, err = parseAPIArgs([]string{"FETCH", "/v1/users"}, "")
	assert.Error(t, err)

	_, _, err = parseAPIArgs([]string{"v1/users"}, "")
	assert.Error(t, err)
}
