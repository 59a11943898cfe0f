package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"notas/internal/credentials"
	"notas/internal/notion"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(credentials.NewAuthError("no workspaces")))
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(fmt.Errorf("wrapped: %w", credentials.NewAuthError("nope"))))
	assert.Equal(t, ExitCodeError, getExitCode(&notion.APIError{Status: 404}))
	assert.Equal(t, ExitCodeError, getExitCode(errors.New("boom")))
}
