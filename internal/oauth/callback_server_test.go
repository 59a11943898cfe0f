package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (*CallbackServer, string) {
	t.Helper()

	server := NewCallbackServer(0)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, server.Start(ctx))
	t.Cleanup(server.Stop)

	return server, fmt.Sprintf("http://127.0.0.1:%d/callback", server.Port())
}

func TestCallbackServerReceivesCode(t *testing.T) {
	server, url := startTestServer(t)

	resp, err := http.Get(url + "?code=abc&state=xyz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Authorization complete")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.WaitForCallback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", result.Code)
	assert.Equal(t, "xyz", result.State)
	assert.False(t, result.IsError())
}

func TestCallbackServerProviderError(t *testing.T) {
	server, url := startTestServer(t)

	resp, err := http.Get(url + "?error=access_denied&error_description=User+cancelled")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "access_denied")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.WaitForCallback(ctx)
	require.NoError(t, err)
	assert.True(t, result.IsError())
	assert.Equal(t, "access_denied", result.Error)
	assert.Equal(t, "User cancelled", result.ErrorDescription)
}

func TestCallbackServerFirstRequestWins(t *testing.T) {
	server, url := startTestServer(t)

	resp, err := http.Get(url + "?code=first")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(url + "?code=second")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := server.WaitForCallback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Code)
}

func TestCallbackServerContextTimeout(t *testing.T) {
	server, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := server.WaitForCallback(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
