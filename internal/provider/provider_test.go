package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Complete(t *testing.T) {
	t.Parallel()

	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  feat: add login flow\n"}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{
		URL:         server.URL,
		Model:       "qwen-7b",
		APIKey:      "secret",
		Temperature: 0.4,
	})

	out, err := client.Complete(context.Background(), "Summarize the changes")
	require.NoError(t, err)

	assert.Equal(t, "feat: add login flow", out, "reply is trimmed")
	assert.Equal(t, "qwen-7b", got.Model)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.4, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Summarize the changes", got.Messages[0].Content)
}

func TestHTTPClient_Complete_NoAuthHeaderWithoutKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{URL: server.URL})
	out, err := client.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestHTTPClient_Complete_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(Options{URL: server.URL})
	_, err := client.Complete(context.Background(), "hi")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusServiceUnavailable, perr.StatusCode)
	assert.Contains(t, perr.Body, "model not loaded")
	assert.Contains(t, perr.Error(), "503")
}

func TestHTTPClient_Complete_EmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Options{URL: server.URL})
	_, err := client.Complete(context.Background(), "hi")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, perr.StatusCode)
}

func TestHTTPClient_Complete_ConnectionRefused(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient(Options{URL: "http://127.0.0.1:1/v1/chat/completions"})
	_, err := client.Complete(context.Background(), "hi")

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, perr.StatusCode)
	assert.Error(t, errors.Unwrap(perr))
}

func TestDry_EchoesPrompt(t *testing.T) {
	t.Parallel()

	out, err := Dry{}.Complete(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "the prompt", out)
}
