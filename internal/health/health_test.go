package health

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-cli/scribe/internal/config"
)

func TestCheckEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("reachable endpoint passes even on 405", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMethodNotAllowed)
		}))
		defer server.Close()

		check := CheckEndpoint(server.Client(), server.URL)
		assert.True(t, check.Passed)
		assert.Contains(t, check.Message, "405")
	})

	t.Run("unreachable endpoint fails", func(t *testing.T) {
		t.Parallel()

		check := CheckEndpoint(nil, "http://127.0.0.1:1/v1/chat/completions")
		assert.False(t, check.Passed)
		assert.Contains(t, check.Message, "unreachable")
	})

	t.Run("empty url fails", func(t *testing.T) {
		t.Parallel()

		check := CheckEndpoint(nil, "")
		assert.False(t, check.Passed)
	})
}

func TestCheckRepository(t *testing.T) {
	t.Parallel()

	check := CheckRepository(t.TempDir())
	assert.False(t, check.Passed)
}

func TestCheckProjectConfig_MissingStillPasses(t *testing.T) {
	t.Parallel()

	check := CheckProjectConfig(t.TempDir())
	assert.True(t, check.Passed)
	assert.Contains(t, check.Message, "scribe init")
}

func TestCheckTemplates(t *testing.T) {
	t.Parallel()

	check := CheckTemplates()
	assert.True(t, check.Passed)
}

func TestRun(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	report := Run(Options{
		Root:       t.TempDir(),
		Settings:   &config.Settings{API: config.APISettings{URL: server.URL}},
		HTTPClient: server.Client(),
	})

	require.Len(t, report.Checks, 4)
	assert.False(t, report.Passed, "repository check fails outside a repo")
}
