package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribe-cli/scribe/internal/config"
	clierrors "github.com/scribe-cli/scribe/internal/errors"
	"github.com/scribe-cli/scribe/internal/merge"
)

func TestParseOverrides(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		"empty": {
			pairs: nil,
			want:  nil,
		},
		"single pair": {
			pairs: []string{"api.model=qwen"},
			want:  map[string]string{"api.model": "qwen"},
		},
		"key is normalized": {
			pairs: []string{" API.Model =qwen"},
			want:  map[string]string{"api.model": "qwen"},
		},
		"value may contain equals": {
			pairs: []string{"prompt.rules=a=b"},
			want:  map[string]string{"prompt.rules": "a=b"},
		},
		"missing separator": {
			pairs:   []string{"api.model"},
			wantErr: true,
		},
		"empty key": {
			pairs:   []string{"=value"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := parseOverrides(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTemplatePath(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value string
		want  bool
	}{
		"bare name":         {value: "changelog", want: false},
		"name with md":      {value: "changelog.md", want: false},
		"relative path":     {value: "./changelog.md", want: true},
		"nested path":       {value: "notes/report.md", want: true},
		"absolute path":     {value: "/tmp/report.md", want: true},
		"parent traversal":  {value: "../report.md", want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, isTemplatePath(tt.value))
		})
	}
}

func docFlagsCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	addDocumentFlags(cmd)
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

func TestOutputTarget(t *testing.T) {
	t.Parallel()

	settings := &config.Settings{
		Output:    config.OutputSettings{Mode: "append"},
		Changelog: config.FileTarget{File: "CHANGELOG.md"},
	}
	changelogSpec := documentSpec{
		DefaultOutput: func(s *config.Settings) string { return s.Changelog.File },
		DefaultMode:   merge.ModeAuto,
	}

	t.Run("no output means stdout", func(t *testing.T) {
		t.Parallel()

		path, mode, err := outputTarget(docFlagsCmd(t, nil), settings, documentSpec{})
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, merge.ModeNone, mode)
	})

	t.Run("configured default file and command mode", func(t *testing.T) {
		t.Parallel()

		path, mode, err := outputTarget(docFlagsCmd(t, nil), settings, changelogSpec)
		require.NoError(t, err)
		assert.Equal(t, "CHANGELOG.md", path)
		assert.Equal(t, merge.ModeAuto, mode)
	})

	t.Run("output flag with config output mode", func(t *testing.T) {
		t.Parallel()

		cmd := docFlagsCmd(t, map[string]string{"output": "NOTES.md"})
		path, mode, err := outputTarget(cmd, settings, documentSpec{})
		require.NoError(t, err)
		assert.Equal(t, "NOTES.md", path)
		assert.Equal(t, merge.ModeAppend, mode)
	})

	t.Run("output-mode flag wins", func(t *testing.T) {
		t.Parallel()

		cmd := docFlagsCmd(t, map[string]string{"output-mode": "overwrite"})
		path, mode, err := outputTarget(cmd, settings, changelogSpec)
		require.NoError(t, err)
		assert.Equal(t, "CHANGELOG.md", path)
		assert.Equal(t, merge.ModeOverwrite, mode)
	})

	t.Run("invalid output-mode flag", func(t *testing.T) {
		t.Parallel()

		cmd := docFlagsCmd(t, map[string]string{"output-mode": "sideways"})
		_, _, err := outputTarget(cmd, settings, changelogSpec)
		assert.Error(t, err)
	})

	t.Run("output-mode without a destination", func(t *testing.T) {
		t.Parallel()

		cmd := docFlagsCmd(t, map[string]string{"output-mode": "overwrite"})
		_, _, err := outputTarget(cmd, settings, documentSpec{})
		require.Error(t, err)

		cliErr := clierrors.AsCLIError(err)
		require.NotNil(t, cliErr)
		assert.Equal(t, clierrors.Argument, cliErr.Category)
		assert.Contains(t, cliErr.Message, "requires an output file")
	})

	t.Run("output-mode none needs no destination", func(t *testing.T) {
		t.Parallel()

		cmd := docFlagsCmd(t, map[string]string{"output-mode": "none"})
		path, mode, err := outputTarget(cmd, settings, documentSpec{})
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, merge.ModeNone, mode)
	})
}

func TestRevisionTarget(t *testing.T) {
	t.Parallel()

	t.Run("argument wins", func(t *testing.T) {
		t.Parallel()

		cmd := docFlagsCmd(t, map[string]string{"cached": "true"})
		assert.Equal(t, "v1.0.0..HEAD", revisionTarget(cmd, []string{"v1.0.0..HEAD"}))
	})

	t.Run("cached flag", func(t *testing.T) {
		t.Parallel()

		cmd := docFlagsCmd(t, map[string]string{"cached": "true"})
		assert.Equal(t, "--cached", revisionTarget(cmd, nil))
	})

	t.Run("default is working tree", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, revisionTarget(docFlagsCmd(t, nil), nil))
	})
}

func TestKnownPlaceholders(t *testing.T) {
	t.Parallel()

	known := knownPlaceholders()
	for _, key := range []string{"PROJECT_TITLE", "VERSION", "HISTORY", "SUMMARY", "TODOS", "RULES"} {
		assert.True(t, known[key], "placeholder %s should be known", key)
	}
	assert.False(t, known["NOT_A_PLACEHOLDER"])
}
