package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitTestFile(t *testing.T, dir string, repo *gogit.Repository, name, content, message string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
}

func TestMessage_DryRunPrintsPrompt(t *testing.T) {
	// Drives the global rootCmd, so no t.Parallel.
	resetRootState(t)

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	commitTestFile(t, dir, repo, "a.txt", "hello\n", "initial")
	commitTestFile(t, dir, repo, "a.txt", "hello\nworld\n", "add world")

	t.Chdir(dir)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"message", "--dry-run", "HEAD"})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "commit message", "prompt instructions are rendered")
	assert.Contains(t, out, "Branch: master")
	assert.Contains(t, out, "Author: Test Author")
	assert.Contains(t, out, "+world", "diff appears in the prompt")
}

func TestDocument_RequiresTemplateFlag(t *testing.T) {
	resetRootState(t)

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"document"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}
