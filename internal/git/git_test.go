package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with an initial commit and returns its path.
func initRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *gogit.Repository, name, content, message string) string {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	return hash.String()
}

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "a.txt", "hello\n", "initial commit")

	branch, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestIsRepository(t *testing.T) {
	t.Parallel()

	dir, _ := initRepo(t)
	assert.True(t, IsRepository(dir))
	assert.False(t, IsRepository(t.TempDir()))
}

func TestResolveCommit(t *testing.T) {
	t.Parallel()

	dir, repo := initRepo(t)
	hash := commitFile(t, dir, repo, "a.txt", "hello\n", "feat: add greeting\n\nLonger body text.")

	info, err := ResolveCommit(dir, "HEAD")
	require.NoError(t, err)

	assert.Equal(t, hash, info.Hash)
	assert.Equal(t, hash[:7], info.ShortHash)
	assert.Equal(t, "Test Author", info.Author)
	assert.Equal(t, "2024-06-01", info.Date)
	assert.Equal(t, "feat: add greeting", info.Subject)
	assert.Equal(t, "Longer body text.", info.Body)
}

func TestDiff_Range(t *testing.T) {
	t.Parallel()

	dir, repo := initRepo(t)
	first := commitFile(t, dir, repo, "a.txt", "hello\n", "initial")
	second := commitFile(t, dir, repo, "a.txt", "hello\nworld\n", "add world")

	diff, err := Diff(dir, first+".."+second)
	require.NoError(t, err)

	assert.Contains(t, diff, "+world")
	assert.Contains(t, diff, "a.txt")
}

func TestDiff_SingleRevisionAgainstParent(t *testing.T) {
	t.Parallel()

	dir, repo := initRepo(t)
	commitFile(t, dir, repo, "a.txt", "hello\n", "initial")
	second := commitFile(t, dir, repo, "b.txt", "TODO: wire this up\n", "add b")

	diff, err := Diff(dir, second)
	require.NoError(t, err)

	assert.Contains(t, diff, "+TODO: wire this up")
	assert.NotContains(t, diff, "a.txt", "only the named commit's changes appear")
}

func TestExtractTodos(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		diff    string
		pattern string
		want    string
	}{
		"added todo lines collected": {
			diff: "+++ b/a.go\n+// TODO: first item\n context line\n+\t// FIXME: second item\n",
			want: "- TODO: first item\n- FIXME: second item",
		},
		"removed lines ignored": {
			diff: "-// TODO: gone\n+// code\n",
			want: "",
		},
		"file header lines ignored": {
			diff: "+++ b/TODO.md\n",
			want: "",
		},
		"duplicates collapsed": {
			diff: "+// TODO: same\n+// TODO: same\n",
			want: "- TODO: same",
		},
		"custom pattern": {
			diff:    "+# HACK: temporary\n+# TODO: ignored by pattern\n",
			pattern: "HACK",
			want:    "- HACK: temporary",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractTodos(tt.diff, tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTodos_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := ExtractTodos("+TODO\n", "(")
	assert.Error(t, err)
}

func TestDetectVersion(t *testing.T) {
	t.Parallel()

	t.Run("explicit file", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "version.txt"), []byte("release 2.4.1-rc.1 built\n"), 0o644))

		got, err := DetectVersion(root, "version.txt", "")
		require.NoError(t, err)
		assert.Equal(t, "2.4.1-rc.1", got)
	})

	t.Run("probes common manifests", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"version": "0.3.7"}`), 0o644))

		got, err := DetectVersion(root, "", "")
		require.NoError(t, err)
		assert.Equal(t, "0.3.7", got)
	})

	t.Run("absent version is empty not an error", func(t *testing.T) {
		t.Parallel()

		got, err := DetectVersion(t.TempDir(), "", "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGather(t *testing.T) {
	t.Parallel()

	dir, repo := initRepo(t)
	first := commitFile(t, dir, repo, "VERSION", "1.5.0\n", "initial")
	second := commitFile(t, dir, repo, "b.go", "// TODO: finish\n", "feat: start b")

	facts, err := Gather(GatherOptions{
		RepoPath: dir,
		Target:   first + ".." + second,
		Rules:    "keep it short",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(dir), facts.ProjectTitle)
	assert.Equal(t, "master", facts.Branch)
	assert.Equal(t, second[:7], facts.CommitID)
	assert.Equal(t, "Test Author", facts.Author)
	assert.Equal(t, "2024-06-01", facts.Date)
	assert.Equal(t, "1.5.0", facts.Version)
	assert.Contains(t, facts.History, "+// TODO: finish")
	assert.Equal(t, "- TODO: finish", facts.Todos)

	ctx := facts.Context()
	for _, key := range []string{"PROJECT_TITLE", "VERSION", "BRANCH", "COMMIT_ID", "AUTHOR", "DATE", "SUMMARY", "HISTORY", "TODOS", "RULES", "EXAMPLE"} {
		_, ok := ctx[key]
		assert.True(t, ok, "context key %s always present", key)
	}
	assert.Equal(t, "keep it short", ctx["RULES"])
}
