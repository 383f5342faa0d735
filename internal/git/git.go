// Package git derives document context from a Git repository: branch and
// commit metadata, diff text for a revision target, open items extracted
// from changes, and the project version. It uses the go-git library for
// repository operations, falling back to the git CLI only for working-tree
// diffs, which go-git does not render as patch text.
package git

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default it is a no-op; set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository at path or the current working directory,
// traversing up the directory tree to find the repository root.
func openRepo(path string) (*gogit.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// IsRepository reports whether path (or the current directory) is inside a
// git repository.
func IsRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// RepositoryRoot returns the absolute path of the repository's working tree.
func RepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// CurrentBranch returns the current branch name, or empty string in
// detached HEAD state.
func CurrentBranch(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}
	return head.Name().Short(), nil
}

// CommitInfo is the metadata of one commit used for document context.
type CommitInfo struct {
	Hash      string // full hash
	ShortHash string
	Author    string
	Email     string
	Date      string // YYYY-MM-DD
	Subject   string
	Body      string
}

// ResolveCommit resolves a revision ("HEAD", a branch, a tag, a hash) to
// its commit metadata.
func ResolveCommit(path, revision string) (*CommitInfo, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	return resolveCommit(repo, revision)
}

func resolveCommit(repo *gogit.Repository, revision string) (*CommitInfo, error) {
	if revision == "" {
		revision = "HEAD"
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", revision, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return commitInfo(commit), nil
}

func commitInfo(commit *object.Commit) *CommitInfo {
	subject, body, _ := strings.Cut(commit.Message, "\n")
	return &CommitInfo{
		Hash:      commit.Hash.String(),
		ShortHash: commit.Hash.String()[:7],
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		Date:      commit.Author.When.Format("2006-01-02"),
		Subject:   strings.TrimSpace(subject),
		Body:      strings.TrimSpace(body),
	}
}

// Diff renders patch text for a revision target. Supported targets:
//
//	"" or "--current"  uncommitted working tree changes (git CLI)
//	"--cached"         staged changes (git CLI)
//	"<rev>"            one commit against its first parent
//	"<a>..<b>"         everything between two revisions
func Diff(path, target string) (string, error) {
	switch target {
	case "", "--current":
		return cliDiff(path, "diff", "HEAD")
	case "--cached":
		return cliDiff(path, "diff", "--cached")
	}

	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	if from, to, isRange := strings.Cut(target, ".."); isRange {
		return rangeDiff(repo, from, strings.TrimPrefix(to, "."))
	}
	return commitDiff(repo, target)
}

// rangeDiff renders the patch between two resolved revisions.
func rangeDiff(repo *gogit.Repository, from, to string) (string, error) {
	fromCommit, err := lookupCommit(repo, from)
	if err != nil {
		return "", err
	}
	toCommit, err := lookupCommit(repo, to)
	if err != nil {
		return "", err
	}

	patch, err := fromCommit.Patch(toCommit)
	if err != nil {
		return "", fmt.Errorf("computing patch %s..%s: %w", from, to, err)
	}
	return patch.String(), nil
}

// commitDiff renders one commit against its first parent. Root commits fall
// back to the git CLI, which can diff against the empty tree.
func commitDiff(repo *gogit.Repository, revision string) (string, error) {
	commit, err := lookupCommit(repo, revision)
	if err != nil {
		return "", err
	}

	if commit.NumParents() == 0 {
		wt, err := repo.Worktree()
		if err != nil {
			return "", fmt.Errorf("getting worktree: %w", err)
		}
		return cliDiff(wt.Filesystem.Root(), "show", "--patch", "--format=", revision)
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return "", fmt.Errorf("reading parent of %s: %w", revision, err)
	}

	patch, err := parent.Patch(commit)
	if err != nil {
		return "", fmt.Errorf("computing patch for %s: %w", revision, err)
	}
	return patch.String(), nil
}

func lookupCommit(repo *gogit.Repository, revision string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return commit, nil
}

// cliDiff shells out to git for the diff forms go-git cannot render.
func cliDiff(dir string, args ...string) (string, error) {
	logDebug("[git] falling back to git CLI: git %s", strings.Join(args, " "))

	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("running git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// WorkingTreeClean reports whether the working tree has no uncommitted
// changes.
func WorkingTreeClean(path string) (bool, error) {
	repo, err := openRepo(path)
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("reading status: %w", err)
	}
	return status.IsClean(), nil
}

// projectTitleFromRoot falls back to the repository directory name when no
// title is configured.
func projectTitleFromRoot(root string) string {
	return filepath.Base(root)
}
