package git

import (
	"time"
)

// Facts is the collaborator-supplied half of a render context: everything
// derived from the repository and its changes, keyed by placeholder name
// through Context.
type Facts struct {
	ProjectTitle string
	Version      string
	Branch       string
	CommitID     string
	Author       string
	Date         string
	Summary      string
	History      string
	Todos        string
	Rules        string
	Example      string
}

// GatherOptions configures fact collection.
type GatherOptions struct {
	// RepoPath anchors repository discovery (default: current directory).
	RepoPath string
	// Target is the revision target passed to Diff.
	Target string
	// ProjectTitle overrides the repository-derived title when set.
	ProjectTitle string
	// TodosPattern is the open-item marker expression.
	TodosPattern string
	// VersionFile and VersionPattern configure version detection.
	VersionFile    string
	VersionPattern string
	// Rules and Example are free-form prompt guidance from configuration.
	Rules   string
	Example string
}

// Gather collects repository facts for one invocation.
func Gather(opts GatherOptions) (*Facts, error) {
	root, err := RepositoryRoot(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	facts := &Facts{
		Rules:   opts.Rules,
		Example: opts.Example,
	}

	facts.ProjectTitle = opts.ProjectTitle
	if facts.ProjectTitle == "" {
		facts.ProjectTitle = projectTitleFromRoot(root)
	}

	branch, err := CurrentBranch(opts.RepoPath)
	if err == nil {
		facts.Branch = branch
	}

	commit := commitForTarget(opts.RepoPath, opts.Target)
	if commit != nil {
		facts.CommitID = commit.ShortHash
		facts.Author = commit.Author
		facts.Summary = commit.Subject
	}

	facts.Date = factDate(commit, opts.Target)

	facts.History, err = Diff(opts.RepoPath, opts.Target)
	if err != nil {
		return nil, err
	}

	facts.Todos, err = ExtractTodos(facts.History, opts.TodosPattern)
	if err != nil {
		return nil, err
	}

	facts.Version, err = DetectVersion(root, opts.VersionFile, opts.VersionPattern)
	if err != nil {
		return nil, err
	}

	return facts, nil
}

// commitForTarget picks the commit whose metadata describes the target:
// HEAD for working-tree targets, the range end or the named revision
// otherwise. A repository with no commits yields nil.
func commitForTarget(repoPath, target string) *CommitInfo {
	revision := "HEAD"
	switch target {
	case "", "--current", "--cached":
	default:
		revision = target
		if _, to, isRange := cutRange(target); isRange {
			revision = to
		}
	}

	commit, err := ResolveCommit(repoPath, revision)
	if err != nil {
		logDebug("[git] no commit metadata for %q: %v", revision, err)
		return nil
	}
	return commit
}

// factDate uses the commit date for committed targets and today for
// uncommitted ones.
func factDate(commit *CommitInfo, target string) string {
	switch target {
	case "", "--current", "--cached":
		return time.Now().Format("2006-01-02")
	}
	if commit != nil {
		return commit.Date
	}
	return time.Now().Format("2006-01-02")
}

// cutRange splits "a..b" targets.
func cutRange(target string) (from, to string, ok bool) {
	for i := 0; i+1 < len(target); i++ {
		if target[i] == '.' && target[i+1] == '.' {
			from = target[:i]
			to = target[i+2:]
			for len(to) > 0 && to[0] == '.' {
				to = to[1:]
			}
			return from, to, true
		}
	}
	return "", "", false
}

// Context maps facts to their placeholder names for template rendering.
// Every key is always present so strict rendering of the built-in
// templates succeeds even when a value is empty.
func (f *Facts) Context() map[string]string {
	return map[string]string{
		"PROJECT_TITLE": f.ProjectTitle,
		"VERSION":       f.Version,
		"BRANCH":        f.Branch,
		"COMMIT_ID":     f.CommitID,
		"AUTHOR":        f.Author,
		"DATE":          f.Date,
		"SUMMARY":       f.Summary,
		"HISTORY":       f.History,
		"TODOS":         f.Todos,
		"RULES":         f.Rules,
		"EXAMPLE":       f.Example,
	}
}
