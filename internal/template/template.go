// Package template locates and renders scribe's prompt templates.
//
// A template is a plain text or Markdown document containing {NAME}
// placeholder tokens. Templates resolve through a precedence chain: an
// explicit path beats the project templates directory, which beats the user
// templates directory, which beats the embedded built-in set. Built-in
// templates may carry YAML frontmatter with display metadata.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Origin records where a located template came from, for diagnostics.
type Origin string

const (
	OriginExplicit Origin = "explicit"
	OriginProject  Origin = "project"
	OriginUser     Origin = "user"
	OriginBuiltin  Origin = "builtin"
)

// Template is an immutable template document with its resolution origin.
type Template struct {
	Name   string
	Origin Origin
	Path   string // empty for built-in templates
	Meta   Meta
	Body   string // frontmatter already stripped
}

// NotFoundError reports that no candidate existed anywhere in the chain.
type NotFoundError struct {
	Name   string
	Probed []string
}

func (e *NotFoundError) Error() string {
	if len(e.Probed) == 0 {
		return fmt.Sprintf("template %q not found", e.Name)
	}
	return fmt.Sprintf("template %q not found (searched: %s)", e.Name, strings.Join(e.Probed, ", "))
}

// LocateOptions describes one template lookup.
type LocateOptions struct {
	// ExplicitPath, when set, is used unconditionally if readable.
	// Absolute paths are trusted as user intent; relative paths are resolved
	// against Root and must not escape it.
	ExplicitPath string
	// Name is the template filename probed in SearchDirs and the built-in
	// set, e.g. "commit_message.md".
	Name string
	// SearchDirs are probed in order; typically project then user templates.
	SearchDirs []SearchDir
	// Root is the safe anchor for relative explicit paths
	// (default: current directory).
	Root string
}

// SearchDir is one directory in the template search chain.
type SearchDir struct {
	Path   string
	Origin Origin
}

// Locate resolves a template through the precedence chain.
func Locate(opts LocateOptions) (*Template, error) {
	if opts.ExplicitPath != "" {
		return locateExplicit(opts.ExplicitPath, opts.Root)
	}

	probed := make([]string, 0, len(opts.SearchDirs)+1)
	for _, dir := range opts.SearchDirs {
		if dir.Path == "" {
			continue
		}
		path := filepath.Join(dir.Path, opts.Name)
		probed = append(probed, path)

		body, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading template %s: %w", path, err)
		}
		return newTemplate(opts.Name, dir.Origin, path, body), nil
	}

	if body, err := Builtin(opts.Name); err == nil {
		return newTemplate(opts.Name, OriginBuiltin, "", body), nil
	}
	probed = append(probed, "built-in set")

	return nil, &NotFoundError{Name: opts.Name, Probed: probed}
}

// locateExplicit loads a caller-named template path.
func locateExplicit(path, root string) (*Template, error) {
	resolved := path
	if !filepath.IsAbs(path) {
		if root == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("resolving template path: %w", err)
			}
			root = cwd
		}
		var err error
		resolved, err = secureJoin(root, path)
		if err != nil {
			return nil, err
		}
	}

	body, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", resolved, err)
	}
	return newTemplate(filepath.Base(resolved), OriginExplicit, resolved, body), nil
}

// secureJoin joins a relative path onto root and rejects traversal outside it.
func secureJoin(root, rel string) (string, error) {
	joined := filepath.Clean(filepath.Join(root, rel))

	relToRoot, err := filepath.Rel(root, joined)
	if err != nil || relToRoot == ".." || strings.HasPrefix(relToRoot, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("template path %q escapes project root", rel)
	}
	return joined, nil
}

func newTemplate(name string, origin Origin, path string, raw []byte) *Template {
	meta, body := SplitFrontmatter(raw)
	return &Template{
		Name:   name,
		Origin: origin,
		Path:   path,
		Meta:   meta,
		Body:   string(body),
	}
}
