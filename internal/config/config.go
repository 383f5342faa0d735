// Package config provides layered configuration resolution for scribe using
// koanf. Values are merged with priority: per-invocation overrides > project
// config (.scribe/config) > user config (~/.config/scribe/config) > SCRIBE_*
// environment variables > built-in defaults.
//
// Config files are line-oriented key=value text; keys are dot-separated
// lowercase paths and values stay opaque strings until a consumer coerces
// them (see Settings).
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix recognized on environment variables.
// SCRIBE_API_MODEL maps to the api.model key.
const EnvPrefix = "SCRIBE_"

// Error reports a configuration source that exists but cannot be used.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LoadOptions configures how configuration sources are assembled.
type LoadOptions struct {
	// ProjectRoot anchors the project config lookup (default: current directory).
	ProjectRoot string
	// ProjectConfigPath overrides the project config path entirely.
	ProjectConfigPath string
	// Overrides are per-invocation values with the highest precedence.
	Overrides map[string]string
	// WarningWriter receives malformed-line diagnostics (default: os.Stderr).
	WarningWriter io.Writer
	// SkipEnv leaves the environment source out, for hermetic tests.
	SkipEnv bool
}

// Load assembles all standard sources and resolves them.
func Load(projectRoot string) (*Resolved, error) {
	return LoadWithOptions(LoadOptions{ProjectRoot: projectRoot})
}

// LoadWithOptions assembles the source chain per opts and resolves it.
// Missing config files are not errors; unreadable ones are.
func LoadWithOptions(opts LoadOptions) (*Resolved, error) {
	warn := opts.WarningWriter
	if warn == nil {
		warn = os.Stderr
	}

	sources := []Source{DefaultSource()}

	if !opts.SkipEnv {
		envSrc, err := EnvSource()
		if err != nil {
			return nil, err
		}
		sources = append(sources, envSrc)
	}

	userPath, err := UserConfigPath()
	if err == nil {
		userSrc, ok, err := FileSource(userPath, SourceUser, warn)
		if err != nil {
			return nil, err
		}
		if ok {
			sources = append(sources, userSrc)
		}
	}

	projectPath := opts.ProjectConfigPath
	if projectPath == "" {
		projectPath = ProjectConfigPath(opts.ProjectRoot)
	}
	projectSrc, ok, err := FileSource(projectPath, SourceProject, warn)
	if err != nil {
		return nil, err
	}
	if ok {
		sources = append(sources, projectSrc)
	}

	return Resolve(sources, opts.Overrides), nil
}

// DefaultSource returns the built-in defaults as a source snapshot.
func DefaultSource() Source {
	return Source{Kind: SourceDefault, Values: Defaults()}
}

// EnvSource snapshots SCRIBE_-prefixed environment variables.
// Underscores in the remainder become key-path dots, so supported keys never
// use underscores inside a segment.
func EnvSource() (Source, error) {
	k := koanf.New(Delim)
	if err := k.Load(env.Provider(EnvPrefix, Delim, envTransform), nil); err != nil {
		return Source{}, fmt.Errorf("loading environment config: %w", err)
	}
	return Source{Kind: SourceEnv, Values: flatten(k)}, nil
}

// FileSource snapshots one key=value config file. The second return is false
// when the file does not exist, which callers treat as "source absent".
func FileSource(path string, kind SourceKind, warn io.Writer) (Source, bool, error) {
	if path == "" {
		return Source{}, false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Source{}, false, nil
		}
		return Source{}, false, &Error{Path: path, Err: err}
	}

	k := koanf.New(Delim)
	parser := NewKVParser(WithWarnings(warn, path))
	if err := k.Load(file.Provider(path), parser); err != nil {
		return Source{}, false, &Error{Path: path, Err: err}
	}

	return Source{Kind: kind, Path: path, Values: flatten(k)}, true, nil
}

// flatten converts a scratch koanf instance into a plain string map snapshot.
func flatten(k *koanf.Koanf) map[string]string {
	all := k.All()
	out := make(map[string]string, len(all))
	for key, value := range all {
		out[key] = fmt.Sprintf("%v", value)
	}
	return out
}

// envTransform converts environment variable names to config keys.
// Example: SCRIBE_API_MODEL -> api.model
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", Delim)
}
