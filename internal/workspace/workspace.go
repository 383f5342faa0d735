// Package workspace scaffolds and tracks the .scribe project directory.
// It seeds the commented config file and the built-in templates, and keeps
// an init.yml state file recording how the project was initialized.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scribe-cli/scribe/internal/config"
	"github.com/scribe-cli/scribe/internal/merge"
	"github.com/scribe-cli/scribe/internal/template"
)

// SchemaVersion is the current version of the init.yml schema.
const SchemaVersion = "1.0.0"

// StateFileName is the name of the init state file inside .scribe/.
const StateFileName = "init.yml"

// State is the contents of .scribe/init.yml, tracking how the project was
// initialized.
type State struct {
	// Version is the schema version for future compatibility.
	Version string `yaml:"version"`

	// ScribeVersion is the binary version that ran init.
	ScribeVersion string `yaml:"scribe_version"`

	// InitializedAt is the RFC 3339 timestamp of the last init run.
	InitializedAt string `yaml:"initialized_at"`

	// Templates lists the template files installed into the project.
	Templates []string `yaml:"templates,omitempty"`
}

// InitOptions configures project initialization.
type InitOptions struct {
	// Root is the project directory (default: current directory).
	Root string
	// Force overwrites existing config and templates.
	Force bool
	// ScribeVersion is recorded in the state file.
	ScribeVersion string
}

// InitResult reports what Init created or left alone.
type InitResult struct {
	ConfigPath         string
	ConfigCreated      bool
	TemplatesDir       string
	TemplatesInstalled []string
	TemplatesSkipped   []string
}

// Init scaffolds the .scribe directory: the commented config file, the
// built-in templates, and the init state file. Existing files are left
// untouched unless Force is set.
func Init(opts InitOptions) (*InitResult, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}

	result := &InitResult{
		ConfigPath:   config.ProjectConfigPath(root),
		TemplatesDir: config.ProjectTemplatesDir(root),
	}

	if err := os.MkdirAll(result.TemplatesDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", result.TemplatesDir, err)
	}

	if _, err := os.Stat(result.ConfigPath); os.IsNotExist(err) || opts.Force {
		body := []byte(config.DefaultConfigTemplate())
		if err := merge.WriteFileAtomic(result.ConfigPath, body, 0o644); err != nil {
			return nil, err
		}
		result.ConfigCreated = true
	}

	names, err := template.BuiltinNames()
	if err != nil {
		return nil, fmt.Errorf("listing built-in templates: %w", err)
	}
	for _, name := range names {
		dest := filepath.Join(result.TemplatesDir, name)
		if _, err := os.Stat(dest); err == nil && !opts.Force {
			result.TemplatesSkipped = append(result.TemplatesSkipped, name)
			continue
		}
		body, err := template.Builtin(name)
		if err != nil {
			return nil, fmt.Errorf("reading built-in template %s: %w", name, err)
		}
		if err := merge.WriteFileAtomic(dest, body, 0o644); err != nil {
			return nil, err
		}
		result.TemplatesInstalled = append(result.TemplatesInstalled, name)
	}

	state := &State{
		Version:       SchemaVersion,
		ScribeVersion: opts.ScribeVersion,
		InitializedAt: time.Now().Format(time.RFC3339),
		Templates:     names,
	}
	if err := SaveState(root, state); err != nil {
		return nil, err
	}

	return result, nil
}

// StatePath returns the init state file path for a project root.
func StatePath(root string) string {
	return filepath.Join(root, config.ProjectDirName, StateFileName)
}

// LoadState reads the init state file. A missing file returns nil without
// error, meaning the project was never initialized.
func LoadState(root string) (*State, error) {
	data, err := os.ReadFile(StatePath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", StatePath(root), err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", StatePath(root), err)
	}
	return &state, nil
}

// SaveState writes the init state file atomically.
func SaveState(root string, state *State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding init state: %w", err)
	}
	return merge.WriteFileAtomic(StatePath(root), data, 0o644)
}
