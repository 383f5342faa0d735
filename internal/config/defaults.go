package config

// Defaults returns the built-in configuration values, the lowest-precedence
// source in the resolution chain.
func Defaults() map[string]string {
	return map[string]string{
		"api.url":         "http://localhost:1234/v1/chat/completions",
		"api.key":         "",
		"api.model":       "",
		"api.temperature": "0.7",
		"api.timeout":     "120",

		"project.title": "",

		"todos.pattern": `TODO|FIXME`,

		"version.file":    "",
		"version.pattern": `\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`,

		"output.mode": "auto",

		"changelog.file": "CHANGELOG.md",
		"release.file":   "RELEASE_NOTES.md",
		"announce.file":  "ANNOUNCEMENT.md",

		"templates.dir": "",

		"prompt.rules":   "",
		"prompt.example": "",
	}
}

// DefaultConfigTemplate returns a fully commented config file body used by
// `scribe init` to seed .scribe/config. It documents every supported key.
func DefaultConfigTemplate() string {
	return `# scribe configuration
# One key=value per line. Lines starting with '#' are ignored.
# Values may be wrapped in quotes to preserve surrounding whitespace.
#
# Precedence: command-line overrides > this file > user config > SCRIBE_* env > defaults
# Environment variables map underscores to dots: SCRIBE_API_MODEL -> api.model

# Completion provider (OpenAI-compatible chat completions endpoint)
#api.url=http://localhost:1234/v1/chat/completions
#api.key=
#api.model=
#api.temperature=0.7
#api.timeout=120

# Project identity used in rendered documents
#project.title=

# Pattern for extracting open items from diffs
#todos.pattern=TODO|FIXME

# Version detection: file to scan and the version pattern to match.
# When version.file is empty, common manifests are probed
# (package.json, pyproject.toml, Cargo.toml, VERSION).
#version.file=
#version.pattern=\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?

# Default output behavior: auto | prepend | append | update | overwrite | none
#output.mode=auto

# Default output targets per document kind
#changelog.file=CHANGELOG.md
#release.file=RELEASE_NOTES.md
#announce.file=ANNOUNCEMENT.md

# Extra template search directory (searched before user templates)
#templates.dir=

# Free-form guidance injected into prompts via {RULES} and {EXAMPLE}
#prompt.rules=
#prompt.example=
`
}
