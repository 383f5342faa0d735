package config

import (
	"os"
	"path/filepath"
)

// ProjectDirName is the per-project scribe directory.
const ProjectDirName = ".scribe"

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
//   - Linux: ~/.config/scribe/config
//   - macOS: ~/Library/Application Support/scribe/config
//   - Windows: %APPDATA%\scribe\config
//
// If XDG_CONFIG_HOME is set, it is respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "scribe", "config"), nil
}

// UserTemplatesDir returns the user-level template directory.
func UserTemplatesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "scribe", "templates"), nil
}

// ProjectConfigPath returns the project-level config file path,
// .scribe/config relative to the given project root (or the current
// directory when root is empty).
func ProjectConfigPath(root string) string {
	return filepath.Join(root, ProjectDirName, "config")
}

// ProjectTemplatesDir returns the project-level template directory.
func ProjectTemplatesDir(root string) string {
	return filepath.Join(root, ProjectDirName, "templates")
}
