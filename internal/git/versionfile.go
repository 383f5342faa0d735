package git

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultVersionPattern matches semver-like version strings.
const DefaultVersionPattern = `\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`

// versionProbeFiles are the manifests probed when no version file is
// configured, in order.
var versionProbeFiles = []string{
	"package.json",
	"pyproject.toml",
	"Cargo.toml",
	"VERSION",
}

// DetectVersion finds the project version by scanning a version file with a
// pattern. When file is empty, common manifests are probed in order. The
// first pattern match in the first readable candidate wins; an absent
// version is returned as "" without error, since many documents render
// fine without one.
func DetectVersion(root, file, pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultVersionPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("compiling version pattern %q: %w", pattern, err)
	}

	candidates := versionProbeFiles
	if file != "" {
		candidates = []string{file}
	}

	for _, candidate := range candidates {
		path := candidate
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, candidate)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if match := re.FindString(string(data)); match != "" {
			logDebug("[git] version %s detected in %s", match, path)
			return match, nil
		}
	}
	return "", nil
}
