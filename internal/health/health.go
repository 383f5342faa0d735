// Package health runs environment checks for the doctor command. It
// validates that scribe can see a git repository, load configuration, reach
// the completion endpoint, and resolve its built-in templates.
package health

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/scribe-cli/scribe/internal/config"
	"github.com/scribe-cli/scribe/internal/git"
	"github.com/scribe-cli/scribe/internal/template"
)

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// Report contains all health check results.
type Report struct {
	Checks []CheckResult
	Passed bool
}

// Options configures a health check run.
type Options struct {
	// Root is the project directory checked for configuration.
	Root string
	// Settings supplies the endpoint to probe. Nil skips the endpoint check.
	Settings *config.Settings
	// HTTPClient overrides the probe client, for tests.
	HTTPClient *http.Client
}

// Run executes all health checks and returns a report.
func Run(opts Options) *Report {
	report := &Report{Passed: true}

	add := func(check CheckResult) {
		report.Checks = append(report.Checks, check)
		if !check.Passed {
			report.Passed = false
		}
	}

	add(CheckRepository(opts.Root))
	add(CheckProjectConfig(opts.Root))
	add(CheckTemplates())
	if opts.Settings != nil {
		add(CheckEndpoint(opts.HTTPClient, opts.Settings.API.URL))
	}

	return report
}

// CheckRepository reports whether the directory is inside a git repository.
func CheckRepository(root string) CheckResult {
	if !git.IsRepository(root) {
		return CheckResult{
			Name:    "Repository",
			Passed:  false,
			Message: "not inside a git repository",
		}
	}
	return CheckResult{
		Name:    "Repository",
		Passed:  true,
		Message: "git repository found",
	}
}

// CheckProjectConfig reports whether a project config file exists. A missing
// file passes since defaults cover every key, but the message says so.
func CheckProjectConfig(root string) CheckResult {
	path := config.ProjectConfigPath(root)
	if _, err := os.Stat(path); err != nil {
		return CheckResult{
			Name:    "Project config",
			Passed:  true,
			Message: fmt.Sprintf("%s not found, using defaults (run 'scribe init' to create it)", path),
		}
	}
	return CheckResult{
		Name:    "Project config",
		Passed:  true,
		Message: path,
	}
}

// CheckTemplates reports whether the built-in template set is readable.
func CheckTemplates() CheckResult {
	names, err := template.BuiltinNames()
	if err != nil || len(names) == 0 {
		return CheckResult{
			Name:    "Templates",
			Passed:  false,
			Message: "built-in templates unavailable",
		}
	}
	return CheckResult{
		Name:    "Templates",
		Passed:  true,
		Message: fmt.Sprintf("%d built-in templates", len(names)),
	}
}

// CheckEndpoint probes the completion endpoint. Any HTTP response counts as
// reachable, since OpenAI-compatible servers reject bare GETs with 404/405.
func CheckEndpoint(client *http.Client, url string) CheckResult {
	if url == "" {
		return CheckResult{
			Name:    "Endpoint",
			Passed:  false,
			Message: "api.url is not set",
		}
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return CheckResult{
			Name:    "Endpoint",
			Passed:  false,
			Message: fmt.Sprintf("%s unreachable: %v", url, err),
		}
	}
	resp.Body.Close()

	return CheckResult{
		Name:    "Endpoint",
		Passed:  true,
		Message: fmt.Sprintf("%s reachable (HTTP %d)", url, resp.StatusCode),
	}
}
