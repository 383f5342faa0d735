package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scribe-cli/scribe/internal/config"
	clierrors "github.com/scribe-cli/scribe/internal/errors"
	"github.com/scribe-cli/scribe/internal/git"
	"github.com/scribe-cli/scribe/internal/merge"
	"github.com/scribe-cli/scribe/internal/progress"
	"github.com/scribe-cli/scribe/internal/provider"
	"github.com/scribe-cli/scribe/internal/template"
)

// documentSpec describes one generated document kind: which template it
// renders by default and where its output lands.
type documentSpec struct {
	// Template is the default template name, e.g. "changelog.md".
	Template string
	// DefaultOutput resolves the configured output file. Nil or an empty
	// result means the document goes to stdout.
	DefaultOutput func(s *config.Settings) string
	// DefaultMode applies when an output file is in play and no
	// --output-mode flag was given. Empty falls back to output.mode.
	DefaultMode merge.Mode
}

// addDocumentFlags attaches the flags shared by all document commands.
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("template", "t", "", "Template name or path overriding the default")
	cmd.Flags().StringP("output", "o", "", "Output file (overrides the configured default)")
	cmd.Flags().String("output-mode", "", "How content lands in the output file (auto|prepend|append|update|overwrite|none)")
	cmd.Flags().Bool("cached", false, "Use staged changes instead of the working tree")
}

// parseOverrides turns repeated --set key=value flags into an override map.
func parseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = config.NormalizeKey(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, clierrors.NewArgumentError(
				fmt.Sprintf("invalid --set value %q", pair),
				"Use --set key=value, e.g. --set api.model=qwen2.5-coder")
		}
		overrides[key] = value
	}
	return overrides, nil
}

// loadConfig resolves configuration for one invocation, anchored at the
// repository root when inside one. Config commands work outside a
// repository too, falling back to the current directory.
func loadConfig(cmd *cobra.Command) (*config.Resolved, *config.Settings, string, error) {
	root, err := git.RepositoryRoot("")
	if err != nil {
		root = "."
	}

	overrides, err := parseOverrides(setFlags)
	if err != nil {
		return nil, nil, "", err
	}

	resolved, err := config.LoadWithOptions(config.LoadOptions{
		ProjectRoot:       root,
		ProjectConfigPath: configFlag,
		Overrides:         overrides,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, "", clierrors.Wrap(err, clierrors.Configuration,
			"Check the config file exists and is readable")
	}

	settings, err := resolved.Settings()
	if err != nil {
		return nil, nil, "", clierrors.Wrap(err, clierrors.Configuration,
			"Check numeric keys like api.temperature and api.timeout hold numbers")
	}

	return resolved, settings, root, nil
}

// templateSearchDirs builds the project-then-user search chain.
func templateSearchDirs(settings *config.Settings, root string) []template.SearchDir {
	projectDir := settings.Templates.Dir
	switch {
	case projectDir == "":
		projectDir = config.ProjectTemplatesDir(root)
	case !filepath.IsAbs(projectDir):
		projectDir = filepath.Join(root, projectDir)
	}

	dirs := []template.SearchDir{
		{Path: projectDir, Origin: template.OriginProject},
	}
	if userDir, err := config.UserTemplatesDir(); err == nil {
		dirs = append(dirs, template.SearchDir{Path: userDir, Origin: template.OriginUser})
	}
	return dirs
}

// isTemplatePath reports whether a --template value names a file path
// rather than a template name.
func isTemplatePath(v string) bool {
	return filepath.IsAbs(v) || strings.ContainsRune(v, '/') || strings.ContainsRune(v, filepath.Separator)
}

// locateTemplate resolves the template for a document command, honoring the
// --template flag as either a name or a path.
func locateTemplate(cmd *cobra.Command, defaultName string, settings *config.Settings, root string) (*template.Template, error) {
	opts := template.LocateOptions{
		Name:       defaultName,
		SearchDirs: templateSearchDirs(settings, root),
		Root:       root,
	}

	if flagValue, _ := cmd.Flags().GetString("template"); flagValue != "" {
		if isTemplatePath(flagValue) {
			opts.ExplicitPath = flagValue
			opts.Name = ""
		} else {
			if !strings.HasSuffix(flagValue, ".md") {
				flagValue += ".md"
			}
			opts.Name = flagValue
		}
	}

	tmpl, err := template.Locate(opts)
	if err != nil {
		var notFound *template.NotFoundError
		if errors.As(err, &notFound) {
			return nil, clierrors.Wrap(err, clierrors.Template,
				"Run 'scribe template list' to see available templates")
		}
		return nil, clierrors.Wrap(err, clierrors.Template)
	}
	return tmpl, nil
}

// newClient builds the provider client from resolved settings.
func newClient(settings *config.Settings) provider.Client {
	return provider.NewHTTPClient(provider.Options{
		URL:         settings.API.URL,
		Model:       settings.API.Model,
		APIKey:      settings.API.Key,
		Temperature: settings.API.Temperature,
		Timeout:     time.Duration(settings.API.Timeout) * time.Second,
	})
}

// outputTarget resolves where the document lands and how.
func outputTarget(cmd *cobra.Command, settings *config.Settings, doc documentSpec) (string, merge.Mode, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" && doc.DefaultOutput != nil {
		path = doc.DefaultOutput(settings)
	}

	if modeStr, _ := cmd.Flags().GetString("output-mode"); modeStr != "" {
		mode, err := merge.ParseMode(modeStr)
		if err != nil {
			return "", "", clierrors.NewArgumentError(err.Error())
		}
		if path == "" && mode != merge.ModeNone {
			return "", "", clierrors.NewArgumentError(
				fmt.Sprintf("--output-mode %s requires an output file", mode),
				"Pass --output <file> or set output.file in the config")
		}
		return path, mode, nil
	}

	if path == "" {
		return "", merge.ModeNone, nil
	}
	if doc.DefaultMode != "" {
		return path, doc.DefaultMode, nil
	}

	mode, err := merge.ParseMode(settings.Output.Mode)
	if err != nil {
		return "", "", clierrors.Wrap(err, clierrors.Configuration,
			"Set output.mode to one of auto|prepend|append|update|overwrite|none")
	}
	return path, mode, nil
}

// revisionTarget picks the diff target from args and the --cached flag.
func revisionTarget(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cached, _ := cmd.Flags().GetBool("cached"); cached {
		return "--cached"
	}
	return ""
}

// runDocument is the shared pipeline behind every document command:
// resolve config, gather repository facts, render the template, call the
// provider, and merge the result into the output target.
func runDocument(cmd *cobra.Command, args []string, doc documentSpec) error {
	_, settings, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	facts, err := git.Gather(git.GatherOptions{
		Target:         revisionTarget(cmd, args),
		ProjectTitle:   settings.Project.Title,
		TodosPattern:   settings.Todos.Pattern,
		VersionFile:    settings.Version.File,
		VersionPattern: settings.Version.Pattern,
		Rules:          settings.Prompt.Rules,
		Example:        settings.Prompt.Example,
	})
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "gathering repository context failed",
			"Run inside a git repository and pass a valid revision target")
	}

	tmpl, err := locateTemplate(cmd, doc.Template, settings, root)
	if err != nil {
		return err
	}

	prompt := template.Render(tmpl, facts.Context())

	var generated string
	if dryRunFlag {
		generated, _ = provider.Dry{}.Complete(cmd.Context(), prompt)
	} else {
		label := settings.API.Model
		if label == "" {
			label = "model"
		}

		errW := cmd.ErrOrStderr()
		var spin *progress.Spinner
		if verboseFlag {
			fmt.Fprintf(errW, "Querying %s\n", label)
		} else {
			spin = progress.NewSpinner(errW)
			spin.Start("Querying " + label)
		}

		generated, err = newClient(settings).Complete(cmd.Context(), prompt)
		if err != nil {
			if spin != nil {
				spin.Stop(false, "generation failed")
			}
			return clierrors.WrapWithMessage(err, clierrors.Provider, "completion request failed",
				"Check api.url points at a running OpenAI-compatible endpoint",
				"Set SCRIBE_API_KEY if the endpoint requires authentication")
		}
		if spin != nil {
			spin.Stop(true, "generated")
		}
	}

	outputPath, mode, err := outputTarget(cmd, settings, doc)
	if err != nil {
		return err
	}

	versionLabel := facts.Version
	if cmd.Flags().Lookup("version-label") != nil {
		if v, _ := cmd.Flags().GetString("version-label"); v != "" {
			versionLabel = v
		}
	}

	result, err := merge.Apply(generated, merge.Target{
		Path:         outputPath,
		Mode:         mode,
		VersionLabel: versionLabel,
		DryRun:       dryRunFlag,
		Out:          cmd.OutOrStdout(),
	})
	if err != nil {
		return clierrors.Wrap(err, clierrors.Output,
			"Check the output path is writable")
	}

	if result.WrittenPath != "" {
		verb := "Updated"
		if result.Created {
			verb = "Created"
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", verb, result.WrittenPath)
		if result.BackupPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Backup written to %s\n", result.BackupPath)
		}
	}
	return nil
}
