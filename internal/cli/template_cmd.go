package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/scribe-cli/scribe/internal/config"
	clierrors "github.com/scribe-cli/scribe/internal/errors"
	"github.com/scribe-cli/scribe/internal/git"
	"github.com/scribe-cli/scribe/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Inspect and check prompt templates",
	Long: `Inspect and check prompt templates.

Templates are resolved in order: project templates (.scribe/templates),
user templates, then the built-in set. A project template with the same
name as a built-in shadows it.`,
	Example: `  # See every template and where it comes from
  scribe template list

  # Print a template body
  scribe template show changelog

  # Check a template while editing it
  scribe template lint .scribe/templates/changelog.md --watch`,
}

var templateListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List available templates and their origins",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, settings, root, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dirs := templateSearchDirs(settings, root)

		names := map[string]bool{}
		builtins, err := template.BuiltinNames()
		if err != nil {
			return clierrors.Wrap(err, clierrors.Template)
		}
		for _, name := range builtins {
			names[name] = true
		}
		for _, dir := range dirs {
			entries, err := os.ReadDir(dir.Path)
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
					names[entry.Name()] = true
				}
			}
		}

		sorted := make([]string, 0, len(names))
		for name := range names {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)

		out := cmd.OutOrStdout()
		for _, name := range sorted {
			tmpl, err := template.Locate(template.LocateOptions{
				Name:       name,
				SearchDirs: dirs,
				Root:       root,
			})
			if err != nil {
				continue
			}
			desc := tmpl.Meta.Description
			if desc == "" {
				desc = "-"
			}
			fmt.Fprintf(out, "%-24s %-8s %s\n", name, tmpl.Origin, desc)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:          "show <name>",
	Short:        "Print a template body",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, settings, root, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		name := args[0]
		if !strings.HasSuffix(name, ".md") {
			name += ".md"
		}
		tmpl, err := template.Locate(template.LocateOptions{
			Name:       name,
			SearchDirs: templateSearchDirs(settings, root),
			Root:       root,
		})
		if err != nil {
			return clierrors.Wrap(err, clierrors.Template,
				"Run 'scribe template list' to see available templates")
		}

		fmt.Fprint(cmd.OutOrStdout(), tmpl.Body)
		return nil
	},
}

var templateLintCmd = &cobra.Command{
	Use:   "lint <name|path>",
	Short: "Check a template for unknown placeholders",
	Long: `Check a template for placeholders that will never resolve.

Every {TOKEN} in the body is compared against the known placeholder set.
Unknown tokens fail the lint, since they would pass through to the
provider verbatim. With --watch the file is re-checked on every save.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, settings, root, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		tmpl, err := lintTarget(args[0], settings, root)
		if err != nil {
			return err
		}

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return lintTemplate(cmd, tmpl)
		}

		if tmpl.Path == "" {
			return clierrors.NewArgumentError(
				"built-in templates cannot be watched",
				"Copy it into .scribe/templates first with 'scribe init'")
		}
		return watchTemplate(cmd, tmpl.Path, settings, root)
	},
}

func init() {
	templateCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateListCmd, templateShowCmd, templateLintCmd)

	templateLintCmd.Flags().Bool("watch", false, "Re-check the template on every change")
}

// lintTarget resolves the lint argument as a path or a template name.
func lintTarget(arg string, settings *config.Settings, root string) (*template.Template, error) {
	opts := template.LocateOptions{
		SearchDirs: templateSearchDirs(settings, root),
		Root:       root,
	}
	if isTemplatePath(arg) {
		opts.ExplicitPath = arg
	} else {
		if !strings.HasSuffix(arg, ".md") {
			arg += ".md"
		}
		opts.Name = arg
	}

	tmpl, err := template.Locate(opts)
	if err != nil {
		return nil, clierrors.Wrap(err, clierrors.Template)
	}
	return tmpl, nil
}

// knownPlaceholders is the set of tokens the render context always carries.
func knownPlaceholders() map[string]bool {
	known := map[string]bool{}
	for key := range (&git.Facts{}).Context() {
		known[key] = true
	}
	return known
}

// lintTemplate reports unknown placeholders in one template.
func lintTemplate(cmd *cobra.Command, tmpl *template.Template) error {
	known := knownPlaceholders()

	var unknown []string
	for _, token := range template.Tokens(tmpl.Body) {
		if !known[token] {
			unknown = append(unknown, token)
		}
	}

	out := cmd.OutOrStdout()
	if len(unknown) > 0 {
		return clierrors.NewTemplateError(
			fmt.Sprintf("%s: unknown placeholders: %s", tmpl.Name, strings.Join(unknown, ", ")),
			"Known placeholders: "+strings.Join(sortedKeys(known), ", "))
	}

	fmt.Fprintf(out, "%s: ok (%d placeholders)\n", tmpl.Name, len(template.Tokens(tmpl.Body)))
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// watchTemplate re-lints the file whenever it changes. The directory is
// watched rather than the file so editors that replace the file on save
// keep triggering events.
func watchTemplate(cmd *cobra.Command, path string, settings *config.Settings, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	errW := cmd.ErrOrStderr()
	fmt.Fprintf(errW, "Watching %s (Ctrl+C to stop)\n", path)

	relint := func() {
		tmpl, err := lintTarget(abs, settings, root)
		if err != nil {
			fmt.Fprintf(errW, "%v\n", err)
			return
		}
		if err := lintTemplate(cmd, tmpl); err != nil {
			fmt.Fprintf(errW, "%v\n", err)
		}
	}
	relint()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				relint()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errW, "watch error: %v\n", err)
		case <-cmd.Context().Done():
			return nil
		}
	}
}
