// Package cli implements the scribe command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/scribe-cli/scribe/internal/errors"
	"github.com/scribe-cli/scribe/internal/git"
	"github.com/scribe-cli/scribe/internal/version"
)

// Command group IDs for help output.
const (
	GroupDocuments     = "documents"
	GroupConfiguration = "configuration"
	GroupInternal      = "internal"
)

var (
	configFlag  string
	setFlags    []string
	dryRunFlag  bool
	verboseFlag bool
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "Turn git history into commit messages, changelogs, and release notes",
	Long: `Scribe renders git history through prompt templates and an
OpenAI-compatible completion endpoint to produce project documents:
commit messages, changelogs, release notes, and announcements.

Configuration is resolved with the following priority (highest to lowest):
  1. --set overrides on the command line
  2. Project config (.scribe/config)
  3. User config (e.g. ~/.config/scribe/config)
  4. Environment variables (SCRIBE_*)
  5. Built-in defaults`,
	Example: `  # Draft a commit message for uncommitted changes
  scribe message

  # Update CHANGELOG.md with everything since v1.1.0
  scribe changelog v1.1.0..HEAD

  # Preview the release notes prompt without calling the provider
  scribe release-notes --dry-run`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag || verboseFlag {
			errW := cmd.ErrOrStderr()
			git.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(errW, format+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupDocuments, Title: "Documents:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
		&cobra.Group{ID: GroupInternal, Title: "Internal:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Project config file (default .scribe/config)")
	pf.StringArrayVar(&setFlags, "set", nil, "Override a config value for this run (key=value, repeatable)")
	pf.BoolVar(&dryRunFlag, "dry-run", false, "Preview the prompt and output without calling the provider or writing files")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "Plain progress lines instead of a spinner, plus debug logging")
	pf.BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Execute runs the command tree and prints any resulting error once, with
// remediation guidance when available.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if cliErr := clierrors.AsCLIError(err); cliErr != nil {
			clierrors.PrintError(cliErr)
		} else {
			clierrors.PrintSimpleError(err, clierrors.Runtime)
		}
	}
	return err
}
