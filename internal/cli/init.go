package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/scribe-cli/scribe/internal/errors"
	"github.com/scribe-cli/scribe/internal/git"
	"github.com/scribe-cli/scribe/internal/version"
	"github.com/scribe-cli/scribe/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the .scribe project directory",
	Long: `Initialize scribe for this project.

This command creates .scribe/ with a fully commented config file and a
copy of every built-in template, so both can be edited in place. Existing
files are left untouched unless --force is given.`,
	Example: `  scribe init           # Create .scribe/config and templates
  scribe init --force   # Reset config and templates to defaults`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runInit,
}

func init() {
	initCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config and templates")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	root, err := git.RepositoryRoot("")
	if err != nil {
		root = "."
	}

	result, err := workspace.Init(workspace.InitOptions{
		Root:          root,
		Force:         force,
		ScribeVersion: version.Version,
	})
	if err != nil {
		return clierrors.Wrap(err, clierrors.Configuration,
			"Check the project directory is writable")
	}

	out := cmd.OutOrStdout()
	if result.ConfigCreated {
		fmt.Fprintf(out, "✓ Config: created at %s\n", result.ConfigPath)
	} else {
		fmt.Fprintf(out, "✓ Config: unchanged at %s\n", result.ConfigPath)
	}
	fmt.Fprintf(out, "✓ Templates: %d installed, %d unchanged → %s/\n",
		len(result.TemplatesInstalled), len(result.TemplatesSkipped), result.TemplatesDir)
	return nil
}
