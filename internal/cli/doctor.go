package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierrors "github.com/scribe-cli/scribe/internal/errors"
	"github.com/scribe-cli/scribe/internal/git"
	"github.com/scribe-cli/scribe/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that scribe can run in this environment",
	Long: `Check the environment: the git repository, the project config,
the built-in templates, and whether the completion endpoint responds.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupInternal
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	_, settings, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	root, err := git.RepositoryRoot("")
	if err != nil {
		root = "."
	}

	report := health.Run(health.Options{
		Root:     root,
		Settings: settings,
	})

	out := cmd.OutOrStdout()
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, check := range report.Checks {
		mark := pass("✓")
		if !check.Passed {
			mark = fail("✗")
		}
		fmt.Fprintf(out, "%s %-16s %s\n", mark, check.Name, check.Message)
	}

	if !report.Passed {
		return clierrors.NewRuntimeError("environment checks failed",
			"Fix the failing checks above and run 'scribe doctor' again")
	}
	return nil
}
