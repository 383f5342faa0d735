package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribe-cli/scribe/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "scribe %s (commit %s, built %s)\n",
			version.Version, version.Commit, version.BuildDate)
		return nil
	},
}

func init() {
	versionCmd.GroupID = GroupInternal
	rootCmd.AddCommand(versionCmd)
}
