package cli

import (
	"github.com/spf13/cobra"

	"github.com/scribe-cli/scribe/internal/config"
	"github.com/scribe-cli/scribe/internal/merge"
)

var announceCmd = &cobra.Command{
	Use:   "announce [revision]",
	Short: "Write a release announcement",
	Long: `Generate a marketing-style release announcement.

The target file defaults to announce.file (ANNOUNCEMENT.md) and is
replaced wholesale on each run, since announcements are standalone
documents rather than accumulating logs.`,
	Example: `  # Announce the work since the last release
  scribe announce v1.1.0..HEAD`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocument(cmd, args, documentSpec{
			Template: "announcement.md",
			DefaultOutput: func(s *config.Settings) string {
				return s.Announce.File
			},
			DefaultMode: merge.ModeOverwrite,
		})
	},
}

func init() {
	announceCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(announceCmd)
	addDocumentFlags(announceCmd)
}
