package cli

import (
	"github.com/spf13/cobra"

	"github.com/scribe-cli/scribe/internal/config"
	"github.com/scribe-cli/scribe/internal/merge"
)

var releaseNotesCmd = &cobra.Command{
	Use:   "release-notes [revision]",
	Short: "Generate release notes for a version",
	Long: `Generate release notes and merge them into the release notes file.

The target file defaults to release.file (RELEASE_NOTES.md). Sections are
matched by the detected version, so regenerating notes for the same
version replaces its section instead of duplicating it.`,
	Example: `  # Notes for everything since the last release
  scribe release-notes v1.1.0..HEAD

  # Print to stdout instead of the file
  scribe release-notes --output-mode none`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocument(cmd, args, documentSpec{
			Template: "release_notes.md",
			DefaultOutput: func(s *config.Settings) string {
				return s.Release.File
			},
			DefaultMode: merge.ModeAuto,
		})
	},
}

func init() {
	releaseNotesCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(releaseNotesCmd)
	addDocumentFlags(releaseNotesCmd)
	releaseNotesCmd.Flags().String("version-label", "", "Section label to update (default: detected version)")
}
