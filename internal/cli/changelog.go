package cli

import (
	"github.com/spf13/cobra"

	"github.com/scribe-cli/scribe/internal/config"
	"github.com/scribe-cli/scribe/internal/merge"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog [revision]",
	Short: "Update the changelog from recent history",
	Long: `Generate a changelog entry and merge it into the changelog file.

The target file defaults to changelog.file (CHANGELOG.md). When the file
already has versioned sections, the section matching the detected version
is replaced in place; otherwise the new entry lands after the preamble.
Pass a range like v1.1.0..HEAD to cover everything since a release.`,
	Example: `  # Everything since the last tag
  scribe changelog v1.1.0..HEAD

  # Uncommitted work, previewed without writing
  scribe changelog --dry-run

  # Force a specific section label
  scribe changelog --version-label 2.0.0`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocument(cmd, args, documentSpec{
			Template: "changelog.md",
			DefaultOutput: func(s *config.Settings) string {
				return s.Changelog.File
			},
			DefaultMode: merge.ModeAuto,
		})
	},
}

func init() {
	changelogCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(changelogCmd)
	addDocumentFlags(changelogCmd)
	changelogCmd.Flags().String("version-label", "", "Section label to update (default: detected version)")
}
