package cli

import (
	"github.com/spf13/cobra"

	clierrors "github.com/scribe-cli/scribe/internal/errors"
)

var documentCmd = &cobra.Command{
	Use:   "document [revision]",
	Short: "Render an arbitrary template into a document",
	Long: `Render any template against the repository facts.

Unlike the named document commands, --template is required and may be a
template name resolved through the usual search chain or a path to a
template file. Without --output the result prints to stdout; with it,
output.mode decides how content lands unless --output-mode overrides.`,
	Example: `  # A custom project template by name
  scribe document --template weekly_summary

  # A one-off template file, written to a report
  scribe document --template ./notes/report.md --output REPORT.md`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tmpl, _ := cmd.Flags().GetString("template"); tmpl == "" {
			return clierrors.NewArgumentErrorWithUsage(
				"--template is required",
				"scribe document --template <name|path> [revision]",
				"Run 'scribe template list' to see available templates")
		}
		return runDocument(cmd, args, documentSpec{})
	},
}

func init() {
	documentCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(documentCmd)
	addDocumentFlags(documentCmd)
}
