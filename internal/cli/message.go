package cli

import (
	"github.com/spf13/cobra"
)

var messageCmd = &cobra.Command{
	Use:     "message [revision]",
	Aliases: []string{"msg"},
	Short:   "Draft a commit message from changes",
	Long: `Draft a commit message from repository changes.

Without arguments the working tree diff against HEAD is used. Pass a
revision to describe an existing commit, or a range like v1.0.0..HEAD
to cover several. The message prints to stdout unless --output is set.`,
	Example: `  # Uncommitted changes
  scribe message

  # Staged changes only
  scribe message --cached

  # An existing commit
  scribe message HEAD~1

  # Write straight into the commit message file
  scribe message --output .git/COMMIT_EDITMSG --output-mode overwrite`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocument(cmd, args, documentSpec{
			Template: "commit_message.md",
		})
	},
}

func init() {
	messageCmd.GroupID = GroupDocuments
	rootCmd.AddCommand(messageCmd)
	addDocumentFlags(messageCmd)
}
