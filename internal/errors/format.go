package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Terminal palette for error output. The color package disables itself on
// non-TTY writers and under NO_COLOR, so there is no separate plain path.
var (
	headline    = color.New(color.FgRed, color.Bold).SprintFunc()
	messageText = color.New(color.FgRed).SprintFunc()
	categoryTag = color.New(color.FgYellow).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	fixHeadline = color.New(color.FgGreen, color.Bold).SprintFunc()
	fixBullet   = color.New(color.FgGreen).SprintFunc()
)

// FormatError renders a CLIError for the terminal: the categorized message
// first, correct usage when an argument was at fault, then the remediation
// steps as a bulleted list.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		headline("Error"), categoryTag(err.Category.String()), messageText(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", usageText("Usage:"), usageText(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", fixHeadline("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", fixBullet("•"), step)
		}
	}
	return sb.String()
}

// PrintError prints a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError dresses a plain error up in a category so it prints
// the same way a CLIError does.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}

// PrintSimpleError prints a formatted regular error to stderr.
func PrintSimpleError(err error, category ErrorCategory) {
	fmt.Fprint(os.Stderr, FormatSimpleError(err, category))
}
