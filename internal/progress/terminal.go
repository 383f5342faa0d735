// Package progress renders activity feedback for long-running provider
// calls, degrading gracefully when stdout is not a terminal.
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the current terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// Symbols is the glyph set used for progress feedback.
type Symbols struct {
	Checkmark string
	Failure   string
	// SpinnerSet indexes into spinner.CharSets.
	SpinnerSet int
}

// DetectTerminalCapabilities detects terminal features.
// Checks: stdout isatty, NO_COLOR env, SCRIBE_ASCII env, terminal width.
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("SCRIBE_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the symbol set for the detected capabilities.
// Unicode terminals get braille spinner frames, everything else gets | / - \
// so output stays readable in any terminal.
func SelectSymbols(caps TerminalCapabilities) Symbols {
	if caps.SupportsUnicode {
		return Symbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // braille dots
		}
	}

	return Symbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // | / - \
	}
}
