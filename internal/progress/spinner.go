package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner animates while a provider call is in flight. Without a TTY it
// prints plain status lines instead.
type Spinner struct {
	caps TerminalCapabilities
	syms Symbols
	spin *spinner.Spinner
	out  io.Writer
}

// NewSpinner creates a spinner writing to out, typically stderr so that
// generated content on stdout stays clean.
func NewSpinner(out io.Writer) *Spinner {
	caps := DetectTerminalCapabilities()
	s := &Spinner{
		caps: caps,
		syms: SelectSymbols(caps),
		out:  out,
	}
	if caps.IsTTY {
		s.spin = spinner.New(spinner.CharSets[s.syms.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(out))
		if caps.SupportsColor {
			_ = s.spin.Color("cyan")
		}
	}
	return s
}

// Start begins the animation with a status message.
func (s *Spinner) Start(message string) {
	if s.spin != nil {
		s.spin.Suffix = " " + message
		s.spin.Start()
		return
	}
	fmt.Fprintln(s.out, message)
}

// Stop ends the animation and prints the outcome line.
func (s *Spinner) Stop(success bool, message string) {
	if s.spin != nil {
		s.spin.Stop()
	}

	mark := s.syms.Checkmark
	if !success {
		mark = s.syms.Failure
	}
	if s.caps.SupportsColor {
		c := color.New(color.FgGreen)
		if !success {
			c = color.New(color.FgRed)
		}
		mark = c.Sprint(mark)
	}
	fmt.Fprintf(s.out, "%s %s\n", mark, message)
}
