package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps          TerminalCapabilities
		wantCheckmark string
		wantFailure   string
	}{
		"unicode terminal": {
			caps:          TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			wantCheckmark: "✓",
			wantFailure:   "✗",
		},
		"ascii fallback": {
			caps:          TerminalCapabilities{IsTTY: true, SupportsUnicode: false},
			wantCheckmark: "[OK]",
			wantFailure:   "[FAIL]",
		},
		"not a terminal": {
			caps:          TerminalCapabilities{},
			wantCheckmark: "[OK]",
			wantFailure:   "[FAIL]",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			syms := SelectSymbols(tt.caps)
			assert.Equal(t, tt.wantCheckmark, syms.Checkmark)
			assert.Equal(t, tt.wantFailure, syms.Failure)
		})
	}
}

func TestSpinner_PlainFallback(t *testing.T) {
	// Tests run without a TTY, so the spinner degrades to plain lines.
	var buf bytes.Buffer
	s := NewSpinner(&buf)

	s.Start("querying model")
	s.Stop(true, "generated")

	out := buf.String()
	assert.Contains(t, out, "querying model")
	assert.Contains(t, out, "generated")
}

func TestSpinner_FailureMark(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf)

	s.Start("querying model")
	s.Stop(false, "generation failed")

	assert.Contains(t, buf.String(), "generation failed")
}
