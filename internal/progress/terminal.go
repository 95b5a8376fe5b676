// Package progress detects terminal capabilities and shows a spinner while
// files are rewritten.
package progress

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the attached terminal can render.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols holds the glyphs chosen for a terminal.
type ProgressSymbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// DetectTerminalCapabilities inspects f (normally stderr, where progress is
// drawn). NO_COLOR disables color and TEMPLATE_INIT_ASCII=1 forces ASCII.
func DetectTerminalCapabilities(f *os.File) TerminalCapabilities {
	isTTY := IsTerminal(f)

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("TEMPLATE_INIT_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
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

// SelectSymbols picks Unicode or ASCII glyphs for caps.
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // | / - \
	}
}
