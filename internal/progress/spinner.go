package progress

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner reports rewrite progress. The zero value and a Spinner built for a
// non-terminal are silent.
type Spinner struct {
	s       *spinner.Spinner
	symbols ProgressSymbols
	w       io.Writer
	width   int
	total   int
	done    int
}

// NewSpinner returns a spinner drawing to w when caps.IsTTY, otherwise a
// silent one.
func NewSpinner(w io.Writer, caps TerminalCapabilities, total int) *Spinner {
	symbols := SelectSymbols(caps)
	sp := &Spinner{symbols: symbols, w: w, width: caps.Width, total: total}
	if !caps.IsTTY {
		return sp
	}

	sp.s = spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(w))
	if !caps.SupportsColor {
		return sp
	}
	_ = sp.s.Color("cyan")
	return sp
}

// Start begins drawing.
func (sp *Spinner) Start() {
	if sp == nil || sp.s == nil {
		return
	}
	sp.s.Suffix = fmt.Sprintf(" Rewriting files (0/%d)", sp.total)
	sp.s.Start()
}

// Step records that path is being processed.
func (sp *Spinner) Step(path string) {
	if sp == nil {
		return
	}
	sp.done++
	if sp.s == nil {
		return
	}
	sp.s.Lock()
	sp.s.Suffix = fitWidth(fmt.Sprintf(" Rewriting files (%d/%d) %s", sp.done, sp.total, filepath.Base(path)), sp.width)
	sp.s.Unlock()
}

// Stop clears the spinner and prints a final status line.
func (sp *Spinner) Stop(err error) {
	if sp == nil || sp.s == nil {
		return
	}
	sp.s.Stop()
	if err != nil {
		fmt.Fprintf(sp.w, "%s Rewrite stopped after %d/%d files\n", sp.symbols.Failure, sp.done, sp.total)
		return
	}
	fmt.Fprintf(sp.w, "%s Scanned %d files\n", sp.symbols.Checkmark, sp.total)
}

// fitWidth cuts a suffix so that it and the one-column spinner glyph fit on
// a line of width columns. Widths below two, including the unknown zero,
// leave s alone.
func fitWidth(s string, width int) string {
	limit := width - 1
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
