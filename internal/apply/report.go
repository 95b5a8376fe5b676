package apply

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/seaguntech/template-init/internal/identity"
)

// DefaultSummaryLimit caps the changed paths listed in a summary.
const DefaultSummaryLimit = 80

// Summary is what a finished run reports.
type Summary struct {
	Root      string
	Changed   []string
	Target    identity.Target
	DryRun    bool
	Limit     int
	NextSteps []string
}

// PrintSummary writes the human-readable run report to w. Changed paths are
// shown relative to Root, slash-separated.
func PrintSummary(w io.Writer, s Summary) error {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	mode := "[APPLIED]"
	if s.DryRun {
		mode = "[DRY RUN]"
	}

	p := &printer{w: w}
	p.linef("\n%s Updated %d file(s).", mode, len(s.Changed))
	for i, path := range s.Changed {
		if i == limit {
			p.linef("- ... and %d more file(s)", len(s.Changed)-limit)
			break
		}
		p.linef("- %s", relative(s.Root, path))
	}

	t := s.Target
	p.linef("\nConfiguration:")
	p.linef("- projectName: %s", t.ProjectName)
	p.linef("- scope: @%s", t.Scope)
	p.linef("- github: %s", t.Slug())
	p.linef("- email: %s", t.Email)
	p.linef("- displayName: %s", t.DisplayName)

	if s.DryRun {
		p.linef("\nNo files were written. Re-run without --dry-run to apply changes.")
		return p.err
	}

	if len(s.NextSteps) > 0 {
		p.linef("\nNext steps:")
		for i, step := range s.NextSteps {
			p.linef("%d. %s", i+1, step)
		}
	}
	return p.err
}

func relative(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// printer keeps the first write error so callers check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) linef(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
