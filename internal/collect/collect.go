// Package collect resolves the target identity from flags, detected values
// and, on a terminal, interactive answers.
package collect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/seaguntech/template-init/internal/identity"
)

// Overrides are the identity values given on the command line. A nil field
// was not supplied; a non-nil empty string was supplied empty.
type Overrides struct {
	ProjectName *string
	Scope       *string
	Owner       *string
	Repo        *string
	Email       *string
	DisplayName *string
}

// Collector merges overrides with the detected identity.
type Collector struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// New returns a Collector. When interactive is true each value is asked for
// on out and read from in.
func New(in io.Reader, out io.Writer, interactive bool) *Collector {
	return &Collector{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Collect resolves the target. It does not validate. A prompt waiting for
// input returns ctx.Err() once ctx is done.
func (c *Collector) Collect(ctx context.Context, ov Overrides, current identity.Current) (identity.Target, error) {
	if !c.interactive {
		return resolve(ov, current), nil
	}
	return c.prompt(ctx, ov, current)
}

func resolve(ov Overrides, current identity.Current) identity.Target {
	projectName := or(ov.ProjectName, current.RootName)
	repo := current.Repo
	switch {
	case ov.Repo != nil:
		repo = *ov.Repo
	case ov.ProjectName != nil:
		repo = *ov.ProjectName
	}

	return identity.Target{
		ProjectName: projectName,
		Scope:       identity.NormalizeScope(or(ov.Scope, current.Scope)),
		Owner:       or(ov.Owner, current.Owner),
		Repo:        repo,
		Email:       or(ov.Email, current.MaintainerEmail),
		DisplayName: or(ov.DisplayName, identity.DisplayName(projectName)),
	}
}

func (c *Collector) prompt(ctx context.Context, ov Overrides, current identity.Current) (identity.Target, error) {
	var t identity.Target
	var err error

	if t.ProjectName, err = c.ask(ctx, "Project package name", or(ov.ProjectName, current.RootName)); err != nil {
		return t, err
	}
	scope, err := c.ask(ctx, "NPM scope (without @)", or(ov.Scope, current.Scope))
	if err != nil {
		return t, err
	}
	t.Scope = identity.NormalizeScope(scope)
	if t.Owner, err = c.ask(ctx, "GitHub owner", or(ov.Owner, current.Owner)); err != nil {
		return t, err
	}
	if t.Repo, err = c.ask(ctx, "GitHub repository", or(ov.Repo, t.ProjectName)); err != nil {
		return t, err
	}
	if t.Email, err = c.ask(ctx, "Maintainer contact email", or(ov.Email, current.MaintainerEmail)); err != nil {
		return t, err
	}
	if t.DisplayName, err = c.ask(ctx, "Display name", or(ov.DisplayName, identity.DisplayName(t.ProjectName))); err != nil {
		return t, err
	}
	return t, nil
}

// ask prints "label (def): " and returns the trimmed answer, or def when
// the answer is blank or input has ended.
func (c *Collector) ask(ctx context.Context, label, def string) (string, error) {
	if _, err := fmt.Fprintf(c.out, "%s (%s): ", label, def); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}

	line, err := c.readLine(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("reading answer for %s: %w", label, err)
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

type readResult struct {
	line string
	err  error
}

// readLine reads one line without blocking past ctx. An abandoned read
// keeps its goroutine until input arrives; the collector is not used again
// after a cancellation.
func (c *Collector) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan readResult, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		done <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.line, r.err
	}
}

func or(v *string, def string) string {
	if v != nil {
		return *v
	}
	return def
}
