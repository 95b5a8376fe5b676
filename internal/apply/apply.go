// Package apply runs the rewrite over the scanned files, persists the
// initialized sentinel and reports what changed.
package apply

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// DefaultMaxFileSize is the size above which files are skipped.
const DefaultMaxFileSize = 1024 * 1024

// Transformer rewrites file contents.
type Transformer interface {
	Apply(content string) string
}

// Options control a rewrite pass.
type Options struct {
	// DryRun computes changes without writing.
	DryRun bool
	// MaxFileSize skips larger files; zero means DefaultMaxFileSize.
	MaxFileSize int64
	// Logger receives per-file debug output.
	Logger *slog.Logger
	// OnFile is called before each file is processed.
	OnFile func(path string)
}

// Rewrite applies transform to every file and returns the paths whose
// content changed, in input order. Files are processed one at a time. On a
// non-dry run each changed file is written back with its original mode. A
// cancelled context stops the loop between files.
func Rewrite(ctx context.Context, files []string, transform Transformer, opts Options) ([]string, error) {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var changed []string
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		if opts.OnFile != nil {
			opts.OnFile(path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return changed, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() > maxSize {
			logger.Debug("skipping large file", "path", path, "size", info.Size())
			continue
		}

		original, err := os.ReadFile(path)
		if err != nil {
			return changed, fmt.Errorf("reading %s: %w", path, err)
		}

		next := transform.Apply(string(original))
		if next == string(original) {
			continue
		}

		changed = append(changed, path)
		if opts.DryRun {
			logger.Debug("would rewrite", "path", path)
			continue
		}
		if err := os.WriteFile(path, []byte(next), info.Mode().Perm()); err != nil {
			return changed, fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Debug("rewrote", "path", path)
	}

	return changed, nil
}
