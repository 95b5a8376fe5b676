package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seaguntech/template-init/internal/apply"
	"github.com/seaguntech/template-init/internal/collect"
	"github.com/seaguntech/template-init/internal/config"
	"github.com/seaguntech/template-init/internal/ctxlog"
	"github.com/seaguntech/template-init/internal/detect"
	clierrors "github.com/seaguntech/template-init/internal/errors"
	"github.com/seaguntech/template-init/internal/git"
	"github.com/seaguntech/template-init/internal/identity"
	"github.com/seaguntech/template-init/internal/progress"
	"github.com/seaguntech/template-init/internal/rewrite"
	"github.com/seaguntech/template-init/internal/scan"
)

// Streams are the command's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run performs one initialization: detect the current identity, refuse a
// re-run, resolve and validate the target, then rewrite the tree and record
// the sentinel. Nothing is written before the target validates.
func Run(ctx context.Context, opts Options, s Streams) error {
	logger := newLogger(s.Err, opts.Verbose)
	ctx = ctxlog.WithLogger(ctx, logger)
	if opts.Verbose {
		git.SetDebugLogger(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		})
		defer git.SetDebugLogger(nil)
	}
	logger.Debug("parsed options", "options", opts.String())

	root, err := resolveRoot(opts.Root)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "resolving project root")
	}
	logger.Debug("project root", "root", root)

	cfg, err := config.LoadWithOptions(config.LoadOptions{Root: root, ProjectConfigPath: opts.ConfigPath})
	if err != nil {
		return configError(err)
	}

	current, err := detect.New(cfg, detect.WithLogger(logger)).Detect(root)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	sentinelPath := filepath.Join(root, cfg.SentinelPath)
	if apply.SentinelExists(sentinelPath) {
		if !opts.Force && !opts.DryRun {
			return clierrors.NewPreconditionError("%s already exists. Use --force to run again.", filepath.ToSlash(cfg.SentinelPath))
		}
		logPreviousSentinel(logger, sentinelPath)
	}

	collector := collect.New(s.In, s.Out, isInteractive(s.In, opts.Yes))
	target, err := collector.Collect(ctx, opts.Identity, current)
	if errors.Is(err, context.Canceled) {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "interrupted while waiting for input")
	}
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	if err := identity.Validate(target); err != nil {
		return err
	}

	changed, err := rewriteTree(ctx, root, cfg, opts, current, target, s.Err)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	if !opts.DryRun {
		if err := apply.WriteSentinel(sentinelPath, apply.NewSentinel(target, time.Now())); err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		changed = append(changed, sentinelPath)
	}

	if err := apply.PrintSummary(s.Out, apply.Summary{
		Root:      root,
		Changed:   changed,
		Target:    target,
		DryRun:    opts.DryRun,
		Limit:     cfg.SummaryLimit,
		NextSteps: cfg.NextSteps,
	}); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}

// logPreviousSentinel records which initialization a forced or dry run is
// about to supersede. An unreadable record is only noted.
func logPreviousSentinel(logger *slog.Logger, path string) {
	previous, err := apply.ReadSentinel(path)
	if err != nil {
		logger.Debug("previous sentinel unreadable", "path", path, "error", err)
		return
	}
	logger.Debug("previous initialization",
		"initializedAt", previous.InitializedAt,
		"projectName", previous.ProjectName,
		"scope", previous.Scope,
		"github", previous.GitHub.Owner+"/"+previous.GitHub.Repo,
	)
}

// rewriteTree scans root and runs the replacer over every candidate file.
func rewriteTree(ctx context.Context, root string, cfg *config.Configuration, opts Options, current identity.Current, target identity.Target, progressOut io.Writer) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	scanner, err := scan.New(scanRules(root, cfg, opts))
	if err != nil {
		return nil, err
	}
	files, err := scanner.Scan(root)
	if err != nil {
		return nil, err
	}
	logger.Debug("scanned files", "count", len(files))

	replacer := rewrite.New(current, target, cfg.Phrases)
	for _, rule := range replacer.Rules() {
		logger.Debug("rewrite rule", "name", rule.Name, "search", rule.Search, "replacement", rule.Replacement)
	}

	sp := progress.NewSpinner(progressOut, terminalCapabilities(progressOut), len(files))
	sp.Start()
	changed, err := apply.Rewrite(ctx, files, replacer, apply.Options{
		DryRun:      opts.DryRun,
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger,
		OnFile:      sp.Step,
	})
	sp.Stop(err)
	return changed, err
}

// scanRules adds the tool's own files to the configured exclusions.
func scanRules(root string, cfg *config.Configuration, opts Options) scan.Rules {
	exact := []string{filepath.ToSlash(cfg.SentinelPath)}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(root, config.ProjectConfigPath())
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			exact = append(exact, filepath.ToSlash(rel))
		}
	}

	return scan.Rules{
		ExcludeDirs:    cfg.Scan.ExcludeDirs,
		ExcludeFiles:   cfg.Scan.ExcludeFiles,
		ExcludePaths:   cfg.Scan.ExcludePaths,
		ExcludeExact:   exact,
		TextExtensions: cfg.Scan.TextExtensions,
		AlwaysInclude:  []string{cfg.ManifestName},
	}
}

// resolveRoot returns the absolute project root: the explicit flag, else the
// enclosing git repository, else the working directory.
func resolveRoot(flagRoot string) (string, error) {
	if flagRoot != "" {
		return filepath.Abs(flagRoot)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if root, err := git.GetRepositoryRoot(cwd); err == nil {
		return root, nil
	}
	return cwd, nil
}

// configError categorises a config load failure. Bad values are the
// operator's input; everything else is unexpected.
func configError(err error) error {
	var validationErr *config.ValidationError
	if errors.As(err, &validationErr) {
		return clierrors.WrapWithMessage(err, clierrors.Input, "invalid tool configuration")
	}
	return clierrors.WrapWithMessage(err, clierrors.Runtime, "loading tool configuration")
}

func isInteractive(in io.Reader, yes bool) bool {
	if yes {
		return false
	}
	f, ok := in.(*os.File)
	return ok && progress.IsTerminal(f)
}

func terminalCapabilities(w io.Writer) progress.TerminalCapabilities {
	f, ok := w.(*os.File)
	if !ok {
		return progress.TerminalCapabilities{}
	}
	return progress.DetectTerminalCapabilities(f)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
