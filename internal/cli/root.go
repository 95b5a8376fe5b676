// Package cli implements the template-init command line: flag parsing, the
// run orchestration and the mapping of failures onto exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/seaguntech/template-init/internal/build"
	clierrors "github.com/seaguntech/template-init/internal/errors"
	"github.com/seaguntech/template-init/internal/progress"
)

// NewRootCommand builds the template-init command. Flags are parsed by
// ParseOptions rather than cobra so "--" tokens and missing values get the
// tool's own handling; they are still registered for help output.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template-init [flags]",
		Short: "Turn the monorepo template into your own project",
		Long: `Turn the monorepo template into your own project.

template-init detects the template's current identity (package name, npm
scope, GitHub owner/repository and maintainer email), asks for or accepts
the new values, and rewrites every text file in the project in place. A
sentinel at .template/initialized.json blocks accidental re-runs.`,
		Example: `  # Preview the rewrite without touching any file
  template-init --dry-run --yes --project-name widgetco-app --scope widgetco

  # Initialize non-interactively
  template-init --yes --project-name widgetco-app --scope widgetco \
    --owner widgetco --email hello@widgetco.dev

  # Run again after an earlier initialization
  template-init --force`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ParseOptions(args)
			if errors.Is(err, pflag.ErrHelp) {
				return cmd.Help()
			}
			if err != nil {
				return err
			}
			return Run(cmd.Context(), opts, Streams{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().AddFlagSet(usageFlags())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// newVersionCommand prints build information. cobra routes any invocation
// containing a bare "version" token here, so extra tokens are parsed as root
// flags to report the same diagnostic the root command would.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "version",
		Short:              "Print version information",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				fmt.Fprintln(cmd.OutOrStdout(), build.Info())
				return nil
			case len(args) == 1 && (args[0] == "--help" || args[0] == "-h"):
				return cmd.Help()
			}
			_, err := ParseOptions(append(slices.Clone(args), cmd.Name()))
			return err
		},
	}
}

// Execute runs the command against the process streams and returns the exit
// code. The first interrupt cancels a pending prompt or stops the rewrite
// between files; a second one gets the default handler.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ExecuteArgs(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// ExecuteArgs runs the command with explicit arguments and streams. Every
// failure is printed as one diagnostic line on errOut.
func ExecuteArgs(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	cliErr := clierrors.Categorize(err)
	fmt.Fprint(errOut, formatDiagnostic(errOut, cliErr))
	return ExitCode(cliErr.Category)
}

// formatDiagnostic colors the line only when errOut is a color terminal.
func formatDiagnostic(errOut io.Writer, err *clierrors.CLIError) string {
	if f, ok := errOut.(*os.File); ok && progress.DetectTerminalCapabilities(f).SupportsColor {
		return clierrors.FormatError(err)
	}
	return clierrors.FormatErrorPlain(err)
}
