package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/seaguntech/template-init/internal/collect"
	clierrors "github.com/seaguntech/template-init/internal/errors"
)

// Options are the parsed invocation flags.
type Options struct {
	DryRun  bool
	Yes     bool
	Force   bool
	Verbose bool

	// Root is the project root; empty means autodetect.
	Root string
	// ConfigPath overrides <root>/.template/config.yml.
	ConfigPath string

	Identity collect.Overrides
}

// identityFlags bind flag names to the override they fill.
var identityFlags = []struct {
	name  string
	usage string
	field func(*collect.Overrides) **string
}{
	{"project-name", "npm package name of the new project", func(o *collect.Overrides) **string { return &o.ProjectName }},
	{"scope", "npm scope for workspace packages, without @", func(o *collect.Overrides) **string { return &o.Scope }},
	{"owner", "GitHub owner of the new repository", func(o *collect.Overrides) **string { return &o.Owner }},
	{"repo", "GitHub repository name", func(o *collect.Overrides) **string { return &o.Repo }},
	{"email", "maintainer contact email", func(o *collect.Overrides) **string { return &o.Email }},
	{"display-name", "human-readable project name", func(o *collect.Overrides) **string { return &o.DisplayName }},
}

// newFlagSet builds the flag set shared by parsing and help output.
func newFlagSet(opts *Options, values map[string]*string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("template-init", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVar(&opts.DryRun, "dry-run", false, "preview changes without writing files")
	fs.BoolVar(&opts.Yes, "yes", false, "skip prompts and use flags or detected values")
	fs.BoolVar(&opts.Force, "force", false, "run even if the template was already initialized")
	for _, f := range identityFlags {
		v := new(string)
		values[f.name] = v
		fs.StringVar(v, f.name, "", f.usage)
	}
	fs.StringVar(&opts.Root, "root", "", "project root (default: git repository root or current directory)")
	fs.StringVar(&opts.ConfigPath, "config", "", "tool config file (default: <root>/.template/config.yml)")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "log detection details to stderr")
	return fs
}

// flagKinds classifies the flags of fs for checkTokens.
type flagKinds struct {
	value      map[string]bool
	boolean    map[string]bool
	shorthands map[string]bool
}

func kindsOf(fs *pflag.FlagSet) flagKinds {
	k := flagKinds{
		value:      make(map[string]bool),
		boolean:    make(map[string]bool),
		shorthands: map[string]bool{"-h": true},
	}
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() == "bool" {
			k.boolean[f.Name] = true
		} else {
			k.value[f.Name] = true
		}
		if f.Shorthand != "" {
			k.shorthands["-"+f.Shorthand] = true
		}
	})
	return k
}

// ParseOptions parses invocation arguments. Bare "--" tokens are ignored.
// It returns pflag.ErrHelp when help was requested; every other failure is
// an Argument CLIError.
func ParseOptions(args []string) (Options, error) {
	var opts Options
	values := make(map[string]*string)
	fs := newFlagSet(&opts, values)

	filtered := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != "--" {
			filtered = append(filtered, arg)
		}
	}

	if err := checkTokens(filtered, kindsOf(fs)); err != nil {
		return Options{}, err
	}

	if err := fs.Parse(filtered); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Options{}, pflag.ErrHelp
		}
		return Options{}, clierrors.WrapWithMessage(err, clierrors.Argument, "Invalid flag")
	}

	for _, f := range identityFlags {
		if fs.Changed(f.name) {
			v := *values[f.name]
			*f.field(&opts.Identity) = &v
		}
	}
	return opts, nil
}

// checkTokens walks args in order and reports the first token pflag would
// accept but the tool does not: a value flag whose value is absent or looks
// like another long flag, a boolean flag given "=value", an unknown flag or a
// positional argument. Unknown tokens are reported verbatim.
func checkTokens(args []string, kinds flagKinds) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			if kinds.shorthands[arg] {
				continue
			}
			return clierrors.NewArgumentError("Unknown flag: %s", arg)
		}

		name, inline, hasInline := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		switch {
		case kinds.value[name]:
		case (kinds.boolean[name] || name == "help") && !hasInline:
			continue
		default:
			return clierrors.NewArgumentError("Unknown flag: %s", arg)
		}

		value := inline
		if !hasInline {
			if i+1 >= len(args) {
				return clierrors.NewArgumentError("Missing value for --%s", name)
			}
			value = args[i+1]
			i++
		}
		if strings.HasPrefix(value, "--") {
			return clierrors.NewArgumentError("Missing value for --%s", name)
		}
	}
	return nil
}

// usageFlags returns the flag set for help output.
func usageFlags() *pflag.FlagSet {
	return newFlagSet(&Options{}, make(map[string]*string))
}

// String renders options for debug logging.
func (o Options) String() string {
	var parts []string
	add := func(name string, v *string) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s=%q", name, *v))
		}
	}
	add("projectName", o.Identity.ProjectName)
	add("scope", o.Identity.Scope)
	add("owner", o.Identity.Owner)
	add("repo", o.Identity.Repo)
	add("email", o.Identity.Email)
	add("displayName", o.Identity.DisplayName)
	return fmt.Sprintf("dryRun=%t yes=%t force=%t root=%q %s", o.DryRun, o.Yes, o.Force, o.Root, strings.Join(parts, " "))
}
