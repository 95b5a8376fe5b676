// Package config provides layered configuration for template-init using koanf.
// Configuration is loaded with priority: environment variables (TEMPLATE_INIT_*)
// > project config (.template/config.yml under the project root, or --config)
// > built-in defaults. The defaults describe the stock monorepo template, so
// an absent config file is the common case.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/seaguntech/template-init/internal/rewrite"
)

const envPrefix = "TEMPLATE_INIT_"

// Configuration represents the template-init tool configuration
type Configuration struct {
	// SentinelPath is the initialized marker, relative to the project root.
	SentinelPath string `koanf:"sentinel_path" validate:"required"`
	// ManifestName is the package manifest file name in the root and in every member.
	ManifestName string `koanf:"manifest_name" validate:"required"`
	// ContactFile is scanned for the maintainer email.
	ContactFile string `koanf:"contact_file"`
	// WorkspaceFolders are the fixed folders whose direct children are workspace members.
	WorkspaceFolders []string `koanf:"workspace_folders"`
	// WorkspaceFile lists extra member globs (pnpm-workspace.yaml style).
	WorkspaceFile string `koanf:"workspace_file"`

	Fallback Fallback   `koanf:"fallback"`
	Scan     ScanConfig `koanf:"scan"`

	// Phrases are the branded phrases rewritten with the new display name, in order.
	Phrases []rewrite.Phrase `koanf:"phrases" validate:"dive"`

	// MaxFileSize skips files larger than this many bytes.
	MaxFileSize int64 `koanf:"max_file_size" validate:"min=1"`
	// SummaryLimit caps the number of changed paths printed.
	SummaryLimit int `koanf:"summary_limit" validate:"min=1"`
	// NextSteps are printed after a successful non-dry run.
	NextSteps []string `koanf:"next_steps"`
}

// Fallback holds the identity used when detection finds nothing.
type Fallback struct {
	RootName string `koanf:"root_name" validate:"required"`
	Scope    string `koanf:"scope" validate:"required"`
	Owner    string `koanf:"owner" validate:"required"`
	Repo     string `koanf:"repo" validate:"required"`
	Email    string `koanf:"email" validate:"required"`
}

// ScanConfig controls which files are candidates for rewriting.
type ScanConfig struct {
	// ExcludeDirs are directory names skipped anywhere in the tree.
	ExcludeDirs []string `koanf:"exclude_dirs"`
	// ExcludeFiles are file names skipped anywhere in the tree.
	ExcludeFiles []string `koanf:"exclude_files"`
	// ExcludePaths are doublestar patterns matched against slash-separated relative paths.
	ExcludePaths []string `koanf:"exclude_paths"`
	// TextExtensions is the allow-list of rewritable extensions, including the dot.
	TextExtensions []string `koanf:"text_extensions" validate:"min=1"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Root is the project root the project config path is resolved against.
	Root string
	// ProjectConfigPath overrides the project config path (default: <root>/.template/config.yml)
	ProjectConfigPath string
}

// Load loads configuration for the project at root.
func Load(root string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{Root: root})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadProjectConfig(k, opts); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, projectConfigPath(opts))
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// projectConfigPath resolves the project config file location.
func projectConfigPath(opts LoadOptions) string {
	if opts.ProjectConfigPath != "" {
		return opts.ProjectConfigPath
	}
	return filepath.Join(opts.Root, ProjectConfigPath())
}

// loadProjectConfig loads the YAML project config when present.
// An explicit --config path that does not exist is an error; the default
// location is optional.
func loadProjectConfig(k *koanf.Koanf, opts LoadOptions) error {
	path := projectConfigPath(opts)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if opts.ProjectConfigPath != "" {
			return fmt.Errorf("config file %s not found", path)
		}
		return nil
	case err != nil:
		return fmt.Errorf("reading project config %s: %w", path, err)
	}

	if err := checkYAMLSyntax(path, data); err != nil {
		return fmt.Errorf("validating YAML syntax for project config: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load project config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf, sourcePath string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := checkValues(&cfg, sourcePath); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.SentinelPath = filepath.Clean(filepath.FromSlash(cfg.SentinelPath))
	return &cfg, nil
}

// envTransform converts environment variable names to config keys.
// A double underscore separates nesting levels.
// Example: TEMPLATE_INIT_FALLBACK__OWNER -> fallback.owner
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
