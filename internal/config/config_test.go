package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaguntech/template-init/internal/rewrite"
)

func writeProjectConfig(t *testing.T, root, content string) string {
	t.Helper()
	path := filepath.Join(root, ProjectConfigPath())
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(".template", "initialized.json"), cfg.SentinelPath)
	assert.Equal(t, "package.json", cfg.ManifestName)
	assert.Equal(t, "SECURITY.md", cfg.ContactFile)
	assert.Equal(t, []string{"apps", "packages", "configs"}, cfg.WorkspaceFolders)
	assert.Equal(t, "pnpm-workspace.yaml", cfg.WorkspaceFile)
	assert.Equal(t, Fallback{
		RootName: "seaguntech-monorepo-template",
		Scope:    "seaguntech",
		Owner:    "seaguntech",
		Repo:     "seaguntech-monorepo-template",
		Email:    "oss@example.com",
	}, cfg.Fallback)
	assert.Contains(t, cfg.Scan.ExcludeDirs, "node_modules")
	assert.Contains(t, cfg.Scan.ExcludeDirs, ".cursor")
	assert.Equal(t, []string{"pnpm-lock.yaml"}, cfg.Scan.ExcludeFiles)
	assert.Equal(t, []string{".husky/_", "scripts/init-template.mjs"}, cfg.Scan.ExcludePaths)
	assert.Len(t, cfg.Scan.TextExtensions, 11)
	assert.Equal(t, int64(1024*1024), cfg.MaxFileSize)
	assert.Equal(t, 80, cfg.SummaryLimit)
	assert.Equal(t, []string{"pnpm install", "pnpm lint && pnpm check-types && pnpm build"}, cfg.NextSteps)

	require.Len(t, cfg.Phrases, 4)
	assert.Equal(t, rewrite.Phrase{From: "Seaguntech Monorepo Template", To: rewrite.DisplayNamePlaceholder}, cfg.Phrases[0])
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProjectConfig(t, root, `
fallback:
  owner: acme
scan:
  exclude_dirs: [".git", "vendor"]
phrases:
  - from: Acme Starter
    to: "{{displayName}}"
summary_limit: 10
next_steps:
  - make setup
`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "acme", cfg.Fallback.Owner)
	assert.Equal(t, "seaguntech", cfg.Fallback.Scope, "unset keys keep their defaults")
	assert.Equal(t, []string{".git", "vendor"}, cfg.Scan.ExcludeDirs)
	assert.Equal(t, []rewrite.Phrase{{From: "Acme Starter", To: "{{displayName}}"}}, cfg.Phrases)
	assert.Equal(t, 10, cfg.SummaryLimit)
	assert.Equal(t, []string{"make setup"}, cfg.NextSteps)
	assert.Len(t, cfg.Scan.TextExtensions, 11)
}

func TestLoadWithOptions_ExplicitConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("sentinel_path: state/done.json\n"), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{Root: t.TempDir(), ProjectConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("state", "done.json"), cfg.SentinelPath)
}

func TestLoadWithOptions_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	_, err := LoadWithOptions(LoadOptions{Root: t.TempDir(), ProjectConfigPath: filepath.Join(t.TempDir(), "nope.yml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_EmptyProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeProjectConfig(t, root, "\n")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.SummaryLimit)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content   string
		wantField string
		wantLine  bool
	}{
		"bad yaml":            {content: "scan:\n  exclude_dirs: [\n", wantLine: true},
		"zero summary limit":  {content: "summary_limit: 0\n", wantField: "summary_limit"},
		"zero max file size":  {content: "max_file_size: 0\n", wantField: "max_file_size"},
		"empty fallback":      {content: "fallback:\n  owner: \"\"\n", wantField: "fallback.owner"},
		"no extensions":       {content: "scan:\n  text_extensions: []\n", wantField: "scan.text_extensions"},
		"phrase without from": {content: "phrases:\n  - to: x\n", wantField: "phrases[0].from"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeProjectConfig(t, root, tt.content)

			_, err := Load(root)
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "want ValidationError, got %v", err)
			if tt.wantLine {
				assert.Positive(t, validationErr.Line)
			}
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, validationErr.Field)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TEMPLATE_INIT_MAX_FILE_SIZE", "2097152")
	t.Setenv("TEMPLATE_INIT_FALLBACK__OWNER", "acme")
	t.Setenv("TEMPLATE_INIT_CONTACT_FILE", "CONTRIBUTING.md")

	root := t.TempDir()
	writeProjectConfig(t, root, "fallback:\n  owner: from-file\n")

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, int64(2097152), cfg.MaxFileSize)
	assert.Equal(t, "acme", cfg.Fallback.Owner, "environment beats the project file")
	assert.Equal(t, "CONTRIBUTING.md", cfg.ContactFile)
}

func TestEnvTransform(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"flat key":   {in: "TEMPLATE_INIT_MAX_FILE_SIZE", want: "max_file_size"},
		"nested key": {in: "TEMPLATE_INIT_FALLBACK__ROOT_NAME", want: "fallback.root_name"},
		"deep key":   {in: "TEMPLATE_INIT_SCAN__EXCLUDE_DIRS", want: "scan.exclude_dirs"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, envTransform(tt.in))
		})
	}
}

func TestSplitYAMLError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		msg         string
		wantLine    int
		wantColumn  int
		wantMessage string
	}{
		"line and column": {msg: "yaml: line 3: column 7: mapping values are not allowed", wantLine: 3, wantColumn: 7, wantMessage: "mapping values are not allowed"},
		"line only":       {msg: "yaml: line 5: could not find expected ':'", wantLine: 5, wantColumn: 1, wantMessage: "could not find expected ':'"},
		"no position":     {msg: "yaml: unmarshal errors", wantMessage: "yaml: unmarshal errors"},
		"not yaml":        {msg: "permission denied", wantMessage: "permission denied"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			line, column, message := splitYAMLError(tt.msg)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantColumn, column)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestLoad_ValueMessages(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    string
	}{
		"number below minimum": {content: "summary_limit: 0\n", want: "must be at least 1"},
		"empty list":           {content: "scan:\n  text_extensions: []\n", want: "must list at least 1 entry"},
		"missing value":        {content: "manifest_name: \"\"\n", want: "is required"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeProjectConfig(t, root, tt.content)

			_, err := Load(root)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.want, validationErr.Message)
		})
	}
}

func TestLoad_UnreadableConfigIsNotAValidationError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ProjectConfigPath()), 0o755))

	_, err := Load(root)
	require.Error(t, err)
	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "reading project config")
}

func TestToSnakeCase(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"single word": {in: "Scope", want: "scope"},
		"two words":   {in: "RootName", want: "root_name"},
		"three words": {in: "MaxFileSize", want: "max_file_size"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, toSnakeCase(tt.in))
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with position": {err: ValidationError{FilePath: "c.yml", Line: 2, Column: 4, Message: "bad"}, want: "c.yml:2:4: bad"},
		"with field":    {err: ValidationError{FilePath: "c.yml", Field: "summary_limit", Message: "must be at least 1"}, want: "c.yml: field 'summary_limit': must be at least 1"},
		"plain":         {err: ValidationError{FilePath: "c.yml", Message: "permission denied"}, want: "c.yml: permission denied"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
