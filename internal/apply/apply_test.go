package apply

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaguntech/template-init/internal/identity"
)

// upper is a Transformer that replaces "acme" with "widgetco".
type upper struct{}

func (upper) Apply(content string) string {
	return strings.ReplaceAll(content, "acme", "widgetco")
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func widgetco() identity.Target {
	return identity.Target{
		ProjectName: "widgetco-app",
		Scope:       "widgetco",
		Owner:       "widgetco",
		Repo:        "widgetco-app",
		Email:       "hello@widgetco.dev",
		DisplayName: "Widgetco App",
	}
}

func TestRewrite(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		dryRun      bool
		wantContent string
	}{
		"applies changes":  {dryRun: false, wantContent: "import '@widgetco/ui'\n"},
		"dry run no write": {dryRun: true, wantContent: "import '@acme/ui'\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			changedPath := filepath.Join(root, "src", "index.ts")
			untouchedPath := filepath.Join(root, "README.md")
			writeFile(t, changedPath, "import '@acme/ui'\n", 0o644)
			writeFile(t, untouchedPath, "nothing to see\n", 0o644)

			changed, err := Rewrite(context.Background(), []string{untouchedPath, changedPath}, upper{}, Options{DryRun: tt.dryRun})
			require.NoError(t, err)

			assert.Equal(t, []string{changedPath}, changed)
			assert.Equal(t, tt.wantContent, readFile(t, changedPath))
			assert.Equal(t, "nothing to see\n", readFile(t, untouchedPath))
		})
	}
}

func TestRewrite_DryRunIsDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var files []string
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		path := filepath.Join(root, name)
		writeFile(t, path, "acme "+name, 0o644)
		files = append(files, path)
	}

	first, err := Rewrite(context.Background(), files, upper{}, Options{DryRun: true})
	require.NoError(t, err)
	second, err := Rewrite(context.Background(), files, upper{}, Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, files, first)
}

func TestRewrite_PreservesMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bin", "setup.js")
	writeFile(t, path, "acme", 0o755)

	_, err := Rewrite(context.Background(), []string{path}, upper{}, Options{})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "widgetco", readFile(t, path))
}

func TestRewrite_SkipsLargeFiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "big.txt")
	writeFile(t, path, strings.Repeat("acme ", 10), 0o644)

	changed, err := Rewrite(context.Background(), []string{path}, upper{}, Options{MaxFileSize: 8})
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Equal(t, strings.Repeat("acme ", 10), readFile(t, path))
}

func TestRewrite_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Rewrite(context.Background(), []string{filepath.Join(t.TempDir(), "gone.md")}, upper{}, Options{})
	assert.Error(t, err)
}

func TestRewrite_Cancelled(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.md")
	writeFile(t, path, "acme", 0o644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	changed, err := Rewrite(ctx, []string{path}, upper{}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, changed)
	assert.Equal(t, "acme", readFile(t, path))
}

func TestRewrite_OnFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := []string{filepath.Join(root, "a.md"), filepath.Join(root, "b.md")}
	for _, f := range files {
		writeFile(t, f, "x", 0o644)
	}

	var seen []string
	_, err := Rewrite(context.Background(), files, upper{}, Options{OnFile: func(p string) { seen = append(seen, p) }})
	require.NoError(t, err)
	assert.Equal(t, files, seen)
}

func TestSentinel_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".template", "initialized.json")
	assert.False(t, SentinelExists(path))

	now := time.Date(2026, 10, 14, 9, 30, 0, 123_000_000, time.FixedZone("CEST", 2*60*60))
	require.NoError(t, WriteSentinel(path, NewSentinel(widgetco(), now)))
	assert.True(t, SentinelExists(path))

	want := `{
  "initializedAt": "2026-10-14T07:30:00.123Z",
  "projectName": "widgetco-app",
  "scope": "widgetco",
  "github": {
    "owner": "widgetco",
    "repo": "widgetco-app"
  },
  "maintainerEmail": "hello@widgetco.dev",
  "displayName": "Widgetco App"
}
`
	assert.Equal(t, want, readFile(t, path))

	got, err := ReadSentinel(path)
	require.NoError(t, err)
	assert.Equal(t, "widgetco", got.GitHub.Owner)
	assert.Equal(t, "2026-10-14T07:30:00.123Z", got.InitializedAt)
}

func TestWriteSentinel_KeepsMarkupCharacters(t *testing.T) {
	t.Parallel()

	target := widgetco()
	target.DisplayName = "Widgets & <Gadgets>"

	path := filepath.Join(t.TempDir(), "initialized.json")
	require.NoError(t, WriteSentinel(path, NewSentinel(target, time.Unix(0, 0))))

	content := readFile(t, path)
	assert.Contains(t, content, `"displayName": "Widgets & <Gadgets>"`)
	assert.NotContains(t, content, `\u0026`)

	got, err := ReadSentinel(path)
	require.NoError(t, err)
	assert.Equal(t, "Widgets & <Gadgets>", got.DisplayName)
}

func TestReadSentinel_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "initialized.json")
	writeFile(t, path, "{not json", 0o644)

	_, err := ReadSentinel(path)
	assert.Error(t, err)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "work", "app")
	changed := []string{
		filepath.Join(root, "package.json"),
		filepath.Join(root, "apps", "web", "src", "index.ts"),
	}

	tests := map[string]struct {
		summary Summary
		want    string
	}{
		"applied": {
			summary: Summary{Root: root, Changed: changed, Target: widgetco(), NextSteps: []string{"pnpm install", "pnpm build"}},
			want: `
[APPLIED] Updated 2 file(s).
- package.json
- apps/web/src/index.ts

Configuration:
- projectName: widgetco-app
- scope: @widgetco
- github: widgetco/widgetco-app
- email: hello@widgetco.dev
- displayName: Widgetco App

Next steps:
1. pnpm install
2. pnpm build
`,
		},
		"dry run": {
			summary: Summary{Root: root, Changed: changed[:1], Target: widgetco(), DryRun: true, NextSteps: []string{"pnpm install"}},
			want: `
[DRY RUN] Updated 1 file(s).
- package.json

Configuration:
- projectName: widgetco-app
- scope: @widgetco
- github: widgetco/widgetco-app
- email: hello@widgetco.dev
- displayName: Widgetco App

No files were written. Re-run without --dry-run to apply changes.
`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, PrintSummary(&buf, tt.summary))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintSummary_Truncates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var changed []string
	for i := 0; i < 85; i++ {
		changed = append(changed, filepath.Join(root, "f"+strings.Repeat("x", i)+".md"))
	}

	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, Summary{Root: root, Changed: changed, Target: widgetco()}))

	out := buf.String()
	assert.Contains(t, out, "[APPLIED] Updated 85 file(s).")
	assert.Contains(t, out, "- ... and 5 more file(s)")
	assert.Equal(t, DefaultSummaryLimit, strings.Count(out, ".md\n"))
}

func TestPrintSummary_CustomLimit(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	changed := []string{filepath.Join(root, "a.md"), filepath.Join(root, "b.md"), filepath.Join(root, "c.md")}

	var buf bytes.Buffer
	require.NoError(t, PrintSummary(&buf, Summary{Root: root, Changed: changed, Target: widgetco(), Limit: 2}))

	out := buf.String()
	assert.Contains(t, out, "- a.md\n- b.md\n- ... and 1 more file(s)\n")
	assert.NotContains(t, out, "c.md")
}
