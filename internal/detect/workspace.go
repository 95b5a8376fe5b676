package detect

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// workspaceFile is the subset of pnpm-workspace.yaml we read.
type workspaceFile struct {
	Packages []string `yaml:"packages"`
}

// memberNames returns the declared names of every workspace member, fixed
// folders first (in sorted directory order), then members matched by the
// workspace file globs that were not already visited.
func (d *Detector) memberNames(root string) []string {
	var names []string
	seen := make(map[string]bool)

	visit := func(memberDir string) {
		if seen[memberDir] {
			return
		}
		seen[memberDir] = true

		manifestPath := filepath.Join(root, filepath.FromSlash(memberDir), d.cfg.ManifestName)
		if _, err := os.Stat(manifestPath); err != nil {
			return
		}
		m, err := readManifest(manifestPath)
		if err != nil {
			d.logger.Debug("skipping unreadable member manifest", "path", manifestPath, "error", err)
			return
		}
		if name := m.name(); name != "" {
			names = append(names, name)
		}
	}

	for _, folder := range d.cfg.WorkspaceFolders {
		entries, err := os.ReadDir(filepath.Join(root, folder))
		if err != nil {
			d.logger.Debug("skipping workspace folder", "folder", folder, "error", err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				visit(path.Join(filepath.ToSlash(folder), entry.Name()))
			}
		}
	}

	for _, memberDir := range d.globMembers(root) {
		visit(memberDir)
	}

	return names
}

// globMembers expands the positive patterns of the workspace file into
// member directories, relative to root and slash-separated.
func (d *Detector) globMembers(root string) []string {
	if d.cfg.WorkspaceFile == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(root, d.cfg.WorkspaceFile))
	if err != nil {
		return nil
	}

	var ws workspaceFile
	if err := yaml.Unmarshal(data, &ws); err != nil {
		d.logger.Debug("skipping malformed workspace file", "path", d.cfg.WorkspaceFile, "error", err)
		return nil
	}

	fsys := os.DirFS(root)
	var dirs []string
	for _, pattern := range ws.Packages {
		pattern = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(pattern), "./"), "/")
		if pattern == "" || strings.HasPrefix(pattern, "!") {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			d.logger.Debug("skipping invalid workspace glob", "pattern", pattern)
			continue
		}

		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			d.logger.Debug("workspace glob failed", "pattern", pattern, "error", err)
			continue
		}
		for _, match := range matches {
			if strings.Contains("/"+match+"/", "/node_modules/") {
				continue
			}
			if info, err := os.Stat(filepath.Join(root, filepath.FromSlash(match))); err == nil && info.IsDir() {
				dirs = append(dirs, match)
			}
		}
	}
	return dirs
}

// dominantScope returns the most frequent @scope among names. Ties go to
// the scope seen first.
func dominantScope(names []string) (string, bool) {
	counts := make(map[string]int)
	var order []string

	for _, name := range names {
		if !strings.HasPrefix(name, "@") {
			continue
		}
		slash := strings.Index(name, "/")
		if slash <= 1 {
			continue
		}
		scope := name[1:slash]
		if counts[scope] == 0 {
			order = append(order, scope)
		}
		counts[scope]++
	}

	best, highest := "", 0
	for _, scope := range order {
		if counts[scope] > highest {
			best, highest = scope, counts[scope]
		}
	}
	return best, highest > 0
}
