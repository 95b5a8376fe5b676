// Package scan lists the files under a project root that are candidates for
// identity rewriting.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Rules decide which paths are skipped.
type Rules struct {
	// ExcludeDirs are directory names skipped anywhere in the tree.
	ExcludeDirs []string
	// ExcludeFiles are file names skipped anywhere in the tree.
	ExcludeFiles []string
	// ExcludePaths are doublestar patterns matched against slash-separated
	// paths relative to the root. A matching directory is not descended into.
	ExcludePaths []string
	// ExcludeExact are slash-separated relative file paths skipped verbatim.
	ExcludeExact []string
	// TextExtensions is the allow-list of extensions, including the dot.
	TextExtensions []string
	// AlwaysInclude are file names accepted regardless of extension.
	AlwaysInclude []string
}

// Scanner walks a project tree.
type Scanner struct {
	excludeDirs  map[string]bool
	excludeFiles map[string]bool
	excludePaths []string
	excludeExact map[string]bool
	extensions   map[string]bool
	include      map[string]bool
}

// New compiles rules into a Scanner. Patterns are validated up front so a
// bad pattern fails before any file is read.
func New(rules Rules) (*Scanner, error) {
	for _, pattern := range rules.ExcludePaths {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return &Scanner{
		excludeDirs:  toSet(rules.ExcludeDirs),
		excludeFiles: toSet(rules.ExcludeFiles),
		excludePaths: rules.ExcludePaths,
		excludeExact: toSet(rules.ExcludeExact),
		extensions:   toSet(rules.TextExtensions),
		include:      toSet(rules.AlwaysInclude),
	}, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Scan returns the absolute paths of every candidate file under root,
// depth-first in lexical order.
func (s *Scanner) Scan(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if s.excludeDirs[entry.Name()] || s.pathExcluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}
		if s.Accepts(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", absRoot, err)
	}

	return files, nil
}

// Accepts reports whether the regular file at the slash-separated relative
// path rel is a candidate. Directory exclusions are applied by Scan.
func (s *Scanner) Accepts(rel string) bool {
	name := filepath.Base(filepath.FromSlash(rel))
	if s.excludeFiles[name] {
		return false
	}
	if !s.extensions[filepath.Ext(name)] && !s.include[name] {
		return false
	}
	return !s.excludeExact[rel] && !s.pathExcluded(rel)
}

func (s *Scanner) pathExcluded(rel string) bool {
	for _, pattern := range s.excludePaths {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
