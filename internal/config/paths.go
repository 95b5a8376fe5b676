package config

import (
	"path/filepath"
)

// ProjectConfigPath returns the path to the project-level config file,
// relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), "config.yml")
}

// ProjectConfigDir returns the project-level state directory, relative to the project root.
// It holds both the optional config file and the sentinel.
func ProjectConfigDir() string {
	return ".template"
}

// DefaultSentinelPath returns the default initialized marker location.
func DefaultSentinelPath() string {
	return filepath.Join(ProjectConfigDir(), "initialized.json")
}
