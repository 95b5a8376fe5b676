// Package git provides the Git repository lookups template-init needs: the
// repository root (the default project root) and the URL of a named remote
// (a fallback source for the GitHub owner/repo slug). It uses go-git, so no
// git CLI is required.
package git

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
)

// DefaultRemote is the remote consulted for the repository slug.
const DefaultRemote = "origin"

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// GetRepositoryRoot returns the absolute path to the root of the repository
// containing path (or the current directory when path is empty).
func GetRepositoryRoot(path string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] GetRepositoryRoot: %s", root)
	return root, nil
}

// ErrNoRemoteURL is returned when the remote exists but has no URL configured.
var ErrNoRemoteURL = errors.New("remote has no URL")

// RemoteURL returns the first configured URL of the named remote of the
// repository containing path.
func RemoteURL(path, name string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("getting remote %s: %w", name, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s: %w", name, ErrNoRemoteURL)
	}

	logDebug("[git] RemoteURL(%s): %s", name, urls[0])
	return urls[0], nil
}
