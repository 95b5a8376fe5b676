// Package detect infers the template's current identity from the project
// tree: the root manifest, the workspace member manifests, the contact
// document and, as a last resort, the git origin remote.
//
// Detection is best-effort. Only an unreadable root manifest is an error;
// every other miss falls through to the configured fallback value.
package detect

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/seaguntech/template-init/internal/config"
	"github.com/seaguntech/template-init/internal/git"
	"github.com/seaguntech/template-init/internal/identity"
)

// RemoteURLFunc returns the origin remote URL of the repository containing root.
type RemoteURLFunc func(root string) (string, error)

// Detector inspects a project tree.
type Detector struct {
	cfg       *config.Configuration
	logger    *slog.Logger
	remoteURL RemoteURLFunc
}

// Option configures a Detector.
type Option func(*Detector)

// WithRemoteURL replaces the git origin lookup.
func WithRemoteURL(fn RemoteURLFunc) Option {
	return func(d *Detector) {
		d.remoteURL = fn
	}
}

// WithLogger sets the logger used for lookup misses.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// New creates a Detector driven by cfg.
func New(cfg *config.Configuration, opts ...Option) *Detector {
	d := &Detector{
		cfg:    cfg,
		logger: slog.Default(),
		remoteURL: func(root string) (string, error) {
			return git.RemoteURL(root, git.DefaultRemote)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the current identity of the project at root.
func (d *Detector) Detect(root string) (identity.Current, error) {
	manifestPath := filepath.Join(root, d.cfg.ManifestName)
	manifest, err := readManifest(manifestPath)
	if err != nil {
		return identity.Current{}, fmt.Errorf("reading root manifest: %w", err)
	}

	current := identity.Current{
		RootName:        d.rootName(manifest),
		Scope:           d.scope(root),
		MaintainerEmail: d.maintainerEmail(root),
	}
	current.Owner, current.Repo = d.githubSlug(root, manifest)

	d.logger.Debug("detected current identity",
		"rootName", current.RootName,
		"scope", current.Scope,
		"owner", current.Owner,
		"repo", current.Repo,
		"maintainerEmail", current.MaintainerEmail)

	return current, nil
}

func (d *Detector) rootName(m *manifest) string {
	if name := m.name(); name != "" {
		return name
	}
	d.logger.Debug("root manifest has no name, using fallback", "fallback", d.cfg.Fallback.RootName)
	return d.cfg.Fallback.RootName
}

// githubSlug tries the manifest URL fields, then the git origin remote.
func (d *Detector) githubSlug(root string, m *manifest) (owner, repo string) {
	for _, candidate := range m.repositoryURLs() {
		if owner, repo, ok := ParseGitHubSlug(candidate); ok {
			return owner, repo
		}
	}

	if d.remoteURL != nil {
		remote, err := d.remoteURL(root)
		if err != nil {
			d.logger.Debug("no git origin remote", "error", err)
		} else if owner, repo, ok := ParseGitHubSlug(remote); ok {
			return owner, repo
		}
	}

	d.logger.Debug("no github slug found, using fallback",
		"owner", d.cfg.Fallback.Owner, "repo", d.cfg.Fallback.Repo)
	return d.cfg.Fallback.Owner, d.cfg.Fallback.Repo
}

func (d *Detector) scope(root string) string {
	names := d.memberNames(root)
	if scope, ok := dominantScope(names); ok {
		return scope
	}
	d.logger.Debug("no scoped workspace members, using fallback", "fallback", d.cfg.Fallback.Scope)
	return d.cfg.Fallback.Scope
}

func (d *Detector) maintainerEmail(root string) string {
	if d.cfg.ContactFile != "" {
		if email, ok := firstEmail(filepath.Join(root, d.cfg.ContactFile)); ok {
			return email
		}
	}
	d.logger.Debug("no maintainer email found, using fallback", "fallback", d.cfg.Fallback.Email)
	return d.cfg.Fallback.Email
}
