package apply

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/seaguntech/template-init/internal/identity"
)

// timestampLayout renders UTC instants with millisecond precision, e.g.
// 2026-10-14T09:30:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Sentinel is the persisted record of a completed initialization.
type Sentinel struct {
	InitializedAt   string     `json:"initializedAt"`
	ProjectName     string     `json:"projectName"`
	Scope           string     `json:"scope"`
	GitHub          GitHubSlug `json:"github"`
	MaintainerEmail string     `json:"maintainerEmail"`
	DisplayName     string     `json:"displayName"`
}

// GitHubSlug is the owner/repo pair of the sentinel.
type GitHubSlug struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// NewSentinel builds the record for target initialized at now.
func NewSentinel(target identity.Target, now time.Time) Sentinel {
	return Sentinel{
		InitializedAt:   now.UTC().Format(timestampLayout),
		ProjectName:     target.ProjectName,
		Scope:           target.Scope,
		GitHub:          GitHubSlug{Owner: target.Owner, Repo: target.Repo},
		MaintainerEmail: target.Email,
		DisplayName:     target.DisplayName,
	}
}

// SentinelExists reports whether a sentinel is present at path.
func SentinelExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteSentinel writes the record wholesale, creating the parent directory.
func WriteSentinel(path string, sentinel Sentinel) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating sentinel directory: %w", err)
	}

	// Names like "A & B" are stored as typed, not as \u0026.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sentinel); err != nil {
		return fmt.Errorf("encoding sentinel: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing sentinel: %w", err)
	}
	return nil
}

// ReadSentinel loads a previously written record.
func ReadSentinel(path string) (Sentinel, error) {
	var sentinel Sentinel
	data, err := os.ReadFile(path)
	if err != nil {
		return sentinel, fmt.Errorf("reading sentinel: %w", err)
	}
	if err := json.Unmarshal(data, &sentinel); err != nil {
		return sentinel, fmt.Errorf("decoding sentinel %s: %w", path, err)
	}
	return sentinel, nil
}
