// Package build provides version and build information for template-init.
// It has no dependencies on other internal packages so anything can import it.
package build

import "fmt"

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info renders the one-line version banner.
func Info() string {
	return fmt.Sprintf("template-init %s (commit %s, built %s)", Version, Commit, BuildDate)
}
