// Package identity holds the project identity tokens that template-init
// detects and rewrites: the template's current values and the resolved
// target values, plus the format rules the target must satisfy.
package identity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Current is the identity detected from the files on disk.
type Current struct {
	RootName        string
	Scope           string
	Owner           string
	Repo            string
	MaintainerEmail string
}

// Target is the identity the tree is rewritten to.
type Target struct {
	ProjectName string `validate:"npmname"`
	Scope       string `validate:"npmname"`
	Owner       string `validate:"githubpart"`
	Repo        string `validate:"githubpart"`
	Email       string `validate:"mailbox"`
	DisplayName string
}

// Slug returns the owner/repo pair.
func (t Target) Slug() string {
	return t.Owner + "/" + t.Repo
}

var displaySeparators = regexp.MustCompile(`[-_.\s]+`)

// DisplayName derives a human-readable name from a package name:
// "widgetco-app" becomes "Widgetco App".
func DisplayName(projectName string) string {
	segments := displaySeparators.Split(projectName, -1)
	words := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(segment)
		words = append(words, string(unicode.ToUpper(first))+segment[size:])
	}
	return strings.Join(words, " ")
}

// NormalizeScope strips a single leading "@" and surrounding whitespace.
func NormalizeScope(scope string) string {
	return strings.TrimSpace(strings.TrimPrefix(scope, "@"))
}
