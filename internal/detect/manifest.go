package detect

import (
	"fmt"
	"regexp"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// manifest is a loosely structured package manifest; fields are looked up
// by key path and anything of the wrong shape reads as absent.
type manifest struct {
	k *koanf.Koanf
}

func readManifest(path string) (*manifest, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &manifest{k: k}, nil
}

// str returns the string at path, or "" when absent or not a string.
func (m *manifest) str(path string) string {
	value, ok := m.k.Get(path).(string)
	if !ok {
		return ""
	}
	return value
}

func (m *manifest) name() string {
	return m.str("name")
}

// repositoryURLs returns the URL-ish fields in lookup order. Both the
// object and the shorthand string forms of repository and bugs are accepted.
func (m *manifest) repositoryURLs() []string {
	var urls []string
	for _, path := range []string{"repository.url", "repository", "homepage", "bugs.url", "bugs"} {
		if value := m.str(path); value != "" {
			urls = append(urls, value)
		}
	}
	return urls
}

var githubSlugPattern = regexp.MustCompile(`(?i)github\.com[/:]([^/]+)/([^/.]+?)(?:\.git)?(?:$|/)`)

// ParseGitHubSlug extracts owner and repo from an https, ssh or git URL
// pointing at github.com.
func ParseGitHubSlug(value string) (owner, repo string, ok bool) {
	match := githubSlugPattern.FindStringSubmatch(value)
	if match == nil {
		return "", "", false
	}
	return match[1], match[2], true
}
