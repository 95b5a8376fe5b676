// Package rewrite builds the ordered replacement passes that turn template
// identity tokens into project identity tokens, and applies them to file
// contents.
package rewrite

import (
	"regexp"
	"strings"

	"github.com/seaguntech/template-init/internal/identity"
)

// DisplayNamePlaceholder marks where the target display name goes in a Phrase.
const DisplayNamePlaceholder = "{{displayName}}"

// Kind selects how a Rule searches.
type Kind int

const (
	// Literal replaces every occurrence of the search string.
	Literal Kind = iota
	// Pattern compiles the escaped search string and replaces every match.
	Pattern
)

// Rule is a single replacement pass.
type Rule struct {
	Name        string
	Kind        Kind
	Search      string
	Replacement string

	pattern *regexp.Regexp
}

// Phrase is a branded phrase and its rewrite. To may reference the target
// display name with {{displayName}}.
type Phrase struct {
	From string `koanf:"from" validate:"required"`
	To   string `koanf:"to"`
}

// BuildRules returns the replacement passes in priority order. Scoped
// package tokens and full repository URLs come before the bare slug, root
// name and email, and the .git URL before the suffix-less one, so a longer
// token is never half-rewritten by a shorter one.
func BuildRules(current identity.Current, target identity.Target, phrases []Phrase) []Rule {
	oldRepoHTTP := githubURL(current.Owner, current.Repo)
	newRepoHTTP := githubURL(target.Owner, target.Repo)

	rules := []Rule{
		literal("scope", scopeToken(current.Scope), scopeToken(target.Scope)),
		literal("repository url (.git)", oldRepoHTTP+".git", newRepoHTTP+".git"),
		literal("repository url", oldRepoHTTP, newRepoHTTP),
		pattern("slug", current.Owner+"/"+current.Repo, target.Slug()),
		pattern("root name", current.RootName, target.ProjectName),
		pattern("maintainer email", current.MaintainerEmail, target.Email),
	}

	for _, phrase := range phrases {
		to := strings.ReplaceAll(phrase.To, DisplayNamePlaceholder, target.DisplayName)
		rules = append(rules, literal("phrase", phrase.From, to))
	}

	return skipEmpty(rules)
}

func scopeToken(scope string) string {
	if scope == "" {
		return ""
	}
	return "@" + scope + "/"
}

func githubURL(owner, repo string) string {
	return "https://github.com/" + owner + "/" + repo
}

func literal(name, search, replacement string) Rule {
	return Rule{Name: name, Kind: Literal, Search: search, Replacement: replacement}
}

func pattern(name, search, replacement string) Rule {
	rule := Rule{Name: name, Kind: Pattern, Search: search, Replacement: replacement}
	if search != "" {
		rule.pattern = regexp.MustCompile(regexp.QuoteMeta(search))
	}
	return rule
}

// skipEmpty drops passes whose search token is empty or that would be a
// no-op. An empty pattern matches between every rune.
func skipEmpty(rules []Rule) []Rule {
	kept := rules[:0]
	for _, rule := range rules {
		if rule.Search == "" || rule.Search == rule.Replacement {
			continue
		}
		kept = append(kept, rule)
	}
	return kept
}

// apply runs one pass against content.
func (r Rule) apply(content string) string {
	if r.Kind == Pattern && r.pattern != nil {
		return r.pattern.ReplaceAllLiteralString(content, r.Replacement)
	}
	return strings.ReplaceAll(content, r.Search, r.Replacement)
}
