package rewrite

import (
	"github.com/seaguntech/template-init/internal/identity"
)

// Replacer applies the replacement passes to file contents. It is a pure
// transform and holds no state between calls.
type Replacer struct {
	rules []Rule
}

// New builds a Replacer for rewriting current into target.
func New(current identity.Current, target identity.Target, phrases []Phrase) *Replacer {
	return &Replacer{rules: BuildRules(current, target, phrases)}
}

// Rules returns the passes in the order they run.
func (r *Replacer) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Apply runs every pass in order, each against the result of the previous
// one. Content without any old token comes back unchanged.
func (r *Replacer) Apply(content string) string {
	next := content
	for _, rule := range r.rules {
		next = rule.apply(next)
	}
	return next
}
