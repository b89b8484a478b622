// Package router implements the priority-ordered pattern table that maps
// free-text utterances onto typed commands. Pattern matching is the first
// line of interpretation; the fuzzy matcher is only consulted when no
// rule here recognizes the utterance.
package router

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dukaan-dev/sahayak/internal/alias"
	"github.com/dukaan-dev/sahayak/internal/command"
)

// Rule pairs a recognizer with an extractor. Rules carry a declared
// Priority rather than relying on slice position: higher priorities are
// tried first, and the first recognizer that matches wins. Rule ordering
// is part of the routing contract — a generic catch-all placed above a
// specific rule changes observable behavior for ambiguous utterances.
type Rule struct {
	Name     string
	Priority int

	// Recognize returns capture groups when the rule matches, nil
	// otherwise. Group semantics are private to the rule's Extract.
	Recognize func(utterance string) []string

	// Extract builds the command payload from the captures and the
	// original utterance.
	Extract func(rt *Router, groups []string, utterance string) *command.Command
}

// Router routes utterances through the rule table.
type Router struct {
	rules   []Rule
	aliases *alias.Resolver
}

// New creates a Router with the default rule table. Extracted
// product/target names are resolved through aliases before they are
// placed in payloads.
func New(aliases *alias.Resolver) *Router {
	return NewWithRules(aliases, defaultRules())
}

// NewWithRules creates a Router from an explicit rule set, sorted by
// declared priority (stable for equal priorities).
func NewWithRules(aliases *alias.Resolver, rules []Rule) *Router {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &Router{rules: sorted, aliases: aliases}
}

// Route returns the command of the highest-priority matching rule, or
// nil when no rule recognizes the utterance. Lower-priority rules are
// never evaluated once a match is found.
func (rt *Router) Route(utterance string) *command.Command {
	u := clean(utterance)
	if u == "" {
		return nil
	}
	for i := range rt.rules {
		if groups := rt.rules[i].Recognize(u); groups != nil {
			return rt.rules[i].Extract(rt, groups, u)
		}
	}
	return nil
}

// Rules exposes the evaluated rule order for inspection.
func (rt *Router) Rules() []string {
	names := make([]string, len(rt.rules))
	for i, r := range rt.rules {
		names[i] = r.Name
	}
	return names
}

// resolveName passes an extracted name-like field through the alias
// resolver.
func (rt *Router) resolveName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || rt.aliases == nil {
		return name
	}
	return rt.aliases.Resolve(name)
}

// clean lowercases and strips trailing punctuation so recognizers can
// anchor on word boundaries.
func clean(utterance string) string {
	u := strings.ToLower(strings.TrimSpace(utterance))
	u = strings.Trim(u, ".!?")
	return strings.Join(strings.Fields(u), " ")
}

// rx builds a regexp-backed rule.
func rx(name string, priority int, pattern string, extract func(rt *Router, groups []string, utterance string) *command.Command) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{
		Name:     name,
		Priority: priority,
		Recognize: func(utterance string) []string {
			return re.FindStringSubmatch(utterance)
		},
		Extract: extract,
	}
}

// parseNumber parses a float, returning nil when malformed so callers
// can re-prompt instead of guessing a default.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

var periodRE = regexp.MustCompile(`\b(today|yesterday|this week|last week|this month|last month|this year|last year)\b`)

// extractPeriod finds a relative time phrase in the utterance, empty
// when absent.
func extractPeriod(utterance string) string {
	if m := periodRE.FindStringSubmatch(utterance); m != nil {
		return m[1]
	}
	return ""
}
