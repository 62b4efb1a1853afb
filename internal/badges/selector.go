// Package badges selects the pre-rendered badge image for a build and
// computes where the badge is published.
package badges

import (
	"maps"
	"slices"
	"strings"
)

// StatusBadge returns the key of the default badge for status
func StatusBadge(status string) string {
	return "badges/" + strings.ToLower(status) + ".svg"
}

// Rule resolves the badge for a build status. ok is false when the
// rule has no badge for status.
type Rule func(status string) (key string, ok bool)

// VariantRule selects badges from the badges/{variant}/ directory
func VariantRule(variant string) Rule {
	return func(status string) (string, bool) {
		return "badges/" + variant + "/" + strings.ToLower(status) + ".svg", true
	}
}

// StatusMapRule selects badges from an explicit status to key table
func StatusMapRule(keys map[string]string) Rule {
	keys = maps.Clone(keys)
	return func(status string) (string, bool) {
		key, ok := keys[status]
		return key, ok
	}
}

// Selector maps a trigger name and build status to a badge object key
type Selector struct {
	rules map[string]Rule
}

// NewSelector returns a Selector over rules, keyed by trigger name.
// A nil or empty map yields a Selector that always falls back to
// StatusBadge.
func NewSelector(rules map[string]Rule) *Selector {
	return &Selector{
		rules: maps.Clone(rules),
	}
}

// Lookup returns the trigger specific badge for status
func (s *Selector) Lookup(trigger, status string) (string, bool) {
	rule, ok := s.rules[trigger]
	if !ok {
		return "", false
	}
	return rule(status)
}

// Select returns the trigger specific badge for status, or StatusBadge
// when the trigger has none.
func (s *Selector) Select(trigger, status string) string {
	if key, ok := s.Lookup(trigger, status); ok {
		return key
	}
	return StatusBadge(status)
}

// Triggers returns the trigger names with a registered rule, sorted
func (s *Selector) Triggers() []string {
	return slices.Sorted(maps.Keys(s.rules))
}
