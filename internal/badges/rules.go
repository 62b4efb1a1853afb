package badges

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/savaki/build-badges/internal/errors"
	"github.com/savaki/build-badges/internal/models"
	"gopkg.in/yaml.v3"
)

// RuleSpec is the file representation of a single trigger rule.
// Exactly one of Variant or Badges must be set.
type RuleSpec struct {
	Variant string            `yaml:"variant,omitempty"` // badges/{variant}/{status}.svg
	Badges  map[string]string `yaml:"badges,omitempty"`  // STATUS -> object key
}

// RuleFile is the file representation of the trigger rule table
type RuleFile struct {
	Triggers map[string]RuleSpec `yaml:"triggers"`
}

// Entry is a single trigger and status pair with the badge it resolves to
type Entry struct {
	Trigger string `json:"trigger"`
	Status  string `json:"status"`
	Key     string `json:"key"`
}

// Validate checks every rule in the file
func (f RuleFile) Validate() error {
	for _, name := range slices.Sorted(maps.Keys(f.Triggers)) {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty trigger name", errors.ErrInvalidBadgeRule)
		}
		if err := f.Triggers[name].validate(); err != nil {
			return fmt.Errorf("trigger %s: %w", name, err)
		}
	}
	return nil
}

func (r RuleSpec) validate() error {
	switch {
	case r.Variant != "" && len(r.Badges) > 0:
		return fmt.Errorf("%w: variant and badges are mutually exclusive", errors.ErrInvalidBadgeRule)
	case r.Variant == "" && len(r.Badges) == 0:
		return fmt.Errorf("%w: one of variant or badges is required", errors.ErrInvalidBadgeRule)
	case strings.Contains(r.Variant, "/"):
		return fmt.Errorf("%w: variant %q must not contain '/'", errors.ErrInvalidBadgeRule, r.Variant)
	}

	for status, key := range r.Badges {
		if !models.IsKnownStatus(status) {
			return fmt.Errorf("%w: unknown status %q", errors.ErrInvalidBadgeRule, status)
		}
		if key == "" {
			return fmt.Errorf("%w: empty badge for status %s", errors.ErrInvalidBadgeRule, status)
		}
	}
	return nil
}

func (r RuleSpec) rule() Rule {
	if r.Variant != "" {
		return VariantRule(r.Variant)
	}
	return StatusMapRule(r.Badges)
}

// Rules converts the file into a rule table for NewSelector
func (f RuleFile) Rules() map[string]Rule {
	rules := make(map[string]Rule, len(f.Triggers))
	for name, spec := range f.Triggers {
		rules[name] = spec.rule()
	}
	return rules
}

// Entries expands every rule against every known status
func (f RuleFile) Entries() []Entry {
	var entries []Entry
	for _, name := range slices.Sorted(maps.Keys(f.Triggers)) {
		rule := f.Triggers[name].rule()
		for _, status := range models.Statuses {
			if key, ok := rule(status); ok {
				entries = append(entries, Entry{Trigger: name, Status: status, Key: key})
			}
		}
	}
	return entries
}

// LoadRules reads and validates a YAML rule table. Unknown fields and
// duplicate trigger names are rejected.
func LoadRules(r io.Reader) (RuleFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RuleFile{}, fmt.Errorf("failed to read badge rules: %w", err)
	}

	var file RuleFile
	if len(bytes.TrimSpace(data)) == 0 {
		return file, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return RuleFile{}, fmt.Errorf("%w: %w", errors.ErrInvalidBadgeRule, err)
	}

	if err := file.Validate(); err != nil {
		return RuleFile{}, err
	}
	return file, nil
}

// LoadRulesFile reads and validates the YAML rule table at path
func LoadRulesFile(path string) (RuleFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return RuleFile{}, fmt.Errorf("failed to open badge rules %s: %w", path, err)
	}
	defer f.Close()

	file, err := LoadRules(f)
	if err != nil {
		return RuleFile{}, fmt.Errorf("badge rules %s: %w", path, err)
	}
	return file, nil
}
