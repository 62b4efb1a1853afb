package policy

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage/inmem"
	"github.com/savaki/build-badges/internal/badges"
)

//go:embed badges.rego
var policyContent string

// SourcePrefix is the directory every source badge must live under
const SourcePrefix = "badges/"

type Validator struct {
	allow      rego.PreparedEvalQuery
	violations rego.PreparedEvalQuery
}

type ValidationResult struct {
	Allowed    bool     `json:"allowed"`
	Violations []string `json:"violations,omitempty"`
}

func NewValidator() (*Validator, error) {
	ctx := context.Background()
	store := inmem.NewFromObject(map[string]interface{}{
		"source_prefix": SourcePrefix,
	})

	allow, err := rego.New(
		rego.Query("data.badges.allow"),
		rego.Module("badges.rego", policyContent),
		rego.Store(store),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare policy query: %w", err)
	}

	violations, err := rego.New(
		rego.Query("data.badges.violations"),
		rego.Module("badges.rego", policyContent),
		rego.Store(store),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare violations query: %w", err)
	}

	return &Validator{
		allow:      allow,
		violations: violations,
	}, nil
}

// ValidateRules checks every badge a rule table can resolve to
func (v *Validator) ValidateRules(ctx context.Context, file badges.RuleFile) (*ValidationResult, error) {
	entries := make([]interface{}, 0)
	for _, entry := range file.Entries() {
		entries = append(entries, map[string]interface{}{
			"trigger": entry.Trigger,
			"status":  entry.Status,
			"key":     entry.Key,
		})
	}
	input := map[string]interface{}{
		"entries": entries,
	}

	results, err := v.allow.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 {
		return &ValidationResult{
			Allowed:    false,
			Violations: []string{"policy evaluation returned no results"},
		}, nil
	}

	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return &ValidationResult{
			Allowed:    false,
			Violations: []string{"policy evaluation returned non-boolean result"},
		}, nil
	}

	result := &ValidationResult{
		Allowed: allowed,
	}

	if !allowed {
		violations, err := v.getViolations(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to get violations: %w", err)
		}
		result.Violations = violations
	}

	return result, nil
}

func (v *Validator) getViolations(ctx context.Context, input map[string]interface{}) ([]string, error) {
	results, err := v.violations.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate violations: %w", err)
	}

	if len(results) == 0 {
		return []string{"unknown policy violation"}, nil
	}

	violationsInterface := results[0].Expressions[0].Value
	if violationsInterface == nil {
		return []string{"unknown policy violation"}, nil
	}

	var violations []string
	switch v := violationsInterface.(type) {
	case []interface{}:
		for _, violation := range v {
			if str, ok := violation.(string); ok {
				violations = append(violations, str)
			}
		}
	case map[string]interface{}:
		// Handle set type from Rego
		for violation := range v {
			violations = append(violations, violation)
		}
	}

	if len(violations) == 0 {
		return []string{"policy validation failed but no specific violations found"}, nil
	}

	sort.Strings(violations)
	return violations, nil
}
