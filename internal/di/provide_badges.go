package di

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/build-badges/internal/badges"
	"github.com/savaki/build-badges/internal/errors"
	"github.com/savaki/build-badges/internal/handler"
	"github.com/savaki/build-badges/internal/policy"
	"github.com/savaki/build-badges/internal/services"
)

// ProvideRuleFile loads the badge rule table. An override from
// WithRulesFile wins over configuration; with neither, the table is
// empty and every trigger uses the status badge.
func ProvideRuleFile(ctx context.Context, config *services.Config, override RulesFile) (badges.RuleFile, error) {
	path := string(override)
	if path == "" {
		path = config.BadgeRulesFile
	}
	if path == "" {
		return badges.RuleFile{}, nil
	}

	file, err := badges.LoadRulesFile(path)
	if err != nil {
		return badges.RuleFile{}, err
	}

	validator, err := policy.NewValidator()
	if err != nil {
		return badges.RuleFile{}, err
	}

	result, err := validator.ValidateRules(ctx, file)
	if err != nil {
		return badges.RuleFile{}, err
	}
	if !result.Allowed {
		return badges.RuleFile{}, fmt.Errorf("%w: %s: %s", errors.ErrInvalidBadgeRule, path, strings.Join(result.Violations, "; "))
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("triggers", len(file.Triggers)).
		Msg("Loaded badge rules")

	return file, nil
}

func ProvideSelector(file badges.RuleFile) *badges.Selector {
	return badges.NewSelector(file.Rules())
}

func ProvidePublisher(client services.S3API, logger zerolog.Logger) *services.Publisher {
	return services.NewPublisher(client, logger)
}

func ProvideHandler(config *services.Config, selector *badges.Selector, publisher *services.Publisher) (*handler.Handler, error) {
	return handler.New(config, selector, publisher)
}
