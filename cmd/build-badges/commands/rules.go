package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/savaki/build-badges/internal/badges"
	"github.com/savaki/build-badges/internal/errors"
	"github.com/savaki/build-badges/internal/policy"
	"github.com/urfave/cli/v2"
)

// RulesCommand returns the rules command for inspecting badge rule files
func RulesCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "Inspect badge rule files",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate a badge rules file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.ShowSubcommandHelp(c)
					}
					path := c.Args().First()

					file, err := loadValidatedRules(c.Context, logger, path)
					if err != nil {
						return err
					}

					triggers := badges.NewSelector(file.Rules()).Triggers()
					fmt.Fprintf(c.App.Writer, "%s: %d triggers ok\n", path, len(triggers))
					for _, trigger := range triggers {
						fmt.Fprintf(c.App.Writer, "  %s\n", trigger)
					}
					return nil
				},
			},
			{
				Name:      "list",
				Usage:     "List every badge a rules file resolves to",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.ShowSubcommandHelp(c)
					}

					file, err := loadValidatedRules(c.Context, logger, c.Args().First())
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "TRIGGER\tSTATUS\tBADGE")
					for _, entry := range file.Entries() {
						fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Trigger, entry.Status, entry.Key)
					}
					return w.Flush()
				},
			},
		},
	}
}

// loadValidatedRules loads the rules file at path and applies the badge
// policy the lambda enforces at startup
func loadValidatedRules(ctx context.Context, logger *zerolog.Logger, path string) (badges.RuleFile, error) {
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
		for _, violation := range result.Violations {
			logger.Error().Str("file", path).Msg(violation)
		}
		return badges.RuleFile{}, fmt.Errorf("%w: %d violations in %s", errors.ErrInvalidBadgeRule, len(result.Violations), path)
	}

	return file, nil
}
