package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/savaki/build-badges/internal/badges"
	"github.com/urfave/cli/v2"
)

// ResolveCommand returns the resolve command for showing which badge a build selects
func ResolveCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Show the source badge and destination for a trigger and status",
		ArgsUsage: "TRIGGER STATUS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rules",
				Aliases: []string{"r"},
				Usage:   "badge rules file",
				EnvVars: []string{"BADGE_RULES_FILE"},
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "repository name, prints the trigger badge destination when set with --branch",
			},
			&cli.StringFlag{
				Name:  "branch",
				Usage: "branch name",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.ShowSubcommandHelp(c)
			}
			trigger, status := c.Args().Get(0), c.Args().Get(1)

			var file badges.RuleFile
			if path := c.String("rules"); path != "" {
				var err error
				if file, err = loadValidatedRules(c.Context, logger, path); err != nil {
					return err
				}
			}
			selector := badges.NewSelector(file.Rules())

			key, ok := selector.Lookup(trigger, status)
			if !ok {
				key = badges.StatusBadge(status)
				logger.Debug().
					Str("trigger", trigger).
					Str("status", status).
					Msg("No trigger rule matched, using status badge")
			}

			fmt.Fprintf(c.App.Writer, "source: %s\n", key)
			if repo, branch := c.String("repo"), c.String("branch"); repo != "" && branch != "" {
				fmt.Fprintf(c.App.Writer, "destination: %s\n", badges.TriggerBadgePath(repo, branch, trigger))
			}
			return nil
		},
	}
}
