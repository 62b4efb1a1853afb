package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/build-badges/internal/di"
	"github.com/savaki/build-badges/internal/handler"
	"github.com/savaki/build-badges/internal/models"
	"github.com/urfave/cli/v2"
)

// PublishCommand returns the publish command for publishing the badges of a build
func PublishCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Publish the badges for a build",
		Description: `Publish the trigger badge and research badge for a build, as the
build-badge lambda would for the equivalent build event.

Examples:
  # Publish the trigger badge for a successful build of svc/main
  build-badges publish --bucket my-badges --status SUCCESS \
    --sub REPO_NAME=svc --sub BRANCH_NAME=main --sub TRIGGER_NAME=ci

  # Publish a research badge against a local S3 emulator
  build-badges publish --bucket my-badges --status FAILURE --tag research \
    --sub _TEST_NAME=t1 --sub _FLIPPY_TAG_CLEAN=v2 --sub _COMMITISH_CLEAN=abc123 \
    --endpoint http://localhost:9000`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "environment used to locate SSM parameters",
				Value:   "dev",
				EnvVars: []string{"ENV"},
			},
			&cli.StringFlag{
				Name:    "bucket",
				Aliases: []string{"b"},
				Usage:   "bucket holding the badges",
				EnvVars: []string{"BADGES_BUCKET"},
			},
			&cli.StringFlag{
				Name:     "status",
				Aliases:  []string{"s"},
				Usage:    "build status, e.g. SUCCESS or FAILURE",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "sub",
				Usage: "substitution as KEY=VALUE, may be repeated",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "build tag, may be repeated",
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "S3 endpoint override, e.g. a local emulator",
				EnvVars: []string{"AWS_ENDPOINT_URL_S3"},
			},
			&cli.StringFlag{
				Name:    "rules",
				Aliases: []string{"r"},
				Usage:   "badge rules file",
				EnvVars: []string{"BADGE_RULES_FILE"},
			},
		},
		Action: func(c *cli.Context) error {
			ctx := logger.WithContext(c.Context)

			subs, err := parseSubstitutions(c.StringSlice("sub"))
			if err != nil {
				return err
			}

			event := models.BuildEvent{
				Substitutions: subs,
				Tags:          c.StringSlice("tag"),
				Status:        c.String("status"),
			}
			if event.Tags == nil {
				event.Tags = []string{}
			}

			container, err := di.New(c.String("env"),
				di.WithContext(ctx),
				di.WithBucket(c.String("bucket")),
				di.WithEndpoint(c.String("endpoint")),
				di.WithRulesFile(c.String("rules")),
			)
			if err != nil {
				return fmt.Errorf("failed to create DI container: %w", err)
			}

			h, err := di.Get[*handler.Handler](container)
			if err != nil {
				return err
			}

			published, err := h.HandleBuildEvent(ctx, event)
			if err != nil {
				return err
			}

			if len(published) == 0 {
				fmt.Fprintln(c.App.Writer, "no badges published: build event lacks the required substitutions")
				return nil
			}
			for _, key := range published {
				fmt.Fprintln(c.App.Writer, key)
			}
			return nil
		},
	}
}

// parseSubstitutions parses KEY=VALUE pairs. Values may be empty and may
// contain '='.
func parseSubstitutions(pairs []string) (models.Substitutions, error) {
	subs := models.Substitutions{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid substitution %q, expected KEY=VALUE", pair)
		}
		subs[key] = value
	}
	return subs, nil
}
