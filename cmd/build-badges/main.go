package main

import (
	"context"
	"os"

	"github.com/savaki/build-badges/cmd/build-badges/commands"
	"github.com/savaki/build-badges/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "build-badges",
		Usage: "Publish build status badges",
		Description: `Copies pre-rendered status badges to paths derived from build metadata.

This tool provides commands for:
  - Publishing the badges for a build event
  - Resolving which badge a trigger and status select
  - Validating badge rule files`,
		Commands: []*cli.Command{
			commands.PublishCommand(&logger),
			commands.ResolveCommand(&logger),
			commands.RulesCommand(&logger),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
