package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/savaki/build-badges/internal/di"
	"github.com/savaki/build-badges/internal/handler"
	"github.com/savaki/build-badges/internal/models"
	"github.com/urfave/cli/v2"
)

// readMessage reads either a Message envelope or a bare BuildEvent
func readMessage(r io.Reader) (models.Message, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Message{}, fmt.Errorf("failed to read event: %w", err)
	}

	var msg models.Message
	if err := json.Unmarshal(data, &msg); err == nil && msg.Data != "" {
		return msg, nil
	}

	event, err := models.DecodeBuildEvent(data)
	if err != nil {
		return models.Message{}, err
	}
	return models.EncodeMessage(event)
}

func newHandler(ctx context.Context, env string, opts ...di.Option) (*handler.Handler, error) {
	container, err := di.New(env, append([]di.Option{di.WithContext(ctx)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create DI container: %w", err)
	}
	return di.Get[*handler.Handler](container)
}

func main() {
	logger := di.ProvideLogger().With().Str("lambda", "build-badge").Logger()

	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		h, err := newHandler(logger.WithContext(context.Background()), env)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create handler")
			os.Exit(1)
		}

		// Wrap handler to inject logger into context
		wrappedHandler := func(ctx context.Context, msg models.Message) error {
			ctx = logger.WithContext(ctx)
			return h.HandleMessage(ctx, msg)
		}
		lambda.Start(wrappedHandler)
		return
	}

	app := &cli.App{
		Name:  "build-badge",
		Usage: "Publish badges for a build event read from a file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "event",
				Usage:    "path to a build event or message envelope JSON file, - for stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "S3 endpoint override, e.g. a local emulator",
				EnvVars: []string{"AWS_ENDPOINT_URL_S3"},
			},
			&cli.StringFlag{
				Name:  "rules",
				Usage: "badge rules file, overrides BADGE_RULES_FILE",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: func(c *cli.Context) error {
			logger := logger
			if c.Bool("verbose") {
				logger = logger.Level(zerolog.DebugLevel)
			}
			ctx := logger.WithContext(context.Background())

			var r io.Reader = os.Stdin
			if path := c.String("event"); path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open event file: %w", err)
				}
				defer f.Close()
				r = f
			}

			msg, err := readMessage(r)
			if err != nil {
				return err
			}

			h, err := newHandler(ctx, env,
				di.WithEndpoint(c.String("endpoint")),
				di.WithRulesFile(c.String("rules")),
			)
			if err != nil {
				return err
			}

			return h.HandleMessage(ctx, msg)
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
