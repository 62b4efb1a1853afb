package di

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"github.com/savaki/build-badges/internal/services"
)

// ProvideSSMClient provides an SSM client for Parameter Store access
// Returns nil if SSM is disabled or an endpoint override targets a local
// emulator (for local development)
func ProvideSSMClient(awsConfig aws.Config, endpoint Endpoint) *ssm.Client {
	if os.Getenv("DISABLE_SSM") == "true" || endpoint != "" {
		return nil
	}

	return ssm.NewFromConfig(awsConfig)
}

// ProvideParameterStore provides a ParameterStore implementation
// Uses SSM Parameter Store in AWS, falls back to environment variables when disabled
func ProvideParameterStore(ctx context.Context, ssmClient *ssm.Client, env string) services.ParameterStore {
	logger := zerolog.Ctx(ctx)

	if ssmClient == nil {
		logger.Debug().Msg("Using environment variables for configuration (SSM disabled)")
		return services.NewEnvParameterStore(env)
	}

	logger.Debug().Msg("Using AWS Systems Manager Parameter Store for configuration")
	return services.NewSSMParameterStore(ssmClient, env)
}

// ProvideAppConfig loads application configuration from Parameter Store or environment variables
func ProvideAppConfig(ctx context.Context, store services.ParameterStore, bucket Bucket) (*services.Config, error) {
	logger := zerolog.Ctx(ctx)

	config, err := store.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if bucket != "" {
		config.BadgesBucket = string(bucket)
	}

	logger.Debug().
		Str("badges_bucket", config.BadgesBucket).
		Str("badge_rules_file", config.BadgeRulesFile).
		Msg("Configuration loaded successfully")

	return config, nil
}
