package services

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Config holds all application configuration values from Parameter Store
type Config struct {
	BadgesBucket   string
	BadgeRulesFile string
}

// ParameterStore defines the interface for accessing configuration parameters
type ParameterStore interface {
	// GetConfig loads all application configuration from Parameter Store
	GetConfig(ctx context.Context) (*Config, error)
}

// SSMAPI abstracts the SSM operations used by SSMParameterStore
type SSMAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// SSMParameterStore implements ParameterStore using AWS Systems Manager Parameter Store
type SSMParameterStore struct {
	client SSMAPI
	env    string
}

// NewSSMParameterStore creates a new SSM-backed parameter store
func NewSSMParameterStore(client SSMAPI, env string) *SSMParameterStore {
	return &SSMParameterStore{
		client: client,
		env:    env,
	}
}

// GetConfig loads all application configuration from Parameter Store.
// Environment variables take precedence over stored parameters.
func (s *SSMParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	path := fmt.Sprintf("/%s/build-badges", s.env)

	params := make(map[string]string)
	var nextToken *string
	for {
		result, err := s.client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           &path,
			Recursive:      boolPtr(true),
			WithDecryption: boolPtr(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get parameters by path %s: %w", path, err)
		}

		for _, param := range result.Parameters {
			if param.Name != nil && param.Value != nil {
				params[*param.Name] = *param.Value
			}
		}

		if result.NextToken == nil {
			break
		}
		nextToken = result.NextToken
	}

	config := &Config{
		BadgesBucket:   params[path+"/badges-bucket"],
		BadgeRulesFile: params[path+"/badge-rules-file"],
	}

	if v := os.Getenv("BADGES_BUCKET"); v != "" {
		config.BadgesBucket = v
	}
	if v := os.Getenv("BADGE_RULES_FILE"); v != "" {
		config.BadgeRulesFile = v
	}

	return config, nil
}

// EnvParameterStore implements ParameterStore using environment variables
// This is a NoOp implementation for local development without AWS connection
type EnvParameterStore struct {
	env string
}

// NewEnvParameterStore creates a new environment variable-backed parameter store
func NewEnvParameterStore(env string) *EnvParameterStore {
	return &EnvParameterStore{
		env: env,
	}
}

// GetConfig loads all application configuration from environment variables
func (e *EnvParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	return &Config{
		BadgesBucket:   os.Getenv("BADGES_BUCKET"),
		BadgeRulesFile: os.Getenv("BADGE_RULES_FILE"),
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
