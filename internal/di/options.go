package di

import (
	"context"

	"github.com/rs/zerolog"
)

// Bucket overrides the badges bucket named in configuration
type Bucket string

// Endpoint overrides the S3 endpoint, e.g. a local S3 emulator
type Endpoint string

// RulesFile overrides the badge rules file named in configuration
type RulesFile string

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithContext sets the context handed to providers. The context should
// carry a logger.
func WithContext(ctx context.Context) Option {
	return func(opts *options) {
		opts.ctx = ctx
	}
}

// WithBucket overrides the badges bucket loaded from configuration.
func WithBucket(name string) Option {
	return func(opts *options) {
		opts.bucket = Bucket(name)
	}
}

// WithEndpoint points the S3 client at url, typically a local S3 emulator.
// Configuration is then read from the environment rather than SSM.
func WithEndpoint(url string) Option {
	return func(opts *options) {
		opts.endpoint = Endpoint(url)
	}
}

// WithRulesFile overrides the badge rules file named in configuration.
func WithRulesFile(path string) Option {
	return func(opts *options) {
		opts.rulesFile = RulesFile(path)
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Each provider should be a constructor function that returns one or more values.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
//
// Example:
//
//	WithProviders(
//	    func() *Database { return &Database{} },
//	    func(db *Database) *Service { return &Service{DB: db} },
//	)
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	ctx       context.Context
	bucket    Bucket
	endpoint  Endpoint
	rulesFile RulesFile
	providers []any
}

func (o options) provideContext() context.Context {
	if o.ctx != nil {
		return o.ctx
	}
	logger := ProvideLogger()
	return logger.WithContext(context.Background())
}

// ProvideContextLogger extracts the logger carried by the container's context
func ProvideContextLogger(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}
