// Package di provides a lightweight wrapper around uber's dig dependency injection framework.
// It simplifies container setup and provides type-safe dependency retrieval with generics.
package di

import (
	"go.uber.org/dig"
)

// Container defines a dependency injection container based on uber's dig.
// This interface allows for easy testing and mocking of the DI container.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error

	// Decorate replaces a value in the container, typically a client in tests.
	Decorate(decorator any, opts ...dig.DecorateOption) error
}

// MustGet returns an instance constructed via dependency injection or panics.
// This is a convenience function for retrieving a dependency from the container
// when you're certain it exists. If the dependency cannot be resolved, it will panic.
//
// Example:
//
//	h := MustGet[*handler.Handler](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// Get returns an instance constructed via dependency injection
func Get[T any](container Container) (want T, err error) {
	err = container.Invoke(func(got T) {
		want = got
	})
	return want, err
}

// New creates a new dependency injection container for the given environment.
// The environment string is automatically registered as a string dependency
// that can be injected as a regular string parameter.
//
// Core providers are constructed lazily, so a container can be created
// without AWS access as long as nothing asks for an AWS client.
func New(env string, opts ...Option) (Container, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	container := dig.New()
	if err := container.Provide(func() string { return env }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() Bucket { return o.bucket }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() Endpoint { return o.endpoint }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() RulesFile { return o.rulesFile }); err != nil {
		return nil, err
	}
	if err := container.Provide(o.provideContext); err != nil {
		return nil, err
	}

	for _, provider := range core {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideAWSConfig,
	ProvideSSMClient,
	ProvideParameterStore,
	ProvideAppConfig,
	ProvideS3Client,
	ProvideS3API,
	ProvideRuleFile,
	ProvideSelector,
	ProvidePublisher,
	ProvideHandler,
	ProvideContextLogger,
}
