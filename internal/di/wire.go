//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"inventory-api/internal/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideRepositoryConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideCollector,
	ProvideTracerProvider,
	ProvideItemStore,
	ProvideService,
	ProvideItemHandler,
	ProvideColdStartTracker,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
