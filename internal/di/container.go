// Package di assembles the application with Wire.
package di

import (
	"inventory-api/internal/config"
	"inventory-api/internal/infrastructure/observability"
	"inventory-api/internal/infrastructure/tracing"
	"inventory-api/internal/repository"
	"inventory-api/internal/service/inventory"

	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	LogLevel  zap.AtomicLevel
	DynamoDB  *awsDynamodb.Client
	Store     repository.ItemStore
	Service   inventory.Service
	Collector *observability.Collector
	Tracer    *tracing.TracerProvider
	ColdStart *ColdStartTracker
	Router    *chi.Mux
}

// ApplyConfig picks up the settings that can change without a restart.
func (c *Container) ApplyConfig(next *config.Config) {
	level, err := ProvideLogLevel(next)
	if err != nil {
		c.Logger.Warn("Ignoring invalid log level", zap.String("log_level", next.LogLevel))
		return
	}
	if c.LogLevel.Level() != level.Level() {
		c.LogLevel.SetLevel(level.Level())
		c.Logger.Info("Log level updated", zap.String("log_level", level.Level().String()))
	}
}
