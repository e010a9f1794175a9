package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inventory-api/internal/config"
	"inventory-api/internal/handlers"
	"inventory-api/internal/infrastructure/decorators"
	"inventory-api/internal/infrastructure/observability"
	"inventory-api/internal/infrastructure/tracing"
	"inventory-api/internal/repository"
	"inventory-api/internal/repository/ddb"
	"inventory-api/internal/service/inventory"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "inventory"

// ============================================================================
// CONFIGURATION PROVIDERS
// ============================================================================

// ProvideLogLevel parses the configured level into a level that can be
// changed at runtime.
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return zap.NewAtomicLevelAt(level), nil
}

// ProvideLogger creates the application logger. Production logs JSON;
// every other environment gets the console encoder.
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, func(), error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	logger = logger.With(
		zap.String("service", cfg.ProjectName),
		zap.String("environment", string(cfg.Environment)),
	)

	cleanup := func() { _ = logger.Sync() }
	return logger, cleanup, nil
}

// ProvideRepositoryConfig derives the store settings.
func ProvideRepositoryConfig(cfg *config.Config) repository.Config {
	return repository.Config{
		TableName:  cfg.TableName,
		IndexName:  cfg.IndexName,
		Region:     cfg.Region,
		Endpoint:   cfg.DynamoDBEndpoint,
		MaxRetries: cfg.MaxRetries,
	}.WithDefaults()
}

// ============================================================================
// AWS PROVIDERS
// ============================================================================

// ProvideAWSConfig loads the AWS SDK configuration. Against a local
// endpoint it uses static dummy credentials, which DynamoDB Local accepts.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config, repoCfg repository.Config) (aws.Config, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(repoCfg.Region),
		awsConfig.WithRetryMode(aws.RetryModeAdaptive),
		awsConfig.WithRetryMaxAttempts(repoCfg.MaxAttempts()),
	}
	if cfg.IsLocal() {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(loadCtx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at the endpoint
// override when one is configured.
func ProvideDynamoDBClient(awsCfg aws.Config, repoCfg repository.Config) *awsDynamodb.Client {
	return awsDynamodb.NewFromConfig(awsCfg, func(o *awsDynamodb.Options) {
		if repoCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(repoCfg.Endpoint)
		}
		o.HTTPClient = &http.Client{
			Timeout: time.Duration(repoCfg.TimeoutMs) * time.Millisecond,
		}
	})
}

// ============================================================================
// OBSERVABILITY PROVIDERS
// ============================================================================

// ProvideCollector creates the Prometheus collector.
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(MetricsNamespace)
}

// ProvideTracerProvider exports spans over OTLP when tracing is enabled.
// Otherwise spans are created but never exported.
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*tracing.TracerProvider, func(), error) {
	var (
		tp  *tracing.TracerProvider
		err error
	)
	if cfg.TracingEnabled {
		tp, err = tracing.InitTracing(ctx, cfg.ProjectName, string(cfg.Environment), cfg.OTLPEndpoint)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Tracing enabled", zap.String("otlp_endpoint", cfg.OTLPEndpoint))
	} else {
		tp = tracing.NewTracerProvider(cfg.ProjectName)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ============================================================================
// REPOSITORY AND SERVICE PROVIDERS
// ============================================================================

// ProvideItemStore creates the DynamoDB store wrapped with logging, metrics
// and tracing.
func ProvideItemStore(
	client *awsDynamodb.Client,
	repoCfg repository.Config,
	logger *zap.Logger,
	collector *observability.Collector,
	tp *tracing.TracerProvider,
) repository.ItemStore {
	var store repository.ItemStore = ddb.NewStore(client, repoCfg, logger)
	store = decorators.NewLoggingStore(store, logger, decorators.DefaultLoggingConfig())
	store = observability.NewMetricsStore(store, collector)
	store = tracing.TraceStore(store, tp.Tracer())
	return store
}

// ProvideService creates the inventory service.
func ProvideService(
	store repository.ItemStore,
	repoCfg repository.Config,
	logger *zap.Logger,
	collector *observability.Collector,
) inventory.Service {
	return inventory.NewService(store, logger, inventory.Config{
		IndexName: repoCfg.IndexName,
		Skips:     collector,
	})
}

// ============================================================================
// INTERFACE PROVIDERS
// ============================================================================

// ProvideItemHandler creates the HTTP handler for item operations.
func ProvideItemHandler(service inventory.Service, logger *zap.Logger) *handlers.ItemHandler {
	return handlers.NewItemHandler(service, logger)
}

// ProvideRouter creates and configures the HTTP router.
func ProvideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	itemHandler *handlers.ItemHandler,
	collector *observability.Collector,
	coldStart *ColdStartTracker,
) *chi.Mux {
	return setupRouter(cfg, logger, itemHandler, collector, coldStart)
}
