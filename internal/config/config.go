// Package config loads the service configuration from defaults, an optional
// .env file, an optional YAML file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Environment names a deployment environment.
type Environment string

const (
	Local       Environment = "local"
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	switch e {
	case Local, Development, Staging, Production:
		return true
	}
	return false
}

// DefaultConfigFile is read when CONFIG_FILE is unset.
const DefaultConfigFile = "config/config.yaml"

// LocalDynamoDBEndpoint is DynamoDB Local's default address.
const LocalDynamoDBEndpoint = "http://localhost:8000"

// Config is the full service configuration. Every field can come from YAML
// (snake_case keys) or the environment (envconfig names).
type Config struct {
	ProjectName string      `yaml:"project_name" envconfig:"PROJECT_NAME"`
	Environment Environment `yaml:"environment" envconfig:"ENVIRONMENT"`
	Port        int         `yaml:"port" envconfig:"PORT"`

	TableName        string `yaml:"dynamodb_table" envconfig:"DYNAMODB_TABLE"`
	IndexName        string `yaml:"dynamodb_index" envconfig:"DYNAMODB_INDEX"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint" envconfig:"DYNAMODB_ENDPOINT"`
	Region           string `yaml:"aws_region" envconfig:"AWS_REGION"`
	MaxRetries       int    `yaml:"max_retries" envconfig:"DYNAMODB_MAX_RETRIES"`
	// AutoCreateTable is nil until set; the environment then decides.
	AutoCreateTable *bool `yaml:"auto_create_table" envconfig:"AUTO_CREATE_TABLE"`

	// APIKey is accepted for compatibility and never used.
	APIKey string `yaml:"api_key" envconfig:"API_KEY"`

	CORSOrigins        []string      `yaml:"cors_origins" envconfig:"CORS_ORIGINS"`
	LogLevel           string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	RequestTimeout     time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" envconfig:"RATE_LIMIT_PER_MINUTE"`

	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	OTLPEndpoint   string `yaml:"otlp_endpoint" envconfig:"OTLP_ENDPOINT"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`

	// ConfigFile is the YAML path that was consulted, whether or not it existed.
	ConfigFile string `yaml:"-" ignored:"true"`
}

// Defaults returns the configuration before any source is applied.
func Defaults() *Config {
	return &Config{
		ProjectName:        "Inventory API",
		Environment:        Local,
		Port:               8080,
		TableName:          "Inventory",
		IndexName:          "NameIndex",
		Region:             "ap-southeast-1",
		MaxRetries:         3,
		CORSOrigins:        []string{"*"},
		LogLevel:           "info",
		RequestTimeout:     30 * time.Second,
		RateLimitPerMinute: 100,
		OTLPEndpoint:       "localhost:4317",
		MetricsEnabled:     true,
	}
}

// applyEnvironmentDefaults fills settings whose default depends on the
// environment and were not set by any source.
func (c *Config) applyEnvironmentDefaults() {
	if c.AutoCreateTable == nil {
		auto := c.Environment == Local || c.Environment == Development
		c.AutoCreateTable = &auto
	}
	if c.DynamoDBEndpoint == "" && c.Environment == Local {
		c.DynamoDBEndpoint = LocalDynamoDBEndpoint
	}
	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	var errs []error

	if !c.Environment.Valid() {
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.TableName == "" {
		errs = append(errs, errors.New("dynamodb table name is required"))
	}
	if c.IndexName == "" {
		errs = append(errs, errors.New("dynamodb index name is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("aws region is required"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate limit %d must not be negative", c.RateLimitPerMinute))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max retries %d must not be negative", c.MaxRetries))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsLocal reports whether the service runs against local infrastructure.
func (c *Config) IsLocal() bool {
	return c.Environment == Local
}

// IsProduction reports whether this is the production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// ShouldAutoCreateTable reports whether the table is ensured at start.
func (c *Config) ShouldAutoCreateTable() bool {
	return c.AutoCreateTable != nil && *c.AutoCreateTable
}
