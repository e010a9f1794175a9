package repository

import "fmt"

// DefaultIndexName is the secondary index on item_name.
const DefaultIndexName = "NameIndex"

// Config represents the configuration needed for repository implementations.
type Config struct {
	TableName string // Primary table name
	IndexName string // Secondary index on item_name
	Region    string

	// Endpoint overrides the service endpoint, e.g. DynamoDB Local.
	Endpoint string

	MaxRetries int // Retries after the first attempt made by the SDK client
	TimeoutMs  int // Per-call timeout in milliseconds
	ScanLimit  int // Items evaluated per scan page; 0 leaves it to the service
}

// Validate checks if the configuration has all required fields and valid values.
func (c Config) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("TableName is required")
	}
	if c.IndexName == "" {
		return fmt.Errorf("IndexName is required")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MaxRetries cannot be negative")
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("TimeoutMs cannot be negative")
	}
	if c.ScanLimit < 0 {
		return fmt.Errorf("ScanLimit cannot be negative")
	}
	return nil
}

// WithDefaults returns a new Config with default values applied for optional fields.
func (c Config) WithDefaults() Config {
	config := c

	if config.IndexName == "" {
		config.IndexName = DefaultIndexName
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.TimeoutMs == 0 {
		config.TimeoutMs = 5000
	}

	return config
}

// MaxAttempts is the total number of tries per call: the first one plus
// MaxRetries.
func (c Config) MaxAttempts() int {
	return c.MaxRetries + 1
}

// NewConfig creates a new repository configuration with required fields.
func NewConfig(tableName, indexName string) Config {
	return Config{
		TableName: tableName,
		IndexName: indexName,
	}.WithDefaults()
}
