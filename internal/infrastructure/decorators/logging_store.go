// Package decorators provides cross-cutting wrappers for the item store.
package decorators

import (
	"context"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig controls what information is logged
type LoggingConfig struct {
	LogLevel      zapcore.Level // Level for successful calls
	SlowThreshold time.Duration // Calls slower than this are logged at WARN
}

// DefaultLoggingConfig returns the defaults used by the API.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		LogLevel:      zapcore.DebugLevel,
		SlowThreshold: time.Second,
	}
}

// LoggingStore logs every call to the wrapped store with its duration.
// Misses are logged like successes; other errors at ERROR.
type LoggingStore struct {
	inner  repository.ItemStore
	logger *zap.Logger
	config LoggingConfig
}

var _ repository.ItemStore = (*LoggingStore)(nil)

// NewLoggingStore creates a new logging decorator for an ItemStore.
func NewLoggingStore(inner repository.ItemStore, logger *zap.Logger, config LoggingConfig) *LoggingStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingStore{
		inner:  inner,
		logger: logger.Named("item_store"),
		config: config,
	}
}

func (s *LoggingStore) log(operation string, start time.Time, err error, fields ...zap.Field) {
	elapsed := time.Since(start)
	fields = append(fields,
		zap.String("operation", operation),
		zap.Duration("duration", elapsed),
	)

	switch {
	case err != nil && !repository.IsNotFound(err):
		s.logger.Error("Store operation failed", append(fields, zap.Error(err))...)
	case s.config.SlowThreshold > 0 && elapsed > s.config.SlowThreshold:
		s.logger.Warn("Slow store operation", fields...)
	default:
		if ce := s.logger.Check(s.config.LogLevel, "Store operation"); ce != nil {
			ce.Write(append(fields, zap.Bool("not_found", err != nil))...)
		}
	}
}

func (s *LoggingStore) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	start := time.Now()
	record, err := s.inner.GetByID(ctx, id)
	s.log("GetByID", start, err, zap.String("item_id", id))
	return record, err
}

func (s *LoggingStore) Put(ctx context.Context, record domain.Record) error {
	start := time.Now()
	err := s.inner.Put(ctx, record)
	s.log("Put", start, err, zap.String("item_id", record.ID))
	return err
}

func (s *LoggingStore) UpdateFields(ctx context.Context, id string, fields repository.Fields) error {
	start := time.Now()
	err := s.inner.UpdateFields(ctx, id, fields)
	s.log("UpdateFields", start, err, zap.String("item_id", id), zap.Int("fields", len(fields)))
	return err
}

func (s *LoggingStore) DeleteByID(ctx context.Context, id string) error {
	start := time.Now()
	err := s.inner.DeleteByID(ctx, id)
	s.log("DeleteByID", start, err, zap.String("item_id", id))
	return err
}

func (s *LoggingStore) QueryByIndex(ctx context.Context, indexName, key, value string) ([]domain.Record, error) {
	start := time.Now()
	records, err := s.inner.QueryByIndex(ctx, indexName, key, value)
	s.log("QueryByIndex", start, err, zap.String("index", indexName), zap.Int("results", len(records)))
	return records, err
}

func (s *LoggingStore) ScanPage(ctx context.Context, filter repository.ScanFilter, token string) (*repository.ScanPage, error) {
	start := time.Now()
	page, err := s.inner.ScanPage(ctx, filter, token)
	fields := []zap.Field{
		zap.String("category", filter.Category),
		zap.String("name_contains", filter.NameContains),
		zap.Bool("continuation", token != ""),
	}
	if page != nil {
		fields = append(fields, zap.Int("results", len(page.Records)), zap.Bool("has_more", page.NextToken != ""))
	}
	s.log("ScanPage", start, err, fields...)
	return page, err
}
