// Package inventory provides business logic for tracking items and their
// prices: upsert by name, price updates, deletion, and the two listing
// queries.
package inventory

import (
	"context"

	"inventory-api/internal/domain"
	"inventory-api/internal/domain/datetime"
	"inventory-api/internal/domain/price"
	"inventory-api/internal/repository"
	appErrors "inventory-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the interface for inventory business operations.
type Service interface {
	// Upsert creates an item or, when one with the same name exists,
	// updates its price. It returns the item id.
	Upsert(ctx context.Context, in UpsertInput) (string, error)

	// ScanFiltered lists items by category and update time with a price total.
	ScanFiltered(ctx context.Context, in ScanInput) (*ScanResult, error)

	// QueryPaginated lists items filtered by name, category and price, sorted
	// and cut to one page.
	QueryPaginated(ctx context.Context, in QueryInput) (*QueryResult, error)

	// UpdatePrice sets the price of an existing item.
	UpdatePrice(ctx context.Context, id string, p decimal.Decimal) (*PriceUpdateResult, error)

	// Delete removes an existing item.
	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

// SkipRecorder counts records left out of a listing because they were malformed.
type SkipRecorder interface {
	RecordSkipped(reason string)
}

// Config holds the optional collaborators of the service.
type Config struct {
	// IndexName is the secondary index on item_name.
	IndexName string
	// Clock supplies last_updated_dt; defaults to the wall clock.
	Clock datetime.Clock
	// NewID generates item ids; defaults to random UUIDs.
	NewID func() string
	// Skips receives a call per skipped record.
	Skips SkipRecorder
}

// service implements the Service interface with concrete business logic.
type service struct {
	store  repository.ItemStore
	logger *zap.Logger
	config Config
}

// NewService creates a new inventory service backed by store.
func NewService(store repository.ItemStore, logger *zap.Logger, config Config) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.IndexName == "" {
		config.IndexName = repository.DefaultIndexName
	}
	if config.Clock == nil {
		config.Clock = datetime.SystemClock
	}
	if config.NewID == nil {
		config.NewID = func() string { return uuid.New().String() }
	}
	return &service{store: store, logger: logger, config: config}
}

// UpdatePrice sets the price of an existing item and refreshes its timestamp.
func (s *service) UpdatePrice(ctx context.Context, id string, p decimal.Decimal) (*PriceUpdateResult, error) {
	if err := validatePrice(p); err != nil {
		return nil, err
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, s.lookupError(err, id, "failed to load item")
	}

	encoded := price.Encode(p)
	fields := repository.Fields{
		domain.AttrPrice:       encoded,
		domain.AttrLastUpdated: datetime.Format(s.config.Clock.Now()),
	}
	if err := s.store.UpdateFields(ctx, id, fields); err != nil {
		return nil, s.lookupError(err, id, "failed to update item price")
	}

	s.logger.Info("Updated item price",
		zap.String("item_id", id),
		zap.String("price", encoded),
	)
	return &PriceUpdateResult{Status: StatusSuccess, UpdatedPrice: encoded}, nil
}

// Delete removes an existing item.
func (s *service) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return nil, s.lookupError(err, id, "failed to load item")
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return nil, s.lookupError(err, id, "failed to delete item")
	}

	s.logger.Info("Deleted item", zap.String("item_id", id))
	return &DeleteResult{Status: StatusSuccess, DeletedID: id}, nil
}

// lookupError maps a store error for a single item to NotFound or StorageFailure.
func (s *service) lookupError(err error, id, message string) error {
	if repository.IsNotFound(err) {
		s.logger.Warn("Item not found", zap.String("item_id", id))
		return appErrors.NewNotFound("item not found")
	}
	return s.storageFailure(err, message, zap.String("item_id", id))
}

// storageFailure logs err and returns it as a StorageFailure.
func (s *service) storageFailure(err error, message string, fields ...zap.Field) error {
	s.logger.Error(message, append(fields, zap.Error(err))...)
	if appErrors.IsStorage(err) {
		return appErrors.Wrap(err, message)
	}
	return appErrors.NewStorage(message, err)
}

// drainScan follows continuation tokens until the store reports no more pages.
func (s *service) drainScan(ctx context.Context, filter repository.ScanFilter) ([]domain.Record, error) {
	var records []domain.Record
	token := ""
	pages := 0
	for {
		page, err := s.store.ScanPage(ctx, filter, token)
		if err != nil {
			return nil, s.storageFailure(err, "failed to scan items", zap.Int("pages_read", pages))
		}
		pages++
		records = append(records, page.Records...)

		if page.NextToken == "" {
			break
		}
		if page.NextToken == token {
			return nil, s.storageFailure(appErrors.NewStorage("scan did not advance", nil),
				"failed to scan items", zap.Int("pages_read", pages))
		}
		token = page.NextToken
	}

	s.logger.Debug("Scan drained", zap.Int("pages", pages), zap.Int("records", len(records)))
	return records, nil
}

// validateBound rejects a price filter bound that cannot be compared cheaply.
func validateBound(param string, bound *decimal.Decimal) error {
	if bound != nil && price.CheckRange(*bound) != nil {
		return appErrors.NewValidationf("%s is out of range", param)
	}
	return nil
}

// decode turns a record into an Item, or reports why it must be skipped.
func decode(record domain.Record) (domain.Item, string, bool) {
	if missing := record.Missing(); len(missing) > 0 {
		return domain.Item{}, "missing_field", false
	}
	p, err := price.Decode(record.Price)
	if err != nil {
		return domain.Item{}, "bad_price", false
	}
	return domain.Item{
		ID:       record.ID,
		Name:     record.ItemName,
		Category: record.Category,
		Price:    p,
	}, "", true
}

// skip logs and counts a record left out of a listing.
func (s *service) skip(record domain.Record, reason string) {
	s.logger.Warn("Skipping malformed record",
		zap.String("item_id", record.ID),
		zap.String("reason", reason),
		zap.Strings("missing", record.Missing()),
	)
	if s.config.Skips != nil {
		s.config.Skips.RecordSkipped(reason)
	}
}

func validatePrice(p decimal.Decimal) error {
	if err := price.CheckRange(p); err != nil {
		return appErrors.NewValidation("price is out of range")
	}
	if !price.Canonical(p).IsPositive() {
		return appErrors.NewValidation("price must be greater than 0")
	}
	return nil
}
