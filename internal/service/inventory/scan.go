package inventory

import (
	"context"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/domain/datetime"
	"inventory-api/internal/domain/price"
	"inventory-api/internal/repository"
	appErrors "inventory-api/pkg/errors"

	"go.uber.org/zap"
)

// ScanFiltered reads every item in the category (or all items), keeps those
// updated within [DateFrom, DateTo], and totals their prices. Records that are
// malformed are logged and left out rather than failing the request.
func (s *service) ScanFiltered(ctx context.Context, in ScanInput) (*ScanResult, error) {
	from, err := parseBound("dt_from", in.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseBound("dt_to", in.DateTo)
	if err != nil {
		return nil, err
	}

	filter := repository.ScanFilter{Category: domain.Normalize(in.Category)}

	s.logger.Info("Scanning items",
		zap.String("dt_from", in.DateFrom),
		zap.String("dt_to", in.DateTo),
		zap.String("category", filter.Category),
	)

	records, err := s.drainScan(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Items: make([]domain.ItemResponse, 0, len(records))}
	var total price.Total
	for _, record := range records {
		item, reason, ok := decode(record)
		if !ok {
			s.skip(record, reason)
			continue
		}

		at, err := datetime.Parse(record.LastUpdated)
		if err != nil {
			s.skip(record, "bad_timestamp")
			continue
		}
		if from != nil && at.Before(*from) {
			continue
		}
		if to != nil && at.After(*to) {
			continue
		}

		result.Items = append(result.Items, item.Response())
		total.Add(item.Price)
	}
	result.TotalPrice = total.String()

	s.logger.Info("Returning filtered items",
		zap.Int("items", len(result.Items)),
		zap.String("total_price", result.TotalPrice),
	)
	return result, nil
}

// parseBound parses an optional date bound. Empty means unbounded.
func parseBound(param, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := datetime.Parse(value)
	if err != nil {
		return nil, appErrors.NewValidationf("%s: invalid datetime format %q", param, value)
	}
	return &t, nil
}
