package inventory

import (
	"context"
	"sort"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/domain/datetime"
	"inventory-api/internal/domain/price"
	"inventory-api/internal/repository"
	appErrors "inventory-api/pkg/errors"

	"go.uber.org/zap"
)

// Upsert looks the name up in the secondary index and either updates the
// matching item's price or creates a new item. It makes exactly one index
// query and one write. Two concurrent upserts of a new name can both miss the
// index and create two items; nothing here prevents that.
func (s *service) Upsert(ctx context.Context, in UpsertInput) (string, error) {
	name := domain.Normalize(in.Name)
	category := domain.Normalize(in.Category)

	if name == "" {
		return "", appErrors.NewValidation("name cannot be empty")
	}
	if category == "" {
		return "", appErrors.NewValidation("category cannot be empty")
	}
	if err := validatePrice(in.Price); err != nil {
		return "", err
	}

	matches, err := s.store.QueryByIndex(ctx, s.config.IndexName, domain.AttrItemName, name)
	if err != nil {
		return "", s.storageFailure(err, "failed to look up item by name", zap.String("name", name))
	}

	now := datetime.Format(s.config.Clock.Now())
	encoded := price.Encode(in.Price)

	if existing, ok := canonical(matches); ok {
		if len(matches) > 1 {
			s.logger.Warn("Multiple items share a name",
				zap.String("name", name),
				zap.Int("matches", len(matches)),
				zap.String("item_id", existing.ID),
			)
		}

		fields := repository.Fields{
			domain.AttrPrice:       encoded,
			domain.AttrLastUpdated: now,
		}
		if err := s.store.UpdateFields(ctx, existing.ID, fields); err != nil {
			return "", s.storageFailure(err, "failed to update item", zap.String("item_id", existing.ID))
		}

		s.logger.Info("Updated item",
			zap.String("item_id", existing.ID),
			zap.String("price", encoded),
		)
		return existing.ID, nil
	}

	record := domain.Record{
		ID:          s.config.NewID(),
		ItemName:    name,
		Category:    category,
		Price:       encoded,
		LastUpdated: now,
	}
	if err := s.store.Put(ctx, record); err != nil {
		return "", s.storageFailure(err, "failed to create item", zap.String("item_id", record.ID))
	}

	s.logger.Info("Created new item",
		zap.String("item_id", record.ID),
		zap.String("price", encoded),
	)
	return record.ID, nil
}

// canonical picks the item an upsert applies to when the index returns more
// than one match: the earliest last_updated_dt wins, records whose timestamp
// does not parse come after those that do, and ties go to the smaller id.
func canonical(matches []domain.Record) (domain.Record, bool) {
	type candidate struct {
		record domain.Record
		at     time.Time
		parsed bool
	}

	candidates := make([]candidate, 0, len(matches))
	for _, m := range matches {
		if m.ID == "" {
			continue
		}
		at, err := datetime.Parse(m.LastUpdated)
		candidates = append(candidates, candidate{record: m, at: at, parsed: err == nil})
	}
	if len(candidates) == 0 {
		return domain.Record{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if a.parsed && !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		return a.record.ID < b.record.ID
	})
	return candidates[0].record, true
}
