package inventory

import (
	"context"
	"sort"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"

	"go.uber.org/zap"
)

// QueryPaginated reads every item matching the name and category filters,
// applies the price range, sorts, and returns one page. Count is the number
// of matches before paging. A page past the end is empty, not an error.
func (s *service) QueryPaginated(ctx context.Context, in QueryInput) (*QueryResult, error) {
	if err := validateBound("price_min", in.PriceMin); err != nil {
		return nil, err
	}
	if err := validateBound("price_max", in.PriceMax); err != nil {
		return nil, err
	}

	filter := repository.ScanFilter{
		NameContains: domain.Normalize(in.Name),
		Category:     domain.Normalize(in.Category),
	}

	s.logger.Info("Querying items",
		zap.String("name", filter.NameContains),
		zap.String("category", filter.Category),
		zap.Stringer("sort_field", in.SortField),
		zap.Stringer("sort_order", in.SortOrder),
		zap.Int("page", in.Page),
		zap.Int("limit", in.Limit),
	)

	records, err := s.drainScan(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(records))
	for _, record := range records {
		item, reason, ok := decode(record)
		if !ok {
			s.skip(record, reason)
			continue
		}
		// Only a closed range filters; a single bound is ignored.
		if in.PriceMin != nil && in.PriceMax != nil {
			if item.Price.LessThan(*in.PriceMin) || item.Price.GreaterThan(*in.PriceMax) {
				continue
			}
		}
		items = append(items, item)
	}

	sortItems(items, in.SortField, in.SortOrder)

	window := pageWindow(items, in.Page, in.Limit)
	result := &QueryResult{
		Items: make([]domain.ItemResponse, 0, len(window)),
		Count: len(items),
		Page:  in.Page,
		Limit: in.Limit,
	}
	for _, item := range window {
		result.Items = append(result.Items, item.Response())
	}

	s.logger.Info("Returning items",
		zap.Int("items", len(result.Items)),
		zap.Int("count", result.Count),
		zap.Int("pages", pageCount(result.Count, in.Limit)),
	)
	return result, nil
}

// sortItems orders items in place. Equal keys keep their scan order in both
// directions.
func sortItems(items []domain.Item, field domain.SortField, order domain.SortOrder) {
	less := func(i, j int) bool { return field.Less(items[i], items[j]) }
	if order == domain.Descending {
		less = func(i, j int) bool { return field.Less(items[j], items[i]) }
	}
	sort.SliceStable(items, less)
}

// pageWindow returns items[(page-1)*limit : (page-1)*limit+limit], or nil
// when that window lies outside the slice.
func pageWindow(items []domain.Item, page, limit int) []domain.Item {
	if limit <= 0 || page < 1 {
		return nil
	}
	if page-1 >= pageCount(len(items), limit) {
		return nil
	}

	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// pageCount is the number of pages of size limit needed to hold count items.
func pageCount(count, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (count + limit - 1) / limit
}
