package inventory

import (
	"context"
	"fmt"
	"testing"

	"inventory-api/internal/domain"
	appErrors "inventory-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []domain.ItemResponse) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func seedPriced(f *fixture) {
	f.store.Seed(
		record("p1", "pen", "stationery", "10.99", "2025-01-01"),
		record("p2", "pencil", "stationery", "12.99", "2025-01-01"),
		record("p3", "paper", "stationery", "11.99", "2025-01-01"),
	)
}

func TestQueryPaginated(t *testing.T) {
	ctx := context.Background()

	t.Run("PriceDescending", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, SortField: domain.SortPrice, SortOrder: domain.Descending})
		require.NoError(t, err)

		var prices []float64
		for _, item := range res.Items {
			prices = append(prices, item.Price)
		}
		assert.Equal(t, []float64{12.99, 11.99, 10.99}, prices)
	})

	t.Run("PriceSortIsNumeric", func(t *testing.T) {
		f := newFixture(t)
		f.store.Seed(
			record("a", "a", "c", "9.50", "2025-01-01"),
			record("b", "b", "c", "100.00", "2025-01-01"),
			record("c", "c", "c", "10.00", "2025-01-01"),
		)

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, SortField: domain.SortPrice})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c", "b"}, ids(res.Items))
	})

	t.Run("DefaultSortIsNameAscending", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"p3", "p1", "p2"}, ids(res.Items))
	})

	t.Run("SortIsStableInBothDirections", func(t *testing.T) {
		f := newFixture(t)
		f.store.Seed(
			record("first", "x", "same", "1.00", "2025-01-01"),
			record("second", "y", "same", "1.00", "2025-01-01"),
			record("third", "z", "other", "1.00", "2025-01-01"),
		)

		asc, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, SortField: domain.SortCategory})
		require.NoError(t, err)
		assert.Equal(t, []string{"third", "first", "second"}, ids(asc.Items))

		desc, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, SortField: domain.SortCategory, SortOrder: domain.Descending})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, ids(desc.Items))
	})

	t.Run("PagesCoverAllItems", func(t *testing.T) {
		f := newFixture(t)
		const n, limit = 23, 5
		for i := 0; i < n; i++ {
			f.store.Seed(record(fmt.Sprintf("id-%02d", i), fmt.Sprintf("item-%02d", i), "bulk", "1.00", "2025-01-01"))
		}

		seen := map[string]bool{}
		pages := 0
		for page := 1; ; page++ {
			res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: page, Limit: limit})
			require.NoError(t, err)
			assert.Equal(t, n, res.Count)
			assert.Equal(t, page, res.Page)
			assert.Equal(t, limit, res.Limit)
			if len(res.Items) == 0 {
				break
			}
			pages++
			for _, item := range res.Items {
				seen[item.ID] = true
			}
		}
		assert.Equal(t, (n+limit-1)/limit, pages)
		assert.Len(t, seen, n)
	})

	t.Run("PageBeyondEndIsEmpty", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 5, Limit: 2})
		require.NoError(t, err)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
		assert.Equal(t, 3, res.Count)
	})

	t.Run("NonPositivePageOrLimitIsEmpty", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)

		for _, in := range []QueryInput{{Page: 0, Limit: 10}, {Page: -1, Limit: 10}, {Page: 1, Limit: 0}, {Page: 1, Limit: -3}} {
			res, err := f.svc.QueryPaginated(ctx, in)
			require.NoError(t, err)
			assert.Empty(t, res.Items)
			assert.Equal(t, 3, res.Count)
		}
	})

	t.Run("PriceRangeRequiresBothBounds", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, PriceMin: decPtr("11.99"), PriceMax: decPtr("12.99"), SortField: domain.SortPrice})
		require.NoError(t, err)
		assert.Equal(t, []string{"p3", "p2"}, ids(res.Items))
		assert.Equal(t, 2, res.Count)

		res, err = f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, PriceMin: decPtr("12")})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)

		res, err = f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, PriceMax: decPtr("11")})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
	})

	t.Run("OutOfRangeBoundIsValidationError", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)

		for _, in := range []QueryInput{
			{Page: 1, Limit: 10, PriceMin: decPtr("1e-200000000"), PriceMax: decPtr("12")},
			{Page: 1, Limit: 10, PriceMin: decPtr("1"), PriceMax: decPtr("1e200000000")},
			{Page: 1, Limit: 10, PriceMax: decPtr("1e200000000")},
		} {
			_, err := f.svc.QueryPaginated(ctx, in)
			require.Error(t, err)
			assert.True(t, appErrors.IsValidation(err))
		}
		assert.Equal(t, 0, f.store.Calls("ScanPage"))
	})

	t.Run("StoredHugeExponentIsSkipped", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)
		f.store.Seed(record("huge", "pen", "stationery", "1e200000000", "2025-01-01"))

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, SortField: domain.SortPrice})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
		assert.Equal(t, []string{"bad_price"}, f.skips.reasons)
	})

	t.Run("NameAndCategoryCombine", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)
		f.store.Seed(record("x", "pen holder", "office", "3.00", "2025-01-01"))

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, Name: "PEN", Category: "Stationery"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, ids(res.Items))

		res, err = f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10, Name: "pen"})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
	})

	t.Run("MalformedRecordsAreSkipped", func(t *testing.T) {
		f := newFixture(t)
		seedPriced(f)
		f.store.Seed(record("broken", "pen", "", "1.00", "2025-01-01"))

		res, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Count)
		assert.Equal(t, []string{"missing_field"}, f.skips.reasons)
	})

	t.Run("ScanFailureIsStorageFailure", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetError("ScanPage", fmt.Errorf("boom"))

		_, err := f.svc.QueryPaginated(ctx, QueryInput{Page: 1, Limit: 10})
		assert.True(t, appErrors.IsStorage(err))
	})
}
