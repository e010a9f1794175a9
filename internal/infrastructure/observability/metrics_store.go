package observability

import (
	"context"
	"time"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

// MetricsStore counts and times every call to the wrapped store.
type MetricsStore struct {
	inner     repository.ItemStore
	collector *Collector
}

var _ repository.ItemStore = (*MetricsStore)(nil)

// NewMetricsStore wraps inner with store metrics.
func NewMetricsStore(inner repository.ItemStore, collector *Collector) *MetricsStore {
	return &MetricsStore{inner: inner, collector: collector}
}

func (s *MetricsStore) observe(operation string, start time.Time, err error) {
	status := "success"
	switch {
	case repository.IsNotFound(err):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	s.collector.StoreOperations.WithLabelValues(operation, status).Inc()
	s.collector.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (s *MetricsStore) GetByID(ctx context.Context, id string) (record *domain.Record, err error) {
	defer func(start time.Time) { s.observe("GetByID", start, err) }(time.Now())
	return s.inner.GetByID(ctx, id)
}

func (s *MetricsStore) Put(ctx context.Context, record domain.Record) (err error) {
	defer func(start time.Time) { s.observe("Put", start, err) }(time.Now())
	return s.inner.Put(ctx, record)
}

func (s *MetricsStore) UpdateFields(ctx context.Context, id string, fields repository.Fields) (err error) {
	defer func(start time.Time) { s.observe("UpdateFields", start, err) }(time.Now())
	return s.inner.UpdateFields(ctx, id, fields)
}

func (s *MetricsStore) DeleteByID(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("DeleteByID", start, err) }(time.Now())
	return s.inner.DeleteByID(ctx, id)
}

func (s *MetricsStore) QueryByIndex(ctx context.Context, indexName, key, value string) (records []domain.Record, err error) {
	defer func(start time.Time) { s.observe("QueryByIndex", start, err) }(time.Now())
	return s.inner.QueryByIndex(ctx, indexName, key, value)
}

func (s *MetricsStore) ScanPage(ctx context.Context, filter repository.ScanFilter, token string) (page *repository.ScanPage, err error) {
	defer func(start time.Time) { s.observe("ScanPage", start, err) }(time.Now())
	return s.inner.ScanPage(ctx, filter, token)
}
