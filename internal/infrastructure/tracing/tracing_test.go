package tracing

import (
	"context"
	"errors"
	"testing"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
	"inventory-api/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, *TracerProvider) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := NewTracerProvider("inventory-test", sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder, tp
}

func TestTraceStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Should record one span per call", func(t *testing.T) {
		recorder, tp := newRecorder(t)
		store := TraceStore(mocks.NewMockItemStore(), tp.Tracer())

		require.NoError(t, store.Put(ctx, domain.Record{ID: "a", ItemName: "widget", Category: "tools", Price: "1.00", LastUpdated: "2025-01-01"}))
		_, err := store.ScanPage(ctx, repository.ScanFilter{Category: "tools"}, "")
		require.NoError(t, err)

		spans := recorder.Ended()
		require.Len(t, spans, 2)
		assert.Equal(t, "repository.Put", spans[0].Name())
		assert.Equal(t, "repository.ScanPage", spans[1].Name())
	})

	t.Run("Should mark failures but not misses", func(t *testing.T) {
		recorder, tp := newRecorder(t)
		inner := mocks.NewMockItemStore()
		store := TraceStore(inner, tp.Tracer())

		_, err := store.GetByID(ctx, "missing")
		require.Error(t, err)

		inner.SetError("DeleteByID", errors.New("throttled"))
		require.Error(t, store.DeleteByID(ctx, "x"))

		spans := recorder.Ended()
		require.Len(t, spans, 2)
		assert.Equal(t, codes.Unset, spans[0].Status().Code)
		assert.Equal(t, codes.Error, spans[1].Status().Code)
		assert.Equal(t, "throttled", spans[1].Status().Description)
	})
}
