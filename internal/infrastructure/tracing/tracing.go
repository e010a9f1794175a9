package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

// TracerProvider wraps OpenTelemetry tracer provider
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes distributed tracing
func InitTracing(ctx context.Context, serviceName, environment, endpoint string) (*TracerProvider, error) {
	exporter, err := otlptrace.New(
		ctx,
		otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return NewTracerProvider(serviceName, sdktrace.WithBatcher(exporter), sdktrace.WithResource(res)), nil
}

// NewTracerProvider builds a provider from raw SDK options and installs it
// globally along with the W3C trace-context propagator.
func NewTracerProvider(serviceName string, opts ...sdktrace.TracerProviderOption) *TracerProvider {
	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.AlwaysSample())}, opts...)
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: tp,
		tracer:   tp.Tracer(serviceName),
	}
}

// Tracer returns the service tracer.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// TraceStore wraps a store with one span per call.
func TraceStore(store repository.ItemStore, tracer trace.Tracer) repository.ItemStore {
	return &tracedItemStore{
		inner:  store,
		tracer: tracer,
	}
}

type tracedItemStore struct {
	inner  repository.ItemStore
	tracer trace.Tracer
}

func finish(span trace.Span, err error) {
	if err != nil && !repository.IsNotFound(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *tracedItemStore) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	ctx, span := s.tracer.Start(ctx, "repository.GetByID",
		trace.WithAttributes(attribute.String("item.id", id)),
	)

	record, err := s.inner.GetByID(ctx, id)
	finish(span, err)
	return record, err
}

func (s *tracedItemStore) Put(ctx context.Context, record domain.Record) error {
	ctx, span := s.tracer.Start(ctx, "repository.Put",
		trace.WithAttributes(
			attribute.String("item.id", record.ID),
			attribute.String("item.category", record.Category),
		),
	)

	err := s.inner.Put(ctx, record)
	finish(span, err)
	return err
}

func (s *tracedItemStore) UpdateFields(ctx context.Context, id string, fields repository.Fields) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	ctx, span := s.tracer.Start(ctx, "repository.UpdateFields",
		trace.WithAttributes(
			attribute.String("item.id", id),
			attribute.StringSlice("item.fields", names),
		),
	)

	err := s.inner.UpdateFields(ctx, id, fields)
	finish(span, err)
	return err
}

func (s *tracedItemStore) DeleteByID(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "repository.DeleteByID",
		trace.WithAttributes(attribute.String("item.id", id)),
	)

	err := s.inner.DeleteByID(ctx, id)
	finish(span, err)
	return err
}

func (s *tracedItemStore) QueryByIndex(ctx context.Context, indexName, key, value string) ([]domain.Record, error) {
	ctx, span := s.tracer.Start(ctx, "repository.QueryByIndex",
		trace.WithAttributes(
			attribute.String("db.index", indexName),
			attribute.String("db.key", key),
		),
	)

	records, err := s.inner.QueryByIndex(ctx, indexName, key, value)
	span.SetAttributes(attribute.Int("result.count", len(records)))
	finish(span, err)
	return records, err
}

func (s *tracedItemStore) ScanPage(ctx context.Context, filter repository.ScanFilter, token string) (*repository.ScanPage, error) {
	ctx, span := s.tracer.Start(ctx, "repository.ScanPage",
		trace.WithAttributes(
			attribute.String("filter.category", filter.Category),
			attribute.String("filter.name_contains", filter.NameContains),
			attribute.Bool("continuation", token != ""),
		),
	)

	page, err := s.inner.ScanPage(ctx, filter, token)
	if page != nil {
		span.SetAttributes(
			attribute.Int("result.count", len(page.Records)),
			attribute.Bool("result.has_more", page.NextToken != ""),
		)
	}
	finish(span, err)
	return page, err
}
