package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const (
	defaultEndpoint    = "localhost:4318"
	defaultServiceName = "pos-reports"
	serviceNamespace   = "pos"
)

// Options — параметры экспорта трейсов.
type Options struct {
	ServiceName string
	Endpoint    string  // host:port OTLP/HTTP коллектора
	SampleRatio float64 // доля трейсов [0..1]
}

// normalized — дефолты для пустых полей, SampleRatio в границах [0..1].
func (o Options) normalized() Options {
	if o.Endpoint == "" {
		o.Endpoint = defaultEndpoint
	}
	if o.ServiceName == "" {
		o.ServiceName = defaultServiceName
	}
	o.SampleRatio = min(max(o.SampleRatio, 0), 1)
	return o
}

// NewProvider — провайдер с семплингом по доле и ресурсом сервиса; экспорт через exporter.
func NewProvider(opts Options, exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	opts = opts.normalized()
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceNamespace(serviceNamespace),
			attribute.String("telemetry.sdk", "opentelemetry"),
		)),
	)
}

// SetupTracing — OTLP/HTTP экспорт и глобальные провайдер и пропагаторы (TraceContext + Baggage).
// Возвращает Shutdown провайдера для graceful stop.
func SetupTracing(ctx context.Context, opts Options) (func(context.Context) error, error) {
	opts = opts.normalized()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(opts.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	provider := NewProvider(opts, exporter)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{},
		),
	)
	return provider.Shutdown, nil
}
