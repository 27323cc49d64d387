package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// maxExportFailures stops exporting after this many consecutive failures
// so an unreachable collector cannot slow every command down.
const maxExportFailures = 3

// Provider owns the tracer provider of one CLI invocation.
type Provider struct {
	tp  trace.TracerProvider
	sdk *sdktrace.TracerProvider
}

// Option configures a Provider.
type Option func(*[]sdktrace.TracerProviderOption)

// WithExporter adds a synchronous exporter; tests use it with an
// in-memory exporter.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(opts *[]sdktrace.TracerProviderOption) {
		*opts = append(*opts, sdktrace.WithSyncer(exp))
	}
}

// NewProvider creates the provider described by cfg. A disabled config
// yields a noop provider and never fails.
func NewProvider(ctx context.Context, cfg Config, options ...Option) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tp: noop.NewTracerProvider()}, nil
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ClampSampleRate(cfg.SampleRate)))),
	}

	if cfg.Endpoint != "" {
		exporterOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		}
		if cfg.Insecure {
			exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(&breakerExporter{exporter: exporter},
			sdktrace.WithBatchTimeout(time.Second),
		))
	}
	for _, o := range options {
		o(&opts)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	return &Provider{tp: tp, sdk: tp}, nil
}

// Tracer returns a named tracer.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return p.tp.Tracer(name)
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p != nil && p.sdk != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// breakerExporter drops batches once the collector has failed
// maxExportFailures times in a row.
type breakerExporter struct {
	exporter sdktrace.SpanExporter

	mu       sync.Mutex
	failures int
}

func (b *breakerExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	b.mu.Lock()
	open := b.failures >= maxExportFailures
	b.mu.Unlock()
	if open {
		return nil
	}

	err := b.exporter.ExportSpans(ctx, spans)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		return err
	}
	b.failures = 0
	return nil
}

func (b *breakerExporter) Shutdown(ctx context.Context) error {
	return b.exporter.Shutdown(ctx)
}
