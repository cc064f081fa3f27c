package otel

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	globalTracer   trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	mu             sync.RWMutex
	initialized    bool
)

// Initialize initializes OpenTelemetry with the given configuration
func Initialize(ctx context.Context, config Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid OpenTelemetry config: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return fmt.Errorf("OpenTelemetry already initialized")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(config)
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracerProvider = tp
	globalTracer = tp.Tracer(config.ServiceName)
	initialized = true
	return nil
}

// Tracer returns the global tracer, or a noop tracer before Initialize
func Tracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()
	if globalTracer == nil {
		return noop.NewTracerProvider().Tracer("noop")
	}
	return globalTracer
}

// StartSpan starts a new span on the global tracer
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// IsInitialized returns whether OpenTelemetry has been initialized
func IsInitialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return initialized
}

// Shutdown flushes and shuts down the tracer provider.
// After Shutdown, Initialize may be called again.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if !initialized {
		return nil
	}

	err := tracerProvider.Shutdown(ctx)
	tracerProvider = nil
	globalTracer = nil
	initialized = false
	return err
}
