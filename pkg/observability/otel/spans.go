package otel

import (
	"context"
	"fmt"

	"github.com/fluxorio/webpool/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// Span names
const (
	SpanJob        = "worker.job"
	SpanConnection = "conn.handle"
)

// StartJobSpan starts the span covering one job run on a worker.
func StartJobSpan(ctx context.Context, tracer trace.Tracer, pool string, workerID int) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, SpanJob,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("pool.name", pool),
			attribute.Int("worker.id", workerID),
		),
	)
}

// EndJobSpan ends a job span; a non-nil recovered value marks it failed.
func EndJobSpan(span trace.Span, recovered interface{}) {
	if recovered != nil {
		err := fmt.Errorf("job panicked: %v", recovered)
		span.RecordError(err, trace.WithStackTrace(true))
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// StartConnSpan starts the span covering one served connection.
func StartConnSpan(ctx context.Context, peer string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{semconv.NetPeerIPKey.String(peer)}
	if requestID := core.GetRequestID(ctx); requestID != "" {
		attrs = append(attrs, attribute.String("request_id", requestID))
	}
	return StartSpan(ctx, SpanConnection,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

// EndConnSpan records the response status and ends the span.
func EndConnSpan(span trace.Span, statusCode int, err error) {
	if statusCode > 0 {
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(statusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if statusCode >= 500 {
		span.SetStatus(codes.Error, fmt.Sprintf("status %d", statusCode))
	}
	span.End()
}
