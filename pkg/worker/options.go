package worker

import (
	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/observability/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Pool.
type Option func(*options)

type options struct {
	logger  core.Logger
	name    string
	metrics *prometheus.PoolMetrics
	tracer  trace.Tracer
}

func defaultOptions() options {
	return options{
		logger: core.DefaultLogger(),
		name:   "pool",
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger core.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName names the pool in logs, spans and stats.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithMetrics records pool activity on m.
func WithMetrics(m *prometheus.PoolMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer used for job spans.
// By default the global tracer is looked up for every job.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}
