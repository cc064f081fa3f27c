package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	namespace = "webpool"
	subsystem = "pool"
)

// DefaultRegistry is the registry served by Handler and FastHTTPHandler.
// It carries the Go runtime and process collectors.
var DefaultRegistry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// PoolMetrics holds the collectors updated by a worker pool.
// A nil *PoolMetrics is valid and records nothing.
type PoolMetrics struct {
	JobsSubmitted  prometheus.Counter
	JobsCompleted  prometheus.Counter
	JobsPanicked   prometheus.Counter
	SubmitFailures prometheus.Counter
	WorkersLive    prometheus.Gauge
	JobDuration    prometheus.Histogram
}

// NewPoolMetrics creates the pool collectors and registers them on reg.
// Registering twice on the same registry panics.
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	m := &PoolMetrics{
		JobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs submitted to the pool",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that ran to completion",
		}),
		JobsPanicked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_panicked_total",
			Help:      "Total number of jobs that panicked",
		}),
		SubmitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submit_failures_total",
			Help:      "Total number of jobs that could not be enqueued",
		}),
		WorkersLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workers_live",
			Help:      "Current number of live worker goroutines",
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Histogram of job execution time",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.JobsSubmitted,
			m.JobsCompleted,
			m.JobsPanicked,
			m.SubmitFailures,
			m.WorkersLive,
			m.JobDuration,
		)
	}
	return m
}

// RegisterQueueDepth exposes fn as the queue depth gauge on reg.
func RegisterQueueDepth(reg prometheus.Registerer, fn func() float64) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "queue_depth",
		Help:      "Number of messages waiting in the job queue",
	}, fn))
}

func (m *PoolMetrics) Submitted() {
	if m != nil {
		m.JobsSubmitted.Inc()
	}
}

func (m *PoolMetrics) SubmitFailed() {
	if m != nil {
		m.SubmitFailures.Inc()
	}
}

// JobDone records one finished job and its run time.
func (m *PoolMetrics) JobDone(elapsed time.Duration, panicked bool) {
	if m == nil {
		return
	}
	m.JobDuration.Observe(elapsed.Seconds())
	if panicked {
		m.JobsPanicked.Inc()
		return
	}
	m.JobsCompleted.Inc()
}

func (m *PoolMetrics) WorkerStarted() {
	if m != nil {
		m.WorkersLive.Inc()
	}
}

func (m *PoolMetrics) WorkerExited() {
	if m != nil {
		m.WorkersLive.Dec()
	}
}
