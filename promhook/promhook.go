// Package promhook exports [futility.Terminate] phase outcomes and process
// faults as Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	c := promhook.New(reg)
//	err := futility.New[error]().
//	    OnPhase(c.ObservePhase).
//	    ChainFaultHandler(c.FaultHandler()).
//	    Execute(run)
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/baxromumarov/futility"
)

// DefaultNamespace prefixes every metric name unless [WithNamespace] is used.
const DefaultNamespace = "futility"

type config struct {
	namespace string
	buckets   []float64
}

// Option configures a [Collector].
type Option func(*config)

// WithNamespace sets the metric name prefix.
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithBuckets sets the histogram buckets for phase durations, in seconds.
// It panics if buckets is empty.
func WithBuckets(buckets []float64) Option {
	return func(c *config) {
		if len(buckets) == 0 {
			panic("promhook: empty buckets")
		}
		c.buckets = buckets
	}
}

// Collector holds the metrics fed by a lifecycle controller.
type Collector struct {
	phases   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	faults   prometheus.Counter
}

// New creates a Collector and registers its metrics with reg.
// It panics if registration fails, like [prometheus.MustRegister].
func New(reg prometheus.Registerer, opts ...Option) *Collector {
	cfg := config{
		namespace: DefaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Collector{
		phases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "phases_total",
				Help:      "Total number of lifecycle phases run, by phase and outcome.",
			},
			[]string{"phase", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of lifecycle phase routines.",
				Buckets:   cfg.buckets,
			},
			[]string{"phase"},
		),
		faults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "faults_total",
				Help:      "Total number of faults reported to the fault handlers.",
			},
		),
	}
	reg.MustRegister(c.phases, c.duration, c.faults)
	return c
}

// ObservePhase records a finished phase. Pass it to [futility.Terminate.OnPhase].
func (c *Collector) ObservePhase(e futility.PhaseEvent) {
	phase := e.Phase.String()
	c.phases.WithLabelValues(phase, e.Outcome()).Inc()
	c.duration.WithLabelValues(phase).Observe(e.Duration.Seconds())
}

// FaultHandler returns a handler counting faults. Register it with
// [futility.ChainFaultHandler] so the previous handlers keep running.
func (c *Collector) FaultHandler() futility.FaultHandler {
	return func(*futility.PanicError) {
		c.faults.Inc()
	}
}
