// Package metrics exposes rule engine activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gambit"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Collector owns the engine metrics and the registry they live in. It
// implements rules.Recorder.
//
// Metrics:
//   - gambit_rules_compiles_total: rule set compilations by result
//   - gambit_engine_swaps_total: hot swaps by result
//   - gambit_engine_decisions_total: turns by outcome (decided, none, error)
//   - gambit_engine_decide_duration_seconds: time to reach a decision
type Collector struct {
	registry *prometheus.Registry

	compilesTotal  *prometheus.CounterVec
	swapsTotal     *prometheus.CounterVec
	decisionsTotal *prometheus.CounterVec
	decideDuration prometheus.Histogram
}

// NewCollector creates the collector and registers its metrics with
// registry. If registry is nil a fresh one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		compilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "rules",
				Name:      "compiles_total",
				Help:      "Total number of rule set compilations",
			},
			[]string{"result"},
		),
		swapsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "swaps_total",
				Help:      "Total number of rule set hot swaps",
			},
			[]string{"result"},
		),
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "decisions_total",
				Help:      "Total number of turns evaluated, by outcome",
			},
			[]string{"outcome"},
		),
		decideDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "decide_duration_seconds",
				Help:      "Time spent evaluating rows for one turn",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~262ms
			},
		),
	}

	registry.MustRegister(c.compilesTotal, c.swapsTotal, c.decisionsTotal, c.decideDuration)
	return c
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// Compiled records one rule set compilation.
func (c *Collector) Compiled(err error) {
	c.compilesTotal.WithLabelValues(result(err)).Inc()
}

// Swapped records one hot swap attempt.
func (c *Collector) Swapped(err error) {
	c.swapsTotal.WithLabelValues(result(err)).Inc()
}

// Decided records one turn's outcome and how long it took.
func (c *Collector) Decided(outcome string, elapsed time.Duration) {
	c.decisionsTotal.WithLabelValues(outcome).Inc()
	c.decideDuration.Observe(elapsed.Seconds())
}

// Registry returns the registry the collector registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
