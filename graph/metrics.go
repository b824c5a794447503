package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics provides Prometheus-compatible metrics collection for
// graph editing and evaluation.
//
// Metrics exposed (all namespaced with "wiregraph_"):
//
// 1. mutations_total (counter): Structural mutations applied to a graph.
// Labels: graph_id, op (add_node, remove_node, link_created, link_broken).
// Use: edit-rate dashboards, detecting runaway programmatic mutation.
//
// 2. eval_passes_total (counter): Completed evaluation passes.
// Labels: graph_id.
//
// 3. eval_pass_duration_ms (histogram): Evaluation pass duration.
// Labels: graph_id. Buckets: [0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000].
// Use: catching graphs whose preview refresh exceeds a frame budget.
//
// 4. memo_hits_total (counter): Per-pass memo cache hits (diamond
// dependencies resolved without recomputation). Labels: graph_id.
//
// 5. cycle_guard_total (counter): Times the evaluation cycle guard fired.
// Labels: graph_id. A steadily climbing value means users are wiring
// loops the UI should probably surface.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := graph.NewPrometheusMetrics(registry)
//	g := graph.NewGraphStore(reg, graph.WithMetrics(metrics))
//
//	// Expose via HTTP for Prometheus scraping:
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
type PrometheusMetrics struct {
	mutations    *prometheus.CounterVec
	evalPasses   *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	memoHits     *prometheus.CounterVec
	cycleGuard   *prometheus.CounterVec

	enabled bool
}

// NewPrometheusMetrics creates and registers all graph metrics with the
// provided registry (prometheus.DefaultRegisterer when nil).
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	pm := &PrometheusMetrics{enabled: true}

	pm.mutations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wiregraph",
		Name:      "mutations_total",
		Help:      "Structural mutations applied to the graph",
	}, []string{"graph_id", "op"})

	pm.evalPasses = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wiregraph",
		Name:      "eval_passes_total",
		Help:      "Completed evaluation passes",
	}, []string{"graph_id"})

	pm.passDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wiregraph",
		Name:      "eval_pass_duration_ms",
		Help:      "Evaluation pass duration in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000},
	}, []string{"graph_id"})

	pm.memoHits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wiregraph",
		Name:      "memo_hits_total",
		Help:      "Per-pass memo cache hits during input resolution",
	}, []string{"graph_id"})

	pm.cycleGuard = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wiregraph",
		Name:      "cycle_guard_total",
		Help:      "Times the evaluation cycle guard resolved an input to nil",
	}, []string{"graph_id"})

	return pm
}

// SetEnabled toggles metric recording without unregistering collectors.
func (pm *PrometheusMetrics) SetEnabled(enabled bool) {
	pm.enabled = enabled
}

// RecordMutation counts one structural mutation.
func (pm *PrometheusMetrics) RecordMutation(graphID, op string) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.mutations.WithLabelValues(graphID, op).Inc()
}

// RecordPass counts one completed evaluation pass with its duration and
// memo statistics.
func (pm *PrometheusMetrics) RecordPass(graphID string, elapsed time.Duration, memoHits, cycles int) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.evalPasses.WithLabelValues(graphID).Inc()
	pm.passDuration.WithLabelValues(graphID).Observe(float64(elapsed) / float64(time.Millisecond))
	pm.memoHits.WithLabelValues(graphID).Add(float64(memoHits))
}

// RecordCycleGuard counts one cycle-guard trip.
func (pm *PrometheusMetrics) RecordCycleGuard(graphID string) {
	if pm == nil || !pm.enabled {
		return
	}
	pm.cycleGuard.WithLabelValues(graphID).Inc()
}
