package graph

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordMutations(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPrometheusMetrics(registry)
	g := NewGraphStore(newTestRegistry(), WithGraphID("g1"), WithMetrics(m))
	w := NewWiringController(g, NewTypeCompat())

	c := g.AddNode("Const", 0, 0)
	add := g.AddNode("Add", 100, 0)
	res := w.TryConnect(mustPort(c, "out"), mustPort(add, "a"))
	w.BreakLink(res.LinkID)

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("g1", "add_node")); got != 2 {
		t.Errorf("add_node count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.mutations.WithLabelValues("g1", "link_created")); got != 1 {
		t.Errorf("link_created count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.mutations.WithLabelValues("g1", "link_broken")); got != 1 {
		t.Errorf("link_broken count = %v, want 1", got)
	}
}

func TestMetricsRecordPass(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPrometheusMetrics(registry)
	g := NewGraphStore(newTestRegistry(), WithGraphID("g1"), WithMetrics(m))
	w := NewWiringController(g, NewTypeCompat())

	c := g.AddNode("Const", 0, 0)
	mid := g.AddNode("Identity", 100, 0)
	add := g.AddNode("Add", 200, 0)
	result := g.AddNode("Result", 300, 0)
	// Shared wired intermediate: resolving Add.b re-requests mid's input
	// and hits the memo cache instead of re-walking to the constant.
	w.TryConnect(mustPort(c, "out"), mustPort(mid, "in"))
	w.TryConnect(mustPort(mid, "out"), mustPort(add, "a"))
	w.TryConnect(mustPort(mid, "out"), mustPort(add, "b"))
	w.TryConnect(mustPort(add, "out"), mustPort(result, "final"))

	eng := NewEvaluationEngine(g)
	eng.Evaluate(result)
	eng.Evaluate(result)

	if got := testutil.ToFloat64(m.evalPasses.WithLabelValues("g1")); got != 2 {
		t.Errorf("eval_passes = %v, want 2", got)
	}
	// The diamond produces at least one memo hit per pass.
	if got := testutil.ToFloat64(m.memoHits.WithLabelValues("g1")); got < 2 {
		t.Errorf("memo_hits = %v, want >= 2", got)
	}
}

func TestMetricsRecordCycleGuard(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPrometheusMetrics(registry)
	g := NewGraphStore(newTestRegistry(), WithGraphID("g1"), WithMetrics(m))
	w := NewWiringController(g, NewTypeCompat())

	a := g.AddNode("Identity", 0, 0)
	b := g.AddNode("Identity", 100, 0)
	result := g.AddNode("Result", 200, 0)
	w.TryConnect(mustPort(a, "out"), mustPort(b, "in"))
	w.TryConnect(mustPort(b, "out"), mustPort(a, "in"))
	w.TryConnect(mustPort(b, "out"), mustPort(result, "final"))

	NewEvaluationEngine(g).Evaluate(result)

	if got := testutil.ToFloat64(m.cycleGuard.WithLabelValues("g1")); got < 1 {
		t.Errorf("cycle_guard = %v, want >= 1", got)
	}
}

func TestMetricsDisabledAndNil(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewPrometheusMetrics(registry)
	m.SetEnabled(false)
	m.RecordMutation("g1", "add_node")
	m.RecordPass("g1", time.Millisecond, 1, 0)
	m.RecordCycleGuard("g1")
	if got := testutil.ToFloat64(m.mutations.WithLabelValues("g1", "add_node")); got != 0 {
		t.Errorf("disabled metrics still recorded: %v", got)
	}

	var nilMetrics *PrometheusMetrics
	nilMetrics.RecordMutation("g1", "add_node") // must not panic
	nilMetrics.RecordPass("g1", 0, 0, 0)
	nilMetrics.RecordCycleGuard("g1")
}
