package graph

import "github.com/dstrand/wiregraph-go/graph/emit"

// StoreOption configures a GraphStore at construction.
//
// Functional options keep the constructor small and forward compatible:
//
//	g := graph.NewGraphStore(registry,
//	    graph.WithGraphID("material-editor"),
//	    graph.WithEmitter(emitter),
//	    graph.WithMetrics(metrics),
//	)
type StoreOption func(*GraphStore)

// WithGraphID fixes the graph's identifier instead of generating one.
// Useful when the host persists documents under stable names.
func WithGraphID(id string) StoreOption {
	return func(g *GraphStore) {
		if id != "" {
			g.id = id
		}
	}
}

// WithEmitter attaches a change-notification emitter. Every successful
// structural mutation and evaluation pass emits through it. Defaults to a
// NullEmitter.
func WithEmitter(e emit.Emitter) StoreOption {
	return func(g *GraphStore) {
		if e != nil {
			g.emitter = e
		}
	}
}

// WithMetrics attaches Prometheus metrics collection. Defaults to none.
func WithMetrics(m *PrometheusMetrics) StoreOption {
	return func(g *GraphStore) {
		g.metrics = m
	}
}

// EngineOption configures an EvaluationEngine at construction.
type EngineOption func(*EvaluationEngine)

// WithMaxDepth bounds resolveInput recursion depth.
//
// Graph depth is user controlled; a pathological chain thousands of nodes
// deep would otherwise translate directly into stack depth. Inputs beyond
// the limit resolve to nil, the same treatment as a cycle. 0 (the
// default) disables the limit.
func WithMaxDepth(depth int) EngineOption {
	return func(e *EvaluationEngine) {
		e.maxDepth = depth
	}
}
