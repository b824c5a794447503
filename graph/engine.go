package graph

import "time"

// EvaluationEngine resolves a sink node's inputs by walking the graph
// backward along links, invoking each visited node's pure evaluation
// function, memoizing per-(node, port) results for one pass, and
// neutralizing cycles.
//
// The engine is type-agnostic about what the sink represents: sink-specific
// logic (e.g. choosing which input set matters based on a mode flag) lives
// in the sink template's own evaluate function.
//
// Passes are coalesced by an external scheduler (see Debouncer); the
// engine itself tolerates redundant invocation: evaluation is a pure
// re-derivation from current literals and links, safe to repeat.
type EvaluationEngine struct {
	graph    *GraphStore
	maxDepth int
}

// NewEvaluationEngine creates an engine over the given graph.
//
// Example:
//
//	engine := graph.NewEvaluationEngine(g, graph.WithMaxDepth(512))
//	outputs := engine.Evaluate(sinkNode)
func NewEvaluationEngine(g *GraphStore, opts ...EngineOption) *EvaluationEngine {
	e := &EvaluationEngine{graph: g}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// portKey memoizes one node output for one pass.
type portKey struct {
	node NodeID
	port string
}

// evalPass is the per-pass state: the memo cache and the path set for the
// cycle guard. Both are allocated once per pass and threaded by reference
// through the recursion, with no per-call set copies.
type evalPass struct {
	cache    map[portKey]Value
	path     map[NodeID]bool
	memoHits int
	cycles   int
	depth    int
}

// Evaluate runs one full evaluation pass rooted at the sink node.
//
// Every non-exec input of the sink is resolved (link-driven value, or the
// sink's literal when unconnected or cyclic), then the sink template's
// evaluate function produces the pass result. Returns nil for a nil sink
// or a sink whose template is missing or has no evaluate function.
//
// The pass's memo cache is private and discarded afterward: results are
// always re-derived from current literals and links, never reused across
// passes. A "pass_complete" event carries duration and memo statistics.
func (e *EvaluationEngine) Evaluate(sink *Node) map[string]Value {
	if sink == nil {
		return nil
	}
	tpl, ok := e.graph.registry.Get(sink.TemplateKey)
	if !ok || tpl.Evaluate == nil {
		return nil
	}

	start := time.Now()
	pass := &evalPass{
		cache: make(map[portKey]Value),
		path:  make(map[NodeID]bool),
	}
	e.graph.emitEvent(0, sink.ID, "", "pass_start", nil)

	inputs := e.resolveNodeInputs(sink, pass)
	outputs := tpl.Evaluate(inputs, sink.portLiterals())

	elapsed := time.Since(start)
	if e.graph.metrics != nil {
		e.graph.metrics.RecordPass(e.graph.id, elapsed, pass.memoHits, pass.cycles)
	}
	e.graph.emitEvent(0, sink.ID, "", "pass_complete", map[string]interface{}{
		"duration_ms": float64(elapsed) / float64(time.Millisecond),
		"memo_hits":   pass.memoHits,
		"cycles":      pass.cycles,
	})
	return outputs
}

// EvaluateOutput runs a pass and returns a single named output of the
// sink, or nil when the pass produced no value for that port.
func (e *EvaluationEngine) EvaluateOutput(sink *Node, port string) Value {
	outputs := e.Evaluate(sink)
	if outputs == nil {
		return nil
	}
	return outputs[port]
}

// resolveNodeInputs resolves every non-exec input port of a node,
// substituting the node's literal for any port that resolves to nil
// (unconnected, cyclic, or over the depth limit).
func (e *EvaluationEngine) resolveNodeInputs(n *Node, pass *evalPass) map[string]Value {
	inputs := make(map[string]Value)
	for _, p := range n.InPins() {
		if p.Type.IsExec() {
			continue
		}
		v := e.resolveInput(n, p, pass)
		if v == nil {
			v = n.Literals[p.ID]
		}
		inputs[p.Port] = v
	}
	return inputs
}

// resolveInput resolves the value arriving at one input pin.
//
// Nil means "no value": no incoming link, a cycle closing on the current
// path, a missing source template, or a source that produced nothing for
// the requested output. Callers substitute the pin's literal.
//
// Memoization keys on the producing output, not the consuming input: a
// node whose output fans out to several inputs is evaluated once per pass,
// with every output port cached when it runs. Cycle-guard nils are never
// cached: whether a back-edge closes a loop depends on the path taken.
//
// Termination: the path set prevents revisiting any node already on the
// current resolution path, and the memo cache prevents re-evaluating
// off-path sources, so a pass is bounded by links × distinct ports even on
// cyclic graphs.
func (e *EvaluationEngine) resolveInput(n *Node, pin *Pin, pass *evalPass) Value {
	link := e.graph.linkInto(pin.ID)
	if link == nil {
		return nil
	}

	key := portKey{node: link.Source.node.ID, port: link.Source.Port}
	if v, ok := pass.cache[key]; ok {
		pass.memoHits++
		return v
	}

	if pass.path[n.ID] {
		// Cycle guard: a user-created loop resolves to "no value"
		// rather than hanging or panicking.
		pass.cycles++
		if e.graph.metrics != nil {
			e.graph.metrics.RecordCycleGuard(e.graph.id)
		}
		return nil
	}

	if e.maxDepth > 0 && pass.depth >= e.maxDepth {
		return nil
	}

	source := link.Source.node
	tpl, ok := e.graph.registry.Get(source.TemplateKey)
	if !ok || tpl.Evaluate == nil {
		return nil
	}

	pass.path[n.ID] = true
	pass.depth++
	inputs := e.resolveNodeInputs(source, pass)
	pass.depth--
	delete(pass.path, n.ID)

	outputs := tpl.Evaluate(inputs, source.portLiterals())

	// Cache every output the source produced, so the next link out of
	// this node is a memo hit regardless of which port it reads.
	for _, out := range source.OutPins() {
		k := portKey{node: source.ID, port: out.Port}
		if outputs != nil {
			pass.cache[k] = outputs[out.Port]
		} else {
			pass.cache[k] = nil
		}
	}

	if outputs == nil {
		return nil
	}
	return outputs[link.Source.Port]
}
