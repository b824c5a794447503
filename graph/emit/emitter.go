package emit

// Emitter receives and processes observability events from the graph core.
//
// Emitters are the narrow interface between the core and everything the
// core treats as external: renderers redrawing nodes and wires, debounce
// schedulers coalescing evaluation passes, structured logs, tracing.
//
// Implementations should be:
//   - Non-blocking: the core emits synchronously on the UI thread
//   - Resilient: handle failures internally, never panic into the core
//
// Common patterns:
//   - Buffering: collect events and inspect them after the fact (tests)
//   - Filtering: only react to structural messages, ignore pass events
//   - Multi-emit: fan out to a renderer and a tracer
type Emitter interface {
	// Emit sends an observability event to the configured backend.
	//
	// Emit must not panic; errors are handled internally by the emitter.
	Emit(event Event)
}

// MultiEmitter fans a single event stream out to several emitters, in
// order. A nil entry is skipped.
type MultiEmitter []Emitter

// Emit implements Emitter.
func (m MultiEmitter) Emit(event Event) {
	for _, e := range m {
		if e != nil {
			e.Emit(event)
		}
	}
}
