package emit

// Event represents an observability event emitted by the graph core.
//
// The core emits an event after every successful structural mutation and
// around every evaluation pass. Hosts consume events to redraw wires,
// trigger debounced re-evaluation, or feed monitoring backends. The core
// makes no assumption about what a consumer does with them.
//
// Common messages:
//   - "node_added", "node_removed", "node_synchronized"
//   - "link_created", "link_broken", "adapter_spliced"
//   - "literal_changed"
//   - "pass_start", "pass_complete"
//   - "load_warning"
type Event struct {
	// GraphID identifies the graph instance that emitted this event.
	GraphID string

	// Revision is the graph's structural revision counter at emit time.
	// Zero for events that do not correspond to a mutation.
	Revision uint64

	// NodeID identifies the node the event concerns, if any.
	NodeID string

	// LinkID identifies the link the event concerns, if any.
	LinkID string

	// Msg is a machine-matchable description of the event.
	Msg string

	// Meta contains additional structured data specific to this event.
	// Common keys:
	//   - "duration_ms": Evaluation pass duration in milliseconds
	//   - "adapter_node": Spliced adapter node ID
	//   - "template_key": Template involved in the mutation
	//   - "reason": Why a document entry was skipped on load
	Meta map[string]interface{}
}
