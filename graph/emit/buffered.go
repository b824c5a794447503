package emit

import "sync"

// BufferedEmitter implements Emitter by storing events in memory.
//
// It captures every event and provides query capabilities, organized by
// graph ID. Tests use it to assert which notifications a mutation
// produced; interactive hosts can use it as an edit-history inspector.
//
// Warning: all events are kept in memory. Long editing sessions should
// Clear graphs they no longer inspect.
//
// Example usage:
//
//	emitter := emit.NewBufferedEmitter()
//	g := graph.NewGraphStore(reg, graph.WithEmitter(emitter))
//
//	// ... mutate the graph ...
//
//	created := emitter.HistoryWithFilter(g.GraphID(), emit.HistoryFilter{Msg: "link_created"})
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event // graphID -> events
}

// HistoryFilter specifies criteria for filtering captured events.
//
// All fields are optional; set fields combine with AND logic.
type HistoryFilter struct {
	NodeID      string  // filter by node ID (empty = no filter)
	Msg         string  // filter by message (empty = no filter)
	MinRevision *uint64 // minimum revision (nil = no lower bound)
	MaxRevision *uint64 // maximum revision (nil = no upper bound)
}

// NewBufferedEmitter creates an emitter that records all events in memory.
// Safe for concurrent use.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{
		events: make(map[string][]Event),
	}
}

// Emit implements Emitter by appending the event to its graph's history.
func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.GraphID] = append(b.events[event.GraphID], event)
}

// History returns all captured events for a graph, in emission order.
// The returned slice is a copy; mutating it does not affect the buffer.
func (b *BufferedEmitter) History(graphID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events := b.events[graphID]
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// HistoryWithFilter returns the captured events for a graph that match all
// set filter criteria, in emission order.
func (b *BufferedEmitter) HistoryWithFilter(graphID string, filter HistoryFilter) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Event
	for _, e := range b.events[graphID] {
		if filter.NodeID != "" && e.NodeID != filter.NodeID {
			continue
		}
		if filter.Msg != "" && e.Msg != filter.Msg {
			continue
		}
		if filter.MinRevision != nil && e.Revision < *filter.MinRevision {
			continue
		}
		if filter.MaxRevision != nil && e.Revision > *filter.MaxRevision {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns the number of captured events for a graph.
func (b *BufferedEmitter) Count(graphID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.events[graphID])
}

// Clear discards the captured events for a graph.
func (b *BufferedEmitter) Clear(graphID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.events, graphID)
}

// ClearAll discards every captured event.
func (b *BufferedEmitter) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = make(map[string][]Event)
}
