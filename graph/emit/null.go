package emit

// NullEmitter implements Emitter by discarding all events.
//
// Use it when a host wants no change notifications at all: headless
// evaluation, batch document migration, benchmarks.
type NullEmitter struct{}

// NewNullEmitter returns an emitter that discards everything. Safe for
// concurrent use, zero overhead.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit implements Emitter. It does nothing.
func (n *NullEmitter) Emit(_ Event) {}
