package graph

// ConnectStatus classifies the outcome of a connection attempt.
type ConnectStatus int

const (
	// ConnectRejected: no mutation happened. Reason says why.
	ConnectRejected ConnectStatus = iota

	// Connected: a single direct link was created.
	Connected

	// ConnectedViaAdapter: the types differed, an adapter node was
	// spliced in, and two links were created.
	ConnectedViaAdapter
)

func (s ConnectStatus) String() string {
	switch s {
	case Connected:
		return "connected"
	case ConnectedViaAdapter:
		return "connected_via_adapter"
	default:
		return "rejected"
	}
}

// ConnectResult reports what TryConnect did.
type ConnectResult struct {
	Status ConnectStatus

	// AdapterNodeID is the spliced conversion node, set only for
	// ConnectedViaAdapter.
	AdapterNodeID NodeID

	// LinkID is the created link (for ConnectedViaAdapter, the link into
	// the adapter; the adapter's outgoing link is reachable through the
	// adapter node).
	LinkID LinkID

	// Reason explains a rejection. Empty on success.
	Reason string
}

// rejected builds a no-mutation result.
func rejected(reason string) ConnectResult {
	return ConnectResult{Status: ConnectRejected, Reason: reason}
}

// WiringController implements the connection protocol on top of a
// GraphStore: it validates proposed connections, enforces the
// single-link-per-input rule, and splices adapter nodes for configured
// type conversions.
//
// All link creation goes through the controller, which is how the store's
// type-safety invariant holds: a mismatched direct link is never created,
// so one never exists.
type WiringController struct {
	graph  *GraphStore
	compat *TypeCompat
}

// NewWiringController creates a controller for the given graph. A nil
// compat gets the built-in adapter table.
func NewWiringController(g *GraphStore, compat *TypeCompat) *WiringController {
	if compat == nil {
		compat = NewTypeCompat()
	}
	return &WiringController{graph: g, compat: compat}
}

// TryConnect attempts to wire two pins together.
//
// The protocol, in order:
//  1. Reject self-loops (both pins on one node) and same-direction pairs;
//     otherwise normalize to (source=out, target=in).
//  2. Reject silently if the identical source→target link already exists.
//  3. Reject mismatched container shapes (single vs array, etc.).
//     Adapters convert data types, not container shapes, so this check
//     applies before either connection path is considered.
//  4. If the target is an occupied single-link input, break the existing
//     link first: dragging a new wire into an occupied input replaces it.
//  5. Matching types (or exec/exec) connect directly.
//  6. On a type mismatch with a configured adapter, instantiate the
//     adapter node at the wire midpoint and create source→adapter and
//     adapter→target links. If the adapter template does not expose the
//     expected val_in/val_out ports, roll the half-built node back and
//     reject.
//  7. Otherwise reject.
//
// Rejections mutate nothing. Every successful path marks the graph dirty
// and emits "link_created" (and "adapter_spliced") events.
func (w *WiringController) TryConnect(a, b *Pin) ConnectResult {
	if a == nil || b == nil {
		return rejected("nil pin")
	}
	if a.node == b.node {
		return rejected("cannot connect a node to itself")
	}
	if a.Dir == b.Dir {
		return rejected("pins have the same direction")
	}

	source, target := a, b
	if source.Dir == In {
		source, target = target, source
	}

	if w.duplicateExists(source, target) {
		return rejected("link already exists")
	}

	if source.Container != target.Container {
		return rejected("container shapes differ: " + source.Container.String() + " vs " + target.Container.String())
	}

	if !w.compat.IsDirectMatch(source.Type, target.Type) {
		adapterKey := w.compat.AdapterFor(source.Type, target.Type)
		if adapterKey == "" {
			return rejected("incompatible pin types: " + source.Type.String() + " -> " + target.Type.String())
		}
		return w.spliceAdapter(source, target, adapterKey)
	}

	w.replaceOccupiedInput(target)
	l := w.createLink(source, target)
	return ConnectResult{Status: Connected, LinkID: l.ID}
}

// CanConnect is the pure preflight used for ghost-wire coloring and
// palette filtering: it mirrors TryConnect's decision without mutating.
// A connection that would replace an occupied input still reports true.
func (w *WiringController) CanConnect(a, b *Pin) bool {
	if a == nil || b == nil || a.node == b.node || a.Dir == b.Dir {
		return false
	}
	source, target := a, b
	if source.Dir == In {
		source, target = target, source
	}
	if w.duplicateExists(source, target) {
		return false
	}
	if source.Container != target.Container {
		return false
	}
	if w.compat.IsDirectMatch(source.Type, target.Type) {
		return true
	}
	return w.compat.AdapterFor(source.Type, target.Type) != ""
}

// duplicateExists reports whether the exact source→target link is present.
func (w *WiringController) duplicateExists(source, target *Pin) bool {
	for _, id := range target.LinkIDs {
		l := w.graph.FindLink(id)
		if l != nil && l.Source == source && l.Target == target {
			return true
		}
	}
	return false
}

// replaceOccupiedInput breaks the existing link into a single-link input
// so a new wire can take its place.
func (w *WiringController) replaceOccupiedInput(target *Pin) {
	if target.MaxLinks() == 1 && target.Connected() {
		w.graph.breakPinLinks(target)
	}
}

// createLink performs the already-validated connection and does the
// dirty/metrics/event bookkeeping.
func (w *WiringController) createLink(source, target *Pin) *Link {
	l := w.graph.addLink(source, target)
	rev := w.graph.markDirty()
	if w.graph.metrics != nil {
		w.graph.metrics.RecordMutation(w.graph.id, "link_created")
	}
	w.graph.emitEvent(rev, "", l.ID, "link_created", nil)
	return l
}

// adapterInPort and adapterOutPort are the port names every conversion
// template must expose.
const (
	adapterInPort  = "val_in"
	adapterOutPort = "val_out"
)

// spliceAdapter interposes a conversion node between two mismatched pins.
//
// The adapter is positioned at the midpoint of its endpoints' nodes. If
// instantiation fails or the template lacks val_in/val_out, the half-built
// node is rolled back and the attempt reports Rejected, which from the
// caller's point of view is identical to a plain type mismatch.
func (w *WiringController) spliceAdapter(source, target *Pin, adapterKey string) ConnectResult {
	midX := (source.node.X + target.node.X) / 2
	midY := (source.node.Y + target.node.Y) / 2

	adapter := w.graph.AddNode(adapterKey, midX, midY)
	if adapter == nil {
		return rejected("adapter template not available: " + adapterKey)
	}

	in := adapter.FindPort(adapterInPort)
	out := adapter.FindPort(adapterOutPort)
	if in == nil || out == nil || in.Dir != In || out.Dir != Out {
		// Roll back the half-built adapter before rejecting.
		w.graph.RemoveNode(adapter.ID)
		return rejected("adapter template missing val_in/val_out ports: " + adapterKey)
	}

	w.replaceOccupiedInput(target)
	first := w.createLink(source, in)
	w.createLink(out, target)

	rev := w.graph.markDirty()
	w.graph.emitEvent(rev, adapter.ID, "", "adapter_spliced", map[string]interface{}{
		"template_key": adapterKey,
		"from":         source.Type.String(),
		"to":           target.Type.String(),
	})

	return ConnectResult{
		Status:        ConnectedViaAdapter,
		AdapterNodeID: adapter.ID,
		LinkID:        first.ID,
	}
}

// BreakLink removes a link, detaching it from both endpoint pins and the
// store. Unknown IDs are ignored.
func (w *WiringController) BreakLink(id LinkID) {
	l := w.graph.FindLink(id)
	if l == nil {
		return
	}
	nodeID := l.Target.node.ID
	if w.graph.removeLink(id) {
		rev := w.graph.markDirty()
		if w.graph.metrics != nil {
			w.graph.metrics.RecordMutation(w.graph.id, "link_broken")
		}
		w.graph.emitEvent(rev, nodeID, id, "link_broken", nil)
	}
}

// BreakPinLinks breaks every link touching the pin. Used before pin and
// node deletion and before a type-incompatible literal assignment.
func (w *WiringController) BreakPinLinks(pinID PinID) {
	p := w.graph.FindPin(pinID)
	if p == nil {
		return
	}
	w.graph.breakPinLinks(p)
}
