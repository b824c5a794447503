package graph

import (
	"github.com/google/uuid"

	"github.com/dstrand/wiregraph-go/graph/emit"
)

// GraphStore owns the canonical node and link maps for exactly one graph
// instance.
//
// All structural mutation flows through GraphStore (and WiringController,
// which calls back into it): no component mutates another's pin link lists
// directly, and every cross-reference (link → pin, pin → link ID) is kept
// consistent by the same call that changes it. There are no partial
// updates left for a caller to finish.
//
// The store is single-threaded: mutation and evaluation happen
// on the host's UI thread in response to discrete user actions. Emitters
// and metrics attached to the store may themselves be thread-safe, but the
// store takes no locks.
type GraphStore struct {
	id       string
	registry TemplateRegistry
	emitter  emit.Emitter
	metrics  *PrometheusMetrics

	nodes map[NodeID]*Node
	links map[LinkID]*Link

	// dirty is set by every successful structural change and cleared by
	// whoever schedules evaluation passes. revision increments with dirty
	// and stamps emitted events.
	dirty    bool
	revision uint64
}

// NewGraphStore creates an empty graph backed by the given template
// registry.
//
// The registry is required: instantiation and synchronization read
// templates from it. Options attach an emitter (change notifications),
// metrics, or a fixed graph ID.
//
// Example:
//
//	g := graph.NewGraphStore(registry,
//	    graph.WithEmitter(emit.NewLogEmitter(os.Stdout, false)),
//	    graph.WithMetrics(metrics),
//	)
func NewGraphStore(registry TemplateRegistry, opts ...StoreOption) *GraphStore {
	g := &GraphStore{
		id:       uuid.NewString(),
		registry: registry,
		emitter:  emit.NewNullEmitter(),
		nodes:    make(map[NodeID]*Node),
		links:    make(map[LinkID]*Link),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GraphID returns the graph's identifier, stamped on emitted events.
func (g *GraphStore) GraphID() string { return g.id }

// Registry returns the template registry the graph reads from.
func (g *GraphStore) Registry() TemplateRegistry { return g.registry }

// Dirty reports whether the graph changed since the last ClearDirty.
func (g *GraphStore) Dirty() bool { return g.dirty }

// ClearDirty resets the dirty flag. Called by the evaluation scheduler
// once a pass has been queued for the current state.
func (g *GraphStore) ClearDirty() { g.dirty = false }

// Revision returns the structural revision counter. It increments on
// every successful mutation and never resets.
func (g *GraphStore) Revision() uint64 { return g.revision }

// markDirty records a successful mutation and returns the new revision.
func (g *GraphStore) markDirty() uint64 {
	g.dirty = true
	g.revision++
	return g.revision
}

// emitEvent forwards a change notification stamped with the graph ID.
func (g *GraphStore) emitEvent(rev uint64, nodeID NodeID, linkID LinkID, msg string, meta map[string]interface{}) {
	if g.emitter == nil {
		return
	}
	g.emitter.Emit(emit.Event{
		GraphID:  g.id,
		Revision: rev,
		NodeID:   string(nodeID),
		LinkID:   string(linkID),
		Msg:      msg,
		Meta:     meta,
	})
}

// NodeCount returns the number of nodes in the graph.
func (g *GraphStore) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links in the graph.
func (g *GraphStore) LinkCount() int { return len(g.links) }

// FindNode returns the node with the given ID, or nil.
func (g *GraphStore) FindNode(id NodeID) *Node { return g.nodes[id] }

// FindLink returns the link with the given ID, or nil.
func (g *GraphStore) FindLink(id LinkID) *Link { return g.links[id] }

// Nodes returns all nodes. Iteration order is unspecified.
func (g *GraphStore) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// FindPin resolves a global pin ID to its pin, or nil.
func (g *GraphStore) FindPin(id PinID) *Pin {
	for _, n := range g.nodes {
		if p := n.FindPin(id); p != nil {
			return p
		}
	}
	return nil
}

// AddNode instantiates the template under key at (x, y) and adds it to the
// graph.
//
// Returns nil (a rejected mutation, not an error) when the key is not in
// the registry, or when the template is a singleton and an instance
// already exists. On success the graph is marked dirty and a "node_added"
// event is emitted.
func (g *GraphStore) AddNode(templateKey string, x, y float64) *Node {
	tpl, ok := g.registry.Get(templateKey)
	if !ok {
		return nil
	}
	if tpl.Singleton && g.hasTemplate(templateKey) {
		return nil
	}

	n := instantiate(NodeID(uuid.NewString()), templateKey, tpl, x, y)
	g.nodes[n.ID] = n

	rev := g.markDirty()
	if g.metrics != nil {
		g.metrics.RecordMutation(g.id, "add_node")
	}
	g.emitEvent(rev, n.ID, "", "node_added", map[string]interface{}{
		"template_key": templateKey,
	})
	return n
}

// hasTemplate reports whether any node instantiates the given template.
func (g *GraphStore) hasTemplate(templateKey string) bool {
	for _, n := range g.nodes {
		if n.TemplateKey == templateKey {
			return true
		}
	}
	return false
}

// RemoveNode breaks every link touching the node's pins, then removes the
// node. Removing an unknown ID is a no-op. Never leaves a link referencing
// a removed pin.
func (g *GraphStore) RemoveNode(id NodeID) {
	n := g.nodes[id]
	if n == nil {
		return
	}
	for _, p := range n.Pins {
		g.breakPinLinks(p)
	}
	delete(g.nodes, id)

	rev := g.markDirty()
	if g.metrics != nil {
		g.metrics.RecordMutation(g.id, "remove_node")
	}
	g.emitEvent(rev, id, "", "node_removed", nil)
}

// SetLiteral coerces and stores a literal on a node's pin, marking the
// graph dirty so the next evaluation pass sees the new value.
func (g *GraphStore) SetLiteral(nodeID NodeID, pinID PinID, raw Value) {
	n := g.nodes[nodeID]
	if n == nil {
		return
	}
	p := n.FindPin(pinID)
	if p == nil || p.Type.IsExec() {
		return
	}
	n.SetLiteral(pinID, raw)

	rev := g.markDirty()
	g.emitEvent(rev, nodeID, "", "literal_changed", map[string]interface{}{
		"pin": string(pinID),
	})
}

// LinksByNode returns every link touching the node. Linear scan over the
// link map: O(links), acceptable at interactive graph sizes.
func (g *GraphStore) LinksByNode(id NodeID) []*Link {
	var out []*Link
	for _, l := range g.links {
		if l.touches(id) {
			out = append(out, l)
		}
	}
	return out
}

// LinksByPin returns every link with the pin as an endpoint. O(links).
func (g *GraphStore) LinksByPin(id PinID) []*Link {
	var out []*Link
	for _, l := range g.links {
		if l.Source.ID == id || l.Target.ID == id {
			out = append(out, l)
		}
	}
	return out
}

// linkInto returns the link whose target is the given pin, or nil.
// Non-exec inputs hold at most one, so the first match is the match.
func (g *GraphStore) linkInto(pinID PinID) *Link {
	for _, l := range g.links {
		if l.Target.ID == pinID {
			return l
		}
	}
	return nil
}

// addLink creates a link between two already-validated endpoints and
// records it on both pins. Callers (WiringController) have verified
// direction, type, and multiplicity; addLink only does the bookkeeping.
func (g *GraphStore) addLink(source, target *Pin) *Link {
	l := &Link{
		ID:     LinkID(uuid.NewString()),
		Source: source,
		Target: target,
	}
	g.links[l.ID] = l
	source.attachLink(l.ID)
	target.attachLink(l.ID)
	return l
}

// rekeyLink changes a link's ID, updating the store map and both pins.
func (g *GraphStore) rekeyLink(l *Link, id LinkID) {
	old := l.ID
	delete(g.links, old)
	l.Source.detachLink(old)
	l.Target.detachLink(old)
	l.ID = id
	g.links[id] = l
	l.Source.attachLink(id)
	l.Target.attachLink(id)
}

// removeLink removes the link from the store and from both endpoint pins.
// Returns false for an unknown ID.
func (g *GraphStore) removeLink(id LinkID) bool {
	l := g.links[id]
	if l == nil {
		return false
	}
	l.Source.detachLink(id)
	l.Target.detachLink(id)
	delete(g.links, id)
	return true
}

// breakPinLinks removes every link touching the pin, emitting one
// "link_broken" event per removed link.
func (g *GraphStore) breakPinLinks(p *Pin) {
	for _, id := range append([]LinkID(nil), p.LinkIDs...) {
		if g.removeLink(id) {
			rev := g.markDirty()
			if g.metrics != nil {
				g.metrics.RecordMutation(g.id, "link_broken")
			}
			g.emitEvent(rev, p.node.ID, id, "link_broken", nil)
		}
	}
}

// AddCustomPin adds a dynamically declared pin to a node, e.g. a
// user-defined event parameter. The pin is marked custom so template
// synchronization leaves it alone. Returns nil if the port name collides
// with an existing pin.
func (g *GraphStore) AddCustomPin(nodeID NodeID, spec PinSpec) *Pin {
	n := g.nodes[nodeID]
	if n == nil || n.FindPort(spec.Port) != nil {
		return nil
	}
	p := n.addPinFromSpec(spec, true)
	if !p.Type.IsExec() {
		n.Literals[p.ID] = literalDefault(spec)
	}

	rev := g.markDirty()
	g.emitEvent(rev, nodeID, "", "pin_added", map[string]interface{}{
		"pin": string(p.ID),
	})
	return p
}

// SynchronizeNode rebuilds a node's pins from its (possibly reshaped)
// template, e.g. after a variable's type changed.
//
// Reconciliation is keyed on the template-declared port name: a surviving
// port keeps its links and literal (links are repointed to the new pin
// object), a vanished port has its links broken, a new port starts at its
// default. Custom pins are carried over untouched. Idempotent: running it
// twice against the same template changes nothing the second time.
func (g *GraphStore) SynchronizeNode(nodeID NodeID) {
	n := g.nodes[nodeID]
	if n == nil {
		return
	}
	tpl, ok := g.registry.Get(n.TemplateKey)
	if !ok {
		return
	}

	oldPins := n.Pins
	oldLiterals := n.Literals
	n.Pins = nil
	n.Literals = make(map[PinID]Value)

	oldByPort := make(map[string]*Pin, len(oldPins))
	for _, p := range oldPins {
		if !p.Custom {
			oldByPort[p.Port] = p
		}
	}

	for _, spec := range tpl.Pins {
		p := n.addPinFromSpec(spec, false)
		old := oldByPort[spec.Port]
		if old != nil {
			delete(oldByPort, spec.Port)
			// Transfer wiring and repoint links at the new pin object.
			p.LinkIDs = old.LinkIDs
			for _, id := range p.LinkIDs {
				l := g.links[id]
				if l == nil {
					continue
				}
				if l.Source == old {
					l.Source = p
				}
				if l.Target == old {
					l.Target = p
				}
			}
		}
		if !p.Type.IsExec() {
			if old != nil {
				if v, ok := oldLiterals[old.ID]; ok {
					n.Literals[p.ID] = v
					continue
				}
			}
			n.Literals[p.ID] = literalDefault(spec)
		}
	}

	// Custom pins survive the rebuild as-is.
	for _, p := range oldPins {
		if p.Custom {
			n.Pins = append(n.Pins, p)
			if v, ok := oldLiterals[p.ID]; ok {
				n.Literals[p.ID] = v
			}
		}
	}

	// Ports with no surviving counterpart lose their links.
	for _, old := range oldByPort {
		g.breakPinLinks(old)
	}

	rev := g.markDirty()
	g.emitEvent(rev, nodeID, "", "node_synchronized", nil)
}

// DuplicateNodes clones a node set, offset by (dx, dy).
//
// Each clone is reinstantiated from its template; literals carry over to
// pins whose (name, direction) match. Only links with both endpoints
// inside the set are re-created, with each new endpoint re-resolved by
// (name, direction) rather than by old pin ID. Returns the clones in no
// particular order; IDs not found in the graph are skipped.
func (g *GraphStore) DuplicateNodes(ids []NodeID, dx, dy float64) []*Node {
	cloneOf := make(map[NodeID]*Node, len(ids))
	var clones []*Node

	for _, id := range ids {
		orig := g.nodes[id]
		if orig == nil {
			continue
		}
		clone := g.AddNode(orig.TemplateKey, orig.X+dx, orig.Y+dy)
		if clone == nil {
			// Unknown template or singleton; skip, keep going.
			continue
		}
		for _, origPin := range orig.Pins {
			if origPin.Type.IsExec() {
				continue
			}
			v, ok := orig.Literals[origPin.ID]
			if !ok {
				continue
			}
			if target := clone.findPinByIdentity(origPin.Name, origPin.Dir); target != nil {
				clone.Literals[target.ID] = v
			}
		}
		cloneOf[id] = clone
		clones = append(clones, clone)
	}

	// Re-create interior links between clones.
	for _, l := range g.LinksByNodeSet(cloneKeys(cloneOf)) {
		srcClone := cloneOf[l.Source.node.ID]
		dstClone := cloneOf[l.Target.node.ID]
		if srcClone == nil || dstClone == nil {
			continue
		}
		src := srcClone.findPinByIdentity(l.Source.Name, Out)
		dst := dstClone.findPinByIdentity(l.Target.Name, In)
		if src == nil || dst == nil {
			continue
		}
		nl := g.addLink(src, dst)
		rev := g.markDirty()
		if g.metrics != nil {
			g.metrics.RecordMutation(g.id, "link_created")
		}
		g.emitEvent(rev, "", nl.ID, "link_created", nil)
	}

	return clones
}

// LinksByNodeSet returns links whose endpoints are both inside the set.
func (g *GraphStore) LinksByNodeSet(ids []NodeID) []*Link {
	in := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var out []*Link
	for _, l := range g.links {
		if in[l.Source.node.ID] && in[l.Target.node.ID] {
			out = append(out, l)
		}
	}
	return out
}

func cloneKeys(m map[NodeID]*Node) []NodeID {
	out := make([]NodeID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
