package graph

// Pin is a typed, directional port instance on a Node.
//
// A pin owns its link-ID list; the Links and Pin link lists are kept
// consistent by the same GraphStore transaction that changes either side.
// No component outside GraphStore/WiringController mutates LinkIDs.
type Pin struct {
	// ID is the globally unique pin identifier ("<nodeID>-<port>").
	ID PinID

	// Port is the node-relative pin identifier declared by the template
	// (or chosen by the user for custom pins). Stable across
	// synchronization; never derived from ID by string manipulation.
	Port string

	// Name is the human-readable label.
	Name string

	// Type is the pin's data type.
	Type DataType

	// Dir is the pin's direction.
	Dir Direction

	// Container is the pin's container shape.
	Container Multiplicity

	// Custom marks pins added dynamically rather than declared by the
	// template (e.g. a user-defined event parameter). Custom pins survive
	// template synchronization.
	Custom bool

	// LinkIDs lists the links attached to this pin.
	LinkIDs []LinkID

	// node is the owning node. Set at instantiation, never nil afterward.
	node *Node
}

// Node returns the pin's owning node.
func (p *Pin) Node() *Node { return p.node }

// MaxLinks returns the maximum number of links the pin accepts, or 0 for
// unbounded. Non-exec input pins are single-assignment; output pins and
// exec pins fan out freely.
func (p *Pin) MaxLinks() int {
	if p.Dir == In && !p.Type.IsExec() {
		return 1
	}
	return 0
}

// Connected reports whether any link is attached to the pin.
func (p *Pin) Connected() bool { return len(p.LinkIDs) > 0 }

// hasLink reports whether the given link ID is attached to the pin.
func (p *Pin) hasLink(id LinkID) bool {
	for _, l := range p.LinkIDs {
		if l == id {
			return true
		}
	}
	return false
}

// attachLink appends a link ID; detachLink removes one. Both are invoked
// only from GraphStore so the pin and link maps stay in lockstep.
func (p *Pin) attachLink(id LinkID) {
	p.LinkIDs = append(p.LinkIDs, id)
}

func (p *Pin) detachLink(id LinkID) {
	kept := p.LinkIDs[:0]
	for _, l := range p.LinkIDs {
		if l != id {
			kept = append(kept, l)
		}
	}
	p.LinkIDs = kept
}

// qualifyPin builds the global pin ID from an owning node ID and a
// node-relative port name.
func qualifyPin(nodeID NodeID, port string) PinID {
	return PinID(string(nodeID) + "-" + port)
}
