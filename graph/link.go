package graph

// Link is a directed edge from exactly one output pin to one input pin.
//
// Stored links are type-correct by construction: either both endpoint
// types match (or are exec), or an adapter node was spliced in at creation
// time so that no raw mismatched edge ever exists. Links reference pins
// but do not own them.
type Link struct {
	ID LinkID

	// Source is the producing endpoint. Always an out pin.
	Source *Pin

	// Target is the consuming endpoint. Always an in pin.
	Target *Pin
}

// touches reports whether either endpoint belongs to the given node.
func (l *Link) touches(nodeID NodeID) bool {
	return l.Source.node.ID == nodeID || l.Target.node.ID == nodeID
}
