package graph

import "testing"

// snapshotLinks captures every pin's link list for no-op assertions.
func snapshotLinks(g *GraphStore) map[PinID][]LinkID {
	snap := make(map[PinID][]LinkID)
	for _, n := range g.Nodes() {
		for _, p := range n.Pins {
			snap[p.ID] = append([]LinkID(nil), p.LinkIDs...)
		}
	}
	return snap
}

func linksEqual(a, b map[PinID][]LinkID) bool {
	if len(a) != len(b) {
		return false
	}
	for id, la := range a {
		lb, ok := b[id]
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
	}
	return true
}

func TestTryConnectDirect(t *testing.T) {
	g, w := newTestGraph()
	c := g.AddNode("Const", 0, 0)
	add := g.AddNode("Add", 100, 0)

	res := w.TryConnect(mustPort(c, "out"), mustPort(add, "a"))
	if res.Status != Connected {
		t.Fatalf("expected Connected, got %v (%s)", res.Status, res.Reason)
	}
	if g.LinkCount() != 1 {
		t.Fatalf("expected 1 link, got %d", g.LinkCount())
	}

	l := g.FindLink(res.LinkID)
	if l == nil {
		t.Fatal("created link not found in store")
	}
	if l.Source != mustPort(c, "out") || l.Target != mustPort(add, "a") {
		t.Error("link endpoints not normalized to (out, in)")
	}
}

func TestTryConnectNormalizesArgumentOrder(t *testing.T) {
	g, w := newTestGraph()
	c := g.AddNode("Const", 0, 0)
	add := g.AddNode("Add", 100, 0)

	// Input pin passed first; controller must still produce out -> in.
	res := w.TryConnect(mustPort(add, "a"), mustPort(c, "out"))
	if res.Status != Connected {
		t.Fatalf("expected Connected, got %v (%s)", res.Status, res.Reason)
	}
	l := g.FindLink(res.LinkID)
	if l.Source.Dir != Out || l.Target.Dir != In {
		t.Error("endpoints not normalized")
	}
}

func TestTryConnectRejectionIsNoOp(t *testing.T) {
	g, w := newTestGraph()
	c := g.AddNode("Const", 0, 0)
	add := g.AddNode("Add", 100, 0)
	w.TryConnect(mustPort(c, "out"), mustPort(add, "a"))

	before := snapshotLinks(g)
	nodesBefore := g.NodeCount()
	linksBefore := g.LinkCount()

	cases := []struct {
		name string
		a, b *Pin
	}{
		{"self node", mustPort(add, "a"), mustPort(add, "out")},
		{"two inputs", mustPort(add, "a"), mustPort(add, "b")},
		{"nil pin", nil, mustPort(add, "a")},
		{"duplicate", mustPort(c, "out"), mustPort(add, "a")},
	}
	for _, tc := range cases {
		res := w.TryConnect(tc.a, tc.b)
		if res.Status != ConnectRejected {
			t.Errorf("%s: expected rejection, got %v", tc.name, res.Status)
		}
	}

	if g.NodeCount() != nodesBefore || g.LinkCount() != linksBefore {
		t.Error("rejected connects mutated node/link maps")
	}
	if !linksEqual(before, snapshotLinks(g)) {
		t.Error("rejected connects mutated pin link lists")
	}
}

func TestSingleInputInvariant(t *testing.T) {
	g, w := newTestGraph()
	c1 := g.AddNode("Const", 0, 0)
	c2 := g.AddNode("Const", 0, 50)
	add := g.AddNode("Add", 100, 0)
	target := mustPort(add, "a")

	if res := w.TryConnect(mustPort(c1, "out"), target); res.Status != Connected {
		t.Fatalf("first connect failed: %s", res.Reason)
	}
	// Dragging a second wire into the occupied input replaces the first.
	if res := w.TryConnect(mustPort(c2, "out"), target); res.Status != Connected {
		t.Fatalf("replacing connect failed: %s", res.Reason)
	}

	if len(target.LinkIDs) != 1 {
		t.Fatalf("single-input invariant violated: %d links", len(target.LinkIDs))
	}
	if g.LinkCount() != 1 {
		t.Fatalf("expected old link gone, have %d links", g.LinkCount())
	}
	l := g.FindLink(target.LinkIDs[0])
	if l.Source.node != c2 {
		t.Error("surviving link is not the replacement")
	}
	if len(mustPort(c1, "out").LinkIDs) != 0 {
		t.Error("replaced link still recorded on old source pin")
	}
}

func TestExecPinsFanFreely(t *testing.T) {
	g, w := newTestGraph()
	e1 := g.AddNode("Event", 0, 0)
	e2 := g.AddNode("Event", 0, 50)
	a := g.AddNode("Action", 100, 0)
	target := mustPort(a, "exec_in")

	if res := w.TryConnect(mustPort(e1, "exec_out"), target); res.Status != Connected {
		t.Fatalf("exec connect failed: %s", res.Reason)
	}
	if res := w.TryConnect(mustPort(e2, "exec_out"), target); res.Status != Connected {
		t.Fatalf("second exec connect failed: %s", res.Reason)
	}
	if len(target.LinkIDs) != 2 {
		t.Errorf("exec input should fan in, got %d links", len(target.LinkIDs))
	}
}

func TestLinkBookkeepingSymmetry(t *testing.T) {
	g, w := newTestGraph()
	c := g.AddNode("Const", 0, 0)
	add := g.AddNode("Add", 100, 0)
	res := w.TryConnect(mustPort(c, "out"), mustPort(add, "a"))

	l := g.FindLink(res.LinkID)
	if !l.Source.hasLink(l.ID) || !l.Target.hasLink(l.ID) {
		t.Fatal("link ID missing from an endpoint pin")
	}

	w.BreakLink(l.ID)
	if l.Source.hasLink(l.ID) || l.Target.hasLink(l.ID) {
		t.Error("link ID still on a pin after BreakLink")
	}
	if g.FindLink(l.ID) != nil {
		t.Error("link still in store after BreakLink")
	}
}

func TestAdapterInsertion(t *testing.T) {
	g, w := newTestGraph()
	c := g.AddNode("Const", 0, 0)
	sink := g.AddNode("StringSink", 200, 0)

	res := w.TryConnect(mustPort(c, "out"), mustPort(sink, "text"))
	if res.Status != ConnectedViaAdapter {
		t.Fatalf("expected adapter splice, got %v (%s)", res.Status, res.Reason)
	}

	if g.NodeCount() != 3 {
		t.Fatalf("expected 1 new adapter node, have %d nodes", g.NodeCount())
	}
	if g.LinkCount() != 2 {
		t.Fatalf("expected exactly 2 links, have %d", g.LinkCount())
	}

	adapter := g.FindNode(res.AdapterNodeID)
	if adapter == nil || adapter.TemplateKey != "Conv_FloatToString" {
		t.Fatal("adapter node missing or wrong template")
	}
	// Midpoint placement.
	if adapter.X != 100 {
		t.Errorf("adapter X = %v, want midpoint 100", adapter.X)
	}

	// Type-safety of stored links: no direct float -> string edge exists.
	for _, n := range g.Nodes() {
		for _, p := range n.Pins {
			for _, id := range p.LinkIDs {
				l := g.FindLink(id)
				if l.Source.Type != l.Target.Type {
					t.Errorf("mismatched stored link %s -> %s",
						l.Source.Type, l.Target.Type)
				}
			}
		}
	}
}

func TestAdapterSpliceRollback(t *testing.T) {
	g, _ := newTestGraph()
	compat := NewEmptyTypeCompat()
	compat.Register(Float, String, "BrokenConv")
	w := NewWiringController(g, compat)

	c := g.AddNode("Const", 0, 0)
	sink := g.AddNode("StringSink", 200, 0)
	nodesBefore := g.NodeCount()

	res := w.TryConnect(mustPort(c, "out"), mustPort(sink, "text"))
	if res.Status != ConnectRejected {
		t.Fatalf("expected rejection, got %v", res.Status)
	}
	if g.NodeCount() != nodesBefore {
		t.Error("half-built adapter node not rolled back")
	}
	if g.LinkCount() != 0 {
		t.Error("links left behind by failed splice")
	}
}

func TestNoAdapterMeansRejected(t *testing.T) {
	g, _ := newTestGraph()
	w := NewWiringController(g, NewEmptyTypeCompat())
	c := g.AddNode("Const", 0, 0)
	sink := g.AddNode("StringSink", 200, 0)

	res := w.TryConnect(mustPort(c, "out"), mustPort(sink, "text"))
	if res.Status != ConnectRejected {
		t.Fatalf("expected rejection without adapter, got %v", res.Status)
	}
}

func TestContainerMismatchRejected(t *testing.T) {
	g, w := newTestGraph()
	arrSrc := g.AddNode("FloatArraySource", 0, 0)
	single := g.AddNode("Identity", 100, 0)

	// Direct path: same type, mismatched shapes.
	res := w.TryConnect(mustPort(arrSrc, "out"), mustPort(single, "in"))
	if res.Status != ConnectRejected {
		t.Fatalf("array -> single accepted: %v", res.Status)
	}
	if g.LinkCount() != 0 {
		t.Fatalf("expected no links, got %d", g.LinkCount())
	}
	if w.CanConnect(mustPort(arrSrc, "out"), mustPort(single, "in")) {
		t.Error("CanConnect reported true for mismatched containers")
	}

	// Matching array shapes still connect directly.
	arrSink := g.AddNode("FloatArraySink", 200, 0)
	res = w.TryConnect(mustPort(arrSrc, "out"), mustPort(arrSink, "in"))
	if res.Status != Connected {
		t.Fatalf("array -> array rejected: %s", res.Reason)
	}
}

func TestContainerMismatchBlocksAdapterSplice(t *testing.T) {
	g, w := newTestGraph()
	arrSrc := g.AddNode("FloatArraySource", 0, 0)
	arrSink := g.AddNode("StringArraySink", 200, 0)
	nodesBefore := g.NodeCount()

	// A float -> string adapter is configured, but its val_in/val_out
	// carry single values. Splicing it between array pins would store
	// links whose endpoints disagree on shape, so the attempt must be
	// rejected before the adapter path is even considered.
	res := w.TryConnect(mustPort(arrSrc, "out"), mustPort(arrSink, "text"))
	if res.Status != ConnectRejected {
		t.Fatalf("expected ConnectRejected, got %v", res.Status)
	}
	if g.NodeCount() != nodesBefore {
		t.Errorf("adapter node was created: %d nodes", g.NodeCount())
	}
	if g.LinkCount() != 0 {
		t.Errorf("expected no links, got %d", g.LinkCount())
	}
	if w.CanConnect(mustPort(arrSrc, "out"), mustPort(arrSink, "text")) {
		t.Error("CanConnect reported true across the adapter path")
	}
}

func TestCanConnectMirrorsTryConnect(t *testing.T) {
	g, w := newTestGraph()
	c := g.AddNode("Const", 0, 0)
	add := g.AddNode("Add", 100, 0)
	sink := g.AddNode("StringSink", 200, 0)

	if !w.CanConnect(mustPort(c, "out"), mustPort(add, "a")) {
		t.Error("direct match should be connectable")
	}
	if !w.CanConnect(mustPort(c, "out"), mustPort(sink, "text")) {
		t.Error("adapter-bridged pair should be connectable")
	}
	if w.CanConnect(mustPort(add, "a"), mustPort(add, "b")) {
		t.Error("two inputs should not be connectable")
	}
	if w.CanConnect(mustPort(add, "a"), mustPort(add, "out")) {
		t.Error("self-node pair should not be connectable")
	}
	if g.LinkCount() != 0 {
		t.Error("CanConnect mutated the graph")
	}
}

func TestBreakPinLinks(t *testing.T) {
	g, w := newTestGraph()
	c := g.AddNode("Const", 0, 0)
	add := g.AddNode("Add", 100, 0)
	add2 := g.AddNode("Add", 100, 100)
	w.TryConnect(mustPort(c, "out"), mustPort(add, "a"))
	w.TryConnect(mustPort(c, "out"), mustPort(add2, "a"))

	w.BreakPinLinks(mustPort(c, "out").ID)
	if g.LinkCount() != 0 {
		t.Fatalf("expected all links broken, have %d", g.LinkCount())
	}
	if mustPort(add, "a").Connected() || mustPort(add2, "a").Connected() {
		t.Error("targets still think they are connected")
	}
}
