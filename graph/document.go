package graph

import "encoding/json"

// Document is the serialized form of one graph, produced and consumed by
// external persistence. The core's responsibility is round-tripping:
// Export always yields a loadable document, and ImportDocument tolerates
// documents written against a different template catalog.
//
// Pin IDs inside a node entry are node-relative port names; link endpoint
// IDs are fully qualified pin IDs.
type Document struct {
	Nodes []DocumentNode `json:"nodes"`
	Links []DocumentLink `json:"links"`
}

// DocumentNode is one serialized node.
type DocumentNode struct {
	ID          string        `json:"id"`
	TemplateKey string        `json:"templateKey"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Pins        []DocumentPin `json:"pins"`
}

// DocumentPin is one serialized pin.
type DocumentPin struct {
	ID            string `json:"id"` // node-relative port name
	Name          string `json:"name"`
	Type          string `json:"type"`
	Dir           string `json:"dir"`
	ContainerType string `json:"containerType"`
	LiteralValue  Value  `json:"literalValue"`
	IsCustom      bool   `json:"isCustom"`
}

// DocumentLink is one serialized link.
type DocumentLink struct {
	ID         string `json:"id"`
	StartPinID string `json:"startPinId"`
	EndPinID   string `json:"endPinId"`
}

// DecodeDocument parses a serialized document.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &GraphError{
			Message: "failed to decode document: " + err.Error(),
			Code:    "DOCUMENT_DECODE",
			Cause:   err,
		}
	}
	return &doc, nil
}

// Encode serializes the document as JSON.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, &GraphError{
			Message: "failed to encode document: " + err.Error(),
			Code:    "DOCUMENT_ENCODE",
			Cause:   err,
		}
	}
	return data, nil
}

// Export serializes the graph's current state.
func (g *GraphStore) Export() *Document {
	doc := &Document{
		Nodes: make([]DocumentNode, 0, len(g.nodes)),
		Links: make([]DocumentLink, 0, len(g.links)),
	}
	for _, n := range g.nodes {
		dn := DocumentNode{
			ID:          string(n.ID),
			TemplateKey: n.TemplateKey,
			X:           n.X,
			Y:           n.Y,
		}
		for _, p := range n.Pins {
			dn.Pins = append(dn.Pins, DocumentPin{
				ID:            p.Port,
				Name:          p.Name,
				Type:          p.Type.String(),
				Dir:           p.Dir.String(),
				ContainerType: p.Container.String(),
				LiteralValue:  n.Literals[p.ID],
				IsCustom:      p.Custom,
			})
		}
		doc.Nodes = append(doc.Nodes, dn)
	}
	for _, l := range g.links {
		doc.Links = append(doc.Links, DocumentLink{
			ID:         string(l.ID),
			StartPinID: string(l.Source.ID),
			EndPinID:   string(l.Target.ID),
		})
	}
	return doc
}

// ImportDocument loads a document into the graph.
//
// Loading is tolerant: a node whose templateKey is missing from
// the registry, a link whose endpoint pin cannot be resolved, and a link
// that would violate a store invariant (direction, type match, occupied
// single input) are each skipped with a "load_warning" event; the rest
// of the document still loads.
//
// Node IDs from the document are preserved so links resolve; an ID that
// already exists in the graph is skipped with a warning. Template-declared
// pins take their shape from the current registry (the document only
// contributes literals); custom pins are rebuilt from the document.
func (g *GraphStore) ImportDocument(doc *Document) {
	for _, dn := range doc.Nodes {
		g.importNode(dn)
	}
	for _, dl := range doc.Links {
		g.importLink(dl)
	}
}

func (g *GraphStore) importNode(dn DocumentNode) {
	if g.nodes[NodeID(dn.ID)] != nil {
		g.warnSkip("node", dn.ID, "node ID already present")
		return
	}
	tpl, ok := g.registry.Get(dn.TemplateKey)
	if !ok {
		g.warnSkip("node", dn.ID, "unknown template: "+dn.TemplateKey)
		return
	}

	n := instantiate(NodeID(dn.ID), dn.TemplateKey, tpl, dn.X, dn.Y)
	for _, dp := range dn.Pins {
		if dp.IsCustom {
			p := n.addPinFromSpec(PinSpec{
				Port:      dp.ID,
				Name:      dp.Name,
				Type:      ParseDataType(dp.Type),
				Dir:       ParseDirection(dp.Dir),
				Container: ParseMultiplicity(dp.ContainerType),
			}, true)
			if !p.Type.IsExec() && dp.LiteralValue != nil {
				n.Literals[p.ID] = coerceLiteral(p.Type, dp.LiteralValue)
			}
			continue
		}
		p := n.FindPort(dp.ID)
		if p == nil {
			// Stale pin from an older template shape; its literal has
			// nowhere to go.
			g.warnSkip("pin", dn.ID+"-"+dp.ID, "pin not declared by template")
			continue
		}
		if !p.Type.IsExec() && dp.LiteralValue != nil {
			n.Literals[p.ID] = coerceLiteral(p.Type, dp.LiteralValue)
		}
	}
	g.nodes[n.ID] = n

	rev := g.markDirty()
	g.emitEvent(rev, n.ID, "", "node_added", map[string]interface{}{
		"template_key": dn.TemplateKey,
	})
}

func (g *GraphStore) importLink(dl DocumentLink) {
	source := g.FindPin(PinID(dl.StartPinID))
	target := g.FindPin(PinID(dl.EndPinID))
	if source == nil || target == nil {
		g.warnSkip("link", dl.ID, "endpoint pin cannot be resolved")
		return
	}
	if source.Dir != Out || target.Dir != In {
		g.warnSkip("link", dl.ID, "endpoint directions invalid")
		return
	}
	if source.Type != target.Type && !(source.Type.IsExec() && target.Type.IsExec()) &&
		!source.Type.IsWildcard() && !target.Type.IsWildcard() {
		g.warnSkip("link", dl.ID, "endpoint types do not match")
		return
	}
	if source.Container != target.Container {
		g.warnSkip("link", dl.ID, "endpoint container shapes do not match")
		return
	}
	if target.MaxLinks() == 1 && target.Connected() {
		g.warnSkip("link", dl.ID, "target input already connected")
		return
	}

	l := g.addLink(source, target)
	// Preserve the document's link ID when it does not collide, so a
	// save/load cycle is stable.
	if dl.ID != "" && g.links[LinkID(dl.ID)] == nil {
		g.rekeyLink(l, LinkID(dl.ID))
	}
	rev := g.markDirty()
	g.emitEvent(rev, "", l.ID, "link_created", nil)
}

// warnSkip emits a load warning for one skipped document entry.
func (g *GraphStore) warnSkip(kind, id, reason string) {
	g.emitEvent(0, "", "", "load_warning", map[string]interface{}{
		"kind":   kind,
		"id":     id,
		"reason": reason,
	})
}
