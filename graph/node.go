package graph

import "strconv"

// Node is an instantiated graph vertex: a stable ID, a reference into the
// template registry, a canvas position, its pins, and a literal value per
// non-exec pin.
//
// Literals are authoritative only while a pin is unconnected, but they are
// preserved while the pin is connected so that breaking the link restores
// the last value the user typed rather than the template default.
type Node struct {
	ID          NodeID
	TemplateKey string
	X, Y        float64
	Pins        []*Pin

	// Literals maps pin ID to the pin's literal value. Exactly one entry
	// per non-exec pin at all times.
	Literals map[PinID]Value
}

// instantiate builds a node from a template at the given position.
//
// Pins are copied from the template's pin specs and literals are seeded
// from each spec's explicit default or a type-derived default. It never
// fails; unknown templates are rejected by GraphStore.AddNode before this
// is reached.
func instantiate(id NodeID, templateKey string, tpl Template, x, y float64) *Node {
	n := &Node{
		ID:          id,
		TemplateKey: templateKey,
		X:           x,
		Y:           y,
		Literals:    make(map[PinID]Value),
	}
	for _, spec := range tpl.Pins {
		p := n.addPinFromSpec(spec, false)
		if !p.Type.IsExec() {
			n.Literals[p.ID] = literalDefault(spec)
		}
	}
	return n
}

// addPinFromSpec appends a pin built from spec and returns it.
func (n *Node) addPinFromSpec(spec PinSpec, custom bool) *Pin {
	p := &Pin{
		ID:        qualifyPin(n.ID, spec.Port),
		Port:      spec.Port,
		Name:      spec.Name,
		Type:      spec.Type,
		Dir:       spec.Dir,
		Container: spec.Container,
		Custom:    custom,
		node:      n,
	}
	n.Pins = append(n.Pins, p)
	return p
}

// literalDefault returns spec.Default, or the type-derived zero when the
// template declares none: bool false, int 0, float 0.0, empty otherwise.
func literalDefault(spec PinSpec) Value {
	if spec.Default != nil {
		return spec.Default
	}
	switch spec.Type {
	case Bool:
		return false
	case Int:
		return 0
	case Float, Float2, Float3, Float4:
		return 0.0
	case String:
		return ""
	default:
		return nil
	}
}

// FindPin returns the pin with the given global ID, or nil.
func (n *Node) FindPin(id PinID) *Pin {
	for _, p := range n.Pins {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindPort returns the pin with the given node-relative port name, or nil.
func (n *Node) FindPort(port string) *Pin {
	for _, p := range n.Pins {
		if p.Port == port {
			return p
		}
	}
	return nil
}

// findPinByIdentity returns the pin matching (name, direction), or nil.
// Used by duplication to re-resolve endpoints across fresh instantiations.
func (n *Node) findPinByIdentity(name string, dir Direction) *Pin {
	for _, p := range n.Pins {
		if p.Name == name && p.Dir == dir {
			return p
		}
	}
	return nil
}

// InPins returns the node's input pins in declaration order.
func (n *Node) InPins() []*Pin {
	var pins []*Pin
	for _, p := range n.Pins {
		if p.Dir == In {
			pins = append(pins, p)
		}
	}
	return pins
}

// OutPins returns the node's output pins in declaration order.
func (n *Node) OutPins() []*Pin {
	var pins []*Pin
	for _, p := range n.Pins {
		if p.Dir == Out {
			pins = append(pins, p)
		}
	}
	return pins
}

// SetLiteral coerces raw according to the pin's data type and stores it as
// the pin's literal.
//
// Coercion never fails: unparsable numeric input coerces to 0 / 0.0,
// anything non-boolean coerces to false for bool pins, and other types
// pass through untouched. Setting a literal on an exec pin or an unknown
// pin is a no-op.
func (n *Node) SetLiteral(pinID PinID, raw Value) {
	p := n.FindPin(pinID)
	if p == nil || p.Type.IsExec() {
		return
	}
	n.Literals[pinID] = coerceLiteral(p.Type, raw)
}

// portLiterals returns the node's literals keyed by node-relative port
// name, the shape template evaluation functions consume.
func (n *Node) portLiterals() map[string]Value {
	out := make(map[string]Value, len(n.Literals))
	for _, p := range n.Pins {
		if v, ok := n.Literals[p.ID]; ok {
			out[p.Port] = v
		}
	}
	return out
}

// coerceLiteral converts raw to the representation expected for t.
func coerceLiteral(t DataType, raw Value) Value {
	switch t {
	case Bool:
		switch v := raw.(type) {
		case bool:
			return v
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return false
			}
			return b
		default:
			return false
		}
	case Int:
		return int(coerceNumber(raw))
	case Float:
		return coerceNumber(raw)
	default:
		return raw
	}
}

// coerceNumber extracts a float64 from raw, defaulting to 0 on anything
// unparsable.
func coerceNumber(raw Value) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
