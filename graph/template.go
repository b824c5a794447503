package graph

// PinSpec declares one pin of a template: its node-relative port name, data
// type, direction, container shape, and literal default.
type PinSpec struct {
	// Port is the node-relative pin identifier (e.g. "a", "val_in").
	// Instantiated pins qualify it with the owning node's ID.
	Port string

	// Name is the human-readable label shown next to the pin.
	Name string

	// Type is the pin's data type tag.
	Type DataType

	// Dir is the pin's direction.
	Dir Direction

	// Container is the pin's container shape. Zero value is Single.
	Container Multiplicity

	// Default seeds the pin's literal at instantiation. If nil, a
	// type-derived default is used (false / 0 / 0.0 / "").
	Default Value
}

// EvalFunc is a template's pure evaluation function.
//
// inputs holds one entry per non-exec input port: the value resolved by
// following links backward through the graph, with the node's literal
// substituted for any unconnected (or cyclic) input. literals holds the
// node's raw literal values keyed by port, for templates that distinguish
// "connected" from "typed in" (e.g. a sink with a mode switch).
//
// The returned map is keyed by output port. Single-output templates return
// a one-entry map. Implementations must be pure: no side effects, no
// reliance on evaluation order.
type EvalFunc func(inputs map[string]Value, literals map[string]Value) map[string]Value

// Template is the external, immutable definition a Node is instantiated
// from. The core reads templates at instantiation and synchronization time
// and never mutates the registry.
type Template struct {
	// Pins declares the template's pin shapes in display order.
	Pins []PinSpec

	// Evaluate computes the node's outputs from its resolved inputs.
	// May be nil for templates that only exist structurally (e.g. reroute
	// or comment nodes); such nodes evaluate to no values.
	Evaluate EvalFunc

	// Singleton restricts the graph to at most one instance of this
	// template (e.g. the material result node).
	Singleton bool
}

// TemplateRegistry resolves template keys to templates.
//
// The registry is an external collaborator: the catalog of available node
// types and their evaluation functions lives outside the core. It is passed
// explicitly into GraphStore rather than reached through a package global.
type TemplateRegistry interface {
	// Get returns the template for key, and whether it exists.
	Get(key string) (Template, bool)
}

// MapRegistry is a TemplateRegistry backed by a plain map.
//
// Suitable for tests and for hosts that assemble their catalog in code:
//
//	reg := graph.MapRegistry{
//	    "Const": {Pins: ..., Evaluate: ...},
//	    "Add":   {Pins: ..., Evaluate: ...},
//	}
type MapRegistry map[string]Template

// Get implements TemplateRegistry.
func (r MapRegistry) Get(key string) (Template, bool) {
	t, ok := r[key]
	return t, ok
}
