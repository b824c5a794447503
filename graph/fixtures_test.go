package graph

import "strconv"

// newTestRegistry builds the template catalog used across the core tests:
// a constant source, a float adder, a singleton result sink, conversion
// templates, and an identity node for cycle wiring.
func newTestRegistry() MapRegistry {
	return MapRegistry{
		"Const": {
			Pins: []PinSpec{
				{Port: "value", Name: "Value", Type: Float, Dir: In},
				{Port: "out", Name: "Out", Type: Float, Dir: Out},
			},
			Evaluate: func(inputs, literals map[string]Value) map[string]Value {
				return map[string]Value{"out": inputs["value"]}
			},
		},
		"Add": {
			Pins: []PinSpec{
				{Port: "a", Name: "A", Type: Float, Dir: In},
				{Port: "b", Name: "B", Type: Float, Dir: In},
				{Port: "out", Name: "Out", Type: Float, Dir: Out},
			},
			Evaluate: func(inputs, literals map[string]Value) map[string]Value {
				return map[string]Value{"out": coerceNumber(inputs["a"]) + coerceNumber(inputs["b"])}
			},
		},
		"Identity": {
			Pins: []PinSpec{
				{Port: "in", Name: "In", Type: Float, Dir: In},
				{Port: "out", Name: "Out", Type: Float, Dir: Out},
			},
			Evaluate: func(inputs, literals map[string]Value) map[string]Value {
				return map[string]Value{"out": inputs["in"]}
			},
		},
		"Result": {
			Singleton: true,
			Pins: []PinSpec{
				{Port: "final", Name: "Final", Type: Float, Dir: In},
			},
			Evaluate: func(inputs, literals map[string]Value) map[string]Value {
				return map[string]Value{"final": inputs["final"]}
			},
		},
		"StringSink": {
			Pins: []PinSpec{
				{Port: "text", Name: "Text", Type: String, Dir: In},
			},
			Evaluate: func(inputs, literals map[string]Value) map[string]Value {
				return map[string]Value{"text": inputs["text"]}
			},
		},
		"Conv_FloatToString": {
			Pins: []PinSpec{
				{Port: "val_in", Name: "In", Type: Float, Dir: In},
				{Port: "val_out", Name: "Out", Type: String, Dir: Out},
			},
			Evaluate: func(inputs, literals map[string]Value) map[string]Value {
				return map[string]Value{
					"val_out": strconv.FormatFloat(coerceNumber(inputs["val_in"]), 'g', -1, 64),
				}
			},
		},
		// Claims to convert but exposes none of the expected ports;
		// exercises the splice rollback path.
		"BrokenConv": {
			Pins: []PinSpec{
				{Port: "wrong", Name: "Wrong", Type: Float, Dir: In},
			},
		},
		"FloatArraySource": {
			Pins: []PinSpec{
				{Port: "out", Name: "Out", Type: Float, Dir: Out, Container: Array},
			},
		},
		"FloatArraySink": {
			Pins: []PinSpec{
				{Port: "in", Name: "In", Type: Float, Dir: In, Container: Array},
			},
		},
		"StringArraySink": {
			Pins: []PinSpec{
				{Port: "text", Name: "Text", Type: String, Dir: In, Container: Array},
			},
		},
		"Event": {
			Pins: []PinSpec{
				{Port: "exec_out", Name: "Exec", Type: Exec, Dir: Out},
			},
		},
		"Action": {
			Pins: []PinSpec{
				{Port: "exec_in", Name: "Exec", Type: Exec, Dir: In},
			},
		},
	}
}

// newTestGraph returns a graph over the test registry with a fresh
// wiring controller.
func newTestGraph() (*GraphStore, *WiringController) {
	g := NewGraphStore(newTestRegistry())
	return g, NewWiringController(g, NewTypeCompat())
}

// mustPort panics if the fixture node lacks the port; call sites then
// read like the scenario they build.
func mustPort(n *Node, port string) *Pin {
	p := n.FindPort(port)
	if p == nil {
		panic("fixture node missing port " + port)
	}
	return p
}
