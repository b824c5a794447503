// Package graph provides the core dataflow graph engine for WireGraph-Go.
package graph

import "strings"

// Value is a dynamically typed value flowing through the graph.
//
// Pins carry Values as literals when unconnected and as resolved results
// during evaluation. The concrete Go type depends on the pin's DataType:
//   - Float: float64
//   - Int: int
//   - Bool: bool
//   - String: string
//   - Float2/Float3/Float4: []float64
//   - Everything else: whatever the producing template chooses
type Value = interface{}

// NodeID uniquely identifies a node within a GraphStore.
type NodeID string

// PinID uniquely identifies a pin within a GraphStore.
//
// Pin IDs are qualified with the owning node's ID ("<nodeID>-<port>") so
// they can be used as global lookup keys. The node-relative port name is
// kept separately on the Pin (see Pin.Port); no string surgery on the
// composite ID is ever required.
type PinID string

// LinkID uniquely identifies a link within a GraphStore.
type LinkID string

// Direction indicates whether a pin consumes or produces values.
type Direction int

const (
	// In pins consume values from at most one incoming link (exec pins
	// excepted, which accept unbounded fan-in).
	In Direction = iota

	// Out pins produce values with unbounded fan-out.
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// ParseDirection converts a serialized direction tag ("in"/"out") back to
// a Direction. Unknown tags parse as In.
func ParseDirection(tag string) Direction {
	if strings.EqualFold(tag, "out") {
		return Out
	}
	return In
}

// Multiplicity is the container shape a pin carries: a single value, or an
// array, set, or map of its data type. Both endpoints of a link must agree.
type Multiplicity int

const (
	Single Multiplicity = iota
	Array
	SetContainer
	MapContainer
)

func (m Multiplicity) String() string {
	switch m {
	case Array:
		return "array"
	case SetContainer:
		return "set"
	case MapContainer:
		return "map"
	default:
		return "single"
	}
}

// ParseMultiplicity converts a serialized container tag back to a
// Multiplicity. Unknown tags parse as Single.
func ParseMultiplicity(tag string) Multiplicity {
	switch strings.ToLower(tag) {
	case "array":
		return Array
	case "set":
		return SetContainer
	case "map":
		return MapContainer
	default:
		return Single
	}
}

// typeKind enumerates the closed set of built-in pin data types.
type typeKind int

const (
	kindFloat typeKind = iota
	kindFloat2
	kindFloat3
	kindFloat4
	kindInt
	kindBool
	kindString
	kindExec
	kindSubstrate
	kindMaterialAttributes
	kindTexture2D
	kindWildcard
	kindCustom
)

// DataType is the type tag carried by a pin.
//
// It is a closed enum (Float, Int, Bool, Exec, ...) plus an explicit
// extension variant created with CustomType. DataType is comparable and is
// used directly as a map key in the adapter table.
type DataType struct {
	kind typeKind
	name string // set only for kindCustom
}

// Built-in pin data types.
var (
	Float              = DataType{kind: kindFloat}
	Float2             = DataType{kind: kindFloat2}
	Float3             = DataType{kind: kindFloat3}
	Float4             = DataType{kind: kindFloat4}
	Int                = DataType{kind: kindInt}
	Bool               = DataType{kind: kindBool}
	String             = DataType{kind: kindString}
	Exec               = DataType{kind: kindExec}
	Substrate          = DataType{kind: kindSubstrate}
	MaterialAttributes = DataType{kind: kindMaterialAttributes}
	Texture2D          = DataType{kind: kindTexture2D}
	Wildcard           = DataType{kind: kindWildcard}
)

// CustomType creates an extension data type with the given tag.
//
// Custom types only direct-match themselves; adapters for them are
// registered in the adapter table like any other conversion.
func CustomType(name string) DataType {
	return DataType{kind: kindCustom, name: strings.ToLower(name)}
}

// IsExec reports whether the type is the execution-flow type.
func (t DataType) IsExec() bool { return t.kind == kindExec }

// IsWildcard reports whether the type matches any other type directly.
func (t DataType) IsWildcard() bool { return t.kind == kindWildcard }

// IsNumeric reports whether literals of this type are parsed numerically.
func (t DataType) IsNumeric() bool {
	switch t.kind {
	case kindFloat, kindFloat2, kindFloat3, kindFloat4, kindInt:
		return true
	default:
		return false
	}
}

func (t DataType) String() string {
	switch t.kind {
	case kindFloat:
		return "float"
	case kindFloat2:
		return "float2"
	case kindFloat3:
		return "float3"
	case kindFloat4:
		return "float4"
	case kindInt:
		return "int"
	case kindBool:
		return "bool"
	case kindString:
		return "string"
	case kindExec:
		return "exec"
	case kindSubstrate:
		return "substrate"
	case kindMaterialAttributes:
		return "materialattributes"
	case kindTexture2D:
		return "texture2d"
	case kindWildcard:
		return "wildcard"
	default:
		return t.name
	}
}

// ParseDataType converts a serialized type tag back to a DataType.
//
// Tags are matched case-insensitively. A tag outside the built-in set
// parses as a custom type rather than failing, so documents written by a
// newer template catalog still load.
func ParseDataType(tag string) DataType {
	switch strings.ToLower(tag) {
	case "float":
		return Float
	case "float2":
		return Float2
	case "float3":
		return Float3
	case "float4":
		return Float4
	case "int":
		return Int
	case "bool":
		return Bool
	case "string":
		return String
	case "exec":
		return Exec
	case "substrate":
		return Substrate
	case "materialattributes":
		return MaterialAttributes
	case "texture2d":
		return Texture2D
	case "wildcard":
		return Wildcard
	default:
		return CustomType(tag)
	}
}
