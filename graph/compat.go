package graph

import (
	"fmt"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// TypeCompat decides whether two pin types connect directly, via an
// adapter node, or not at all.
//
// Direct matching is fixed logic (equal types, exec/exec, wildcard), but
// the adapter table is data: conversions are registered pairs mapping to
// the template key of the conversion node to splice in. New conversions
// are configuration changes, not code changes; see LoadAdapterTable.
type TypeCompat struct {
	adapters map[typePair]string
}

type typePair struct {
	from DataType
	to   DataType
}

// NewTypeCompat creates a TypeCompat preloaded with the built-in adapter
// table. Use NewEmptyTypeCompat for a table with no conversions.
func NewTypeCompat() *TypeCompat {
	c := NewEmptyTypeCompat()
	for _, r := range defaultAdapters {
		c.Register(r.from, r.to, r.template)
	}
	return c
}

// NewEmptyTypeCompat creates a TypeCompat with an empty adapter table.
func NewEmptyTypeCompat() *TypeCompat {
	return &TypeCompat{adapters: make(map[typePair]string)}
}

// defaultAdapters is the built-in conversion table. Hosts extend or
// replace it via Register / LoadAdapterTable.
var defaultAdapters = []struct {
	from, to DataType
	template string
}{
	{Float, String, "Conv_FloatToString"},
	{Int, Float, "Conv_IntToFloat"},
	{Int, String, "Conv_IntToString"},
	{Bool, String, "Conv_BoolToString"},
	{Float, Float3, "Conv_FloatToVector3"},
	{Float3, Float4, "Conv_Vector3ToVector4"},
}

// IsDirectMatch reports whether a link between the two types needs no
// adapter: equal types, both exec, or either side a wildcard.
func (c *TypeCompat) IsDirectMatch(a, b DataType) bool {
	if a == b {
		return true
	}
	if a.IsExec() || b.IsExec() {
		// Exec only matches exec; an exec/data pairing is never direct.
		return a.IsExec() && b.IsExec()
	}
	return a.IsWildcard() || b.IsWildcard()
}

// AdapterFor returns the template key of the conversion node for a
// source→target type pairing, or "" when no adapter is configured.
func (c *TypeCompat) AdapterFor(source, target DataType) string {
	return c.adapters[typePair{from: source, to: target}]
}

// Register adds (or overwrites) a conversion in the adapter table.
func (c *TypeCompat) Register(source, target DataType, templateKey string) {
	c.adapters[typePair{from: source, to: target}] = templateKey
}

// adapterRule is the TOML shape of one conversion entry.
type adapterRule struct {
	From     string `koanf:"from"`
	To       string `koanf:"to"`
	Template string `koanf:"template"`
}

// LoadAdapterTable reads conversions from a TOML file and returns a
// TypeCompat holding exactly those conversions (the built-in table is not
// included; include its rows in the file if wanted).
//
// File format:
//
//	[[adapter]]
//	from = "float"
//	to = "string"
//	template = "Conv_FloatToString"
//
//	[[adapter]]
//	from = "int"
//	to = "float"
//	template = "Conv_IntToFloat"
//
// An entry with a missing field is an error; the table is all-or-nothing.
func LoadAdapterTable(path string) (*TypeCompat, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, &GraphError{
			Message: "failed to load adapter table: " + err.Error(),
			Code:    "ADAPTER_TABLE_LOAD",
			Cause:   err,
		}
	}

	var rules []adapterRule
	if err := k.Unmarshal("adapter", &rules); err != nil {
		return nil, &GraphError{
			Message: "failed to parse adapter table: " + err.Error(),
			Code:    "ADAPTER_TABLE_PARSE",
			Cause:   err,
		}
	}

	c := NewEmptyTypeCompat()
	for i, r := range rules {
		if r.From == "" || r.To == "" || r.Template == "" {
			return nil, &GraphError{
				Message: fmt.Sprintf("adapter entry %d is incomplete (from/to/template all required)", i),
				Code:    "ADAPTER_TABLE_ENTRY",
			}
		}
		c.Register(ParseDataType(r.From), ParseDataType(r.To), r.Template)
	}
	return c, nil
}
