// Package context assembles the final template context by decoding each
// resolved data source and deep-merging the results in argument order.
package context

import (
	"encoding/json"

	kmaps "github.com/knadh/koanf/maps"
	"gopkg.in/yaml.v3"
)

// Context is the tree-shaped value handed to the template renderer: string
// keys with scalar, slice, or nested map values. Nothing mutates a Context
// after Build returns it.
type Context map[string]interface{}

// Merge deep-merges addition into ctx. Nested maps merge key-wise and
// recursively; any other value is overwritten by the addition, so later
// sources win on scalar conflicts. The operation is not commutative:
// argument order is significant.
func Merge(ctx Context, addition map[string]interface{}) {
	kmaps.Merge(addition, ctx)
}

// JSON renders the context as an indented JSON document.
func (c Context) JSON() ([]byte, error) {
	return json.MarshalIndent(map[string]interface{}(c), "", "  ")
}

// YAML renders the context as a YAML document.
func (c Context) YAML() ([]byte, error) {
	return yaml.Marshal(map[string]interface{}(c))
}
