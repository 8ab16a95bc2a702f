// Package schema provides JSON Schema generation from Go types for MCP
// tool declarations.
package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	invopop "github.com/invopop/jsonschema"
)

// Reflector is configured for tool input schemas. DoNotReference
// inlines all definitions to avoid $ref, which MCP clients do not
// resolve uniformly.
var Reflector = &invopop.Reflector{
	DoNotReference: true,
}

// For creates an MCP-compatible JSON Schema from a Go type. The type
// should be a struct with json and jsonschema tags.
//
// Example:
//
//	type AskArgs struct {
//	    Messages []Message `json:"messages" jsonschema:"required,description=Array of conversation messages"`
//	}
//
//	s, err := schema.For[AskArgs]()
func For[T any]() (*jsonschema.Schema, error) {
	var zero T
	reflected := Reflector.Reflect(&zero)

	// The reflector and the MCP SDK use different schema types; a JSON
	// round trip converts between them.
	raw, err := json.Marshal(reflected)
	if err != nil {
		return nil, err
	}
	var out jsonschema.Schema
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MustFor is like For but panics on error. Useful for static tool
// declarations.
func MustFor[T any]() *jsonschema.Schema {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}
