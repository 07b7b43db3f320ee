// Package jsonschema holds the small JSON Schema subset shapes project into.
package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Keep this struct small and extend incrementally.
type Schema struct {
	// Core
	Schema string `json:"$schema,omitempty"`
	Title  string `json:"title,omitempty"`
	Type   string `json:"type,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`
}

// Draft is the dialect URI emitted for top-level documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"
