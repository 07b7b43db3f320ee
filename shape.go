package shapefetch

import (
	"errors"
	"fmt"

	js "github.com/reoring/shapefetch/jsonschema"
)

// ErrInvalidShape reports a descriptor that cannot be used for validation.
var ErrInvalidShape = errors.New("shapefetch: invalid shape")

// Field is one required entry of a Shape. A non-nil Elem marks a collection
// field: its value must be an array whose elements satisfy Elem.
type Field struct {
	Name string
	Elem *Shape

	collection bool
}

// IsCollection reports whether the field holds an array of shaped elements.
func (f Field) IsCollection() bool { return f.Elem != nil }

// Require declares a plain required field.
func Require(name string) Field { return Field{Name: name} }

// Collection declares a required array field whose elements must match elem.
func Collection(name string, elem *Shape) Field {
	return Field{Name: name, Elem: elem, collection: true}
}

// Fields declares several plain required fields at once, in order.
func Fields(names ...string) []Field {
	out := make([]Field, len(names))
	for i, n := range names {
		out[i] = Field{Name: n}
	}
	return out
}

// Shape is an immutable, ordered list of required fields. Fields are checked
// in declared order so the first missing field reported is deterministic.
type Shape struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewShape validates and freezes a descriptor. Field names must be non-empty
// and unique; collection fields need an element shape.
func NewShape(name string, fields ...Field) (*Shape, error) {
	s := &Shape{name: name, fields: make([]Field, 0, len(fields)), index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: %s: empty field name", ErrInvalidShape, s.label())
		}
		if f.collection && f.Elem == nil {
			return nil, fmt.Errorf("%w: %s: collection %q has no element shape", ErrInvalidShape, s.label(), f.Name)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidShape, s.label(), f.Name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustShape is like NewShape but panics on an invalid descriptor. Intended
// for package-level shape variables.
func MustShape(name string, fields ...Field) *Shape {
	s, err := NewShape(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the descriptive name given at construction (may be empty).
func (s *Shape) Name() string { return s.name }

// Fields returns a copy of the declared fields in order.
func (s *Shape) Fields() []Field { return append([]Field(nil), s.fields...) }

// Len returns the number of declared fields.
func (s *Shape) Len() int { return len(s.fields) }

// field looks up a declared field by name.
func (s *Shape) field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

func (s *Shape) label() string {
	if s.name == "" {
		return "shape"
	}
	return "shape " + s.name
}

// JSONSchema projects the shape into a JSON Schema document: an object whose
// required list follows declared order, with collection fields as arrays.
func (s *Shape) JSONSchema() *js.Schema {
	out := s.schema()
	out.Schema = js.Draft
	return out
}

// CollectionSchema projects a response that wraps elements of s under field.
func (s *Shape) CollectionSchema(field string) *js.Schema {
	return &js.Schema{
		Schema:     js.Draft,
		Type:       "object",
		Properties: map[string]*js.Schema{field: {Type: "array", Items: s.schema()}},
		Required:   []string{field},
	}
}

func (s *Shape) schema() *js.Schema {
	props := make(map[string]*js.Schema, len(s.fields))
	req := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Elem != nil {
			props[f.Name] = &js.Schema{Type: "array", Items: f.Elem.schema()}
		} else {
			props[f.Name] = &js.Schema{}
		}
		req = append(req, f.Name)
	}
	return &js.Schema{Title: s.name, Type: "object", Properties: props, Required: req}
}
