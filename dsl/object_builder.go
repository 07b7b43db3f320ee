package dsl

import (
	"fmt"

	shapefetch "github.com/reoring/shapefetch"
)

type objectBuilder struct {
	name   string
	fields []shapefetch.Field
	seen   map[string]struct{}
	err    error
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new builder for a shape called name.
func Object(name string) *objectBuilder {
	return &objectBuilder{name: name, seen: map[string]struct{}{}}
}

// Require appends plain required fields in the given order.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.add(shapefetch.Require(n))
	}
	return b
}

// Field starts a single field declaration.
func (b *objectBuilder) Field(name string) *fieldStep {
	return &fieldStep{b: b, name: name}
}

// Required declares the field as a plain required field.
func (f *fieldStep) Required() *objectBuilder {
	f.b.add(shapefetch.Require(f.name))
	return f.b
}

// Of declares the field as a required array whose elements match elem.
func (f *fieldStep) Of(elem *shapefetch.Shape) *objectBuilder {
	return f.b.Collection(f.name, elem)
}

// Collection appends a required array field whose elements match elem.
func (b *objectBuilder) Collection(name string, elem *shapefetch.Shape) *objectBuilder {
	if elem == nil && b.err == nil {
		b.err = fmt.Errorf("%w: %s: collection %q has no element shape", shapefetch.ErrInvalidShape, b.label(), name)
	}
	b.add(shapefetch.Collection(name, elem))
	return b
}

// CollectionOf is Collection with an element built in place.
func (b *objectBuilder) CollectionOf(name string, elem *objectBuilder) *objectBuilder {
	s, err := elem.Build()
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("%s.%s: %w", b.label(), name, err)
		}
		return b
	}
	return b.Collection(name, s)
}

// Build validates the declarations and returns the frozen shape.
func (b *objectBuilder) Build() (*shapefetch.Shape, error) {
	if b.err != nil {
		return nil, b.err
	}
	return shapefetch.NewShape(b.name, b.fields...)
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *shapefetch.Shape {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *objectBuilder) add(f shapefetch.Field) {
	if _, dup := b.seen[f.Name]; dup && b.err == nil {
		b.err = fmt.Errorf("%w: %s: field %q declared twice", shapefetch.ErrInvalidShape, b.label(), f.Name)
	}
	b.seen[f.Name] = struct{}{}
	b.fields = append(b.fields, f)
}

func (b *objectBuilder) label() string {
	if b.name == "" {
		return "object"
	}
	return b.name
}
