// Package shapefile loads shapes from YAML documents:
//
//	name: deck
//	fields:
//	  - userId
//	  - title
//	  - name: cards
//	    elements:
//	      name: card
//	      fields: [front, back]
//
// A field is either a plain name or a mapping with a name and an elements
// shape, which makes it a collection field. Errors carry the line of the
// offending YAML node.
package shapefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	shapefetch "github.com/reoring/shapefetch"
)

// Error reports an invalid shape document.
type Error struct {
	File string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *Error) Unwrap() error { return shapefetch.ErrInvalidShape }

// Load reads and parses the shape file at path.
func Load(path string) (*shapefetch.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	var se *Error
	if errors.As(err, &se) {
		se.File = path
	}
	return s, err
}

// Parse builds a shape from a single YAML document.
func Parse(data []byte) (*shapefetch.Shape, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one YAML document from r and builds a shape from it.
func Decode(r io.Reader) (*shapefetch.Shape, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Line: 1, Msg: "empty document"}
		}
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	return shapeFrom(root)
}

func shapeFrom(n *yaml.Node) (*shapefetch.Shape, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "shape must be a mapping with name and fields")
	}
	var (
		name   string
		fields []shapefetch.Field
		seen   bool
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case "name":
			if v.Kind != yaml.ScalarNode {
				return nil, errorf(v, "name must be a string")
			}
			name = v.Value
		case "fields":
			if v.Kind != yaml.SequenceNode {
				return nil, errorf(v, "fields must be a list")
			}
			seen = true
			names := map[string]int{}
			for _, item := range v.Content {
				f, err := fieldFrom(item)
				if err != nil {
					return nil, err
				}
				if line, dup := names[f.Name]; dup {
					return nil, errorf(item, "field %q already declared on line %d", f.Name, line)
				}
				names[f.Name] = item.Line
				fields = append(fields, f)
			}
		default:
			return nil, errorf(k, "unknown key %q", k.Value)
		}
	}
	if !seen {
		return nil, errorf(n, "shape %q has no fields", name)
	}
	s, err := shapefetch.NewShape(name, fields...)
	if err != nil {
		return nil, errorf(n, "%v", err)
	}
	return s, nil
}

func fieldFrom(n *yaml.Node) (shapefetch.Field, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return shapefetch.Field{}, errorf(n, "empty field name")
		}
		return shapefetch.Require(n.Value), nil
	case yaml.MappingNode:
		var (
			name string
			elem *shapefetch.Shape
		)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			switch k.Value {
			case "name":
				name = v.Value
			case "elements":
				s, err := shapeFrom(v)
				if err != nil {
					return shapefetch.Field{}, err
				}
				elem = s
			default:
				return shapefetch.Field{}, errorf(k, "unknown field key %q", k.Value)
			}
		}
		if name == "" {
			return shapefetch.Field{}, errorf(n, "field mapping needs a name")
		}
		if elem == nil {
			return shapefetch.Require(name), nil
		}
		return shapefetch.Collection(name, elem), nil
	default:
		return shapefetch.Field{}, errorf(n, "field must be a name or a mapping")
	}
}

func errorf(n *yaml.Node, format string, args ...any) *Error {
	return &Error{Line: n.Line, Msg: fmt.Sprintf(format, args...)}
}
