package shapefetch

import (
	"fmt"
	"reflect"
	"strings"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key. Priority: shapefetch:"name=..." > json tag name > field name;
// "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("shapefetch"); gt != "" {
		if gt == "-" {
			return "-"
		}
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i > 0 {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// isOptional reports whether a field is left out of the derived shape:
// json ",omitempty" or shapefetch:"optional".
func isOptional(sf reflect.StructField) bool {
	if gt := sf.Tag.Get("shapefetch"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			if strings.TrimSpace(p) == "optional" {
				return true
			}
		}
	}
	jt := sf.Tag.Get("json")
	return strings.Contains(jt, ",omitempty")
}

// ShapeOf derives a Shape from the exported fields of struct type T so the
// descriptor and the bound type cannot drift apart. Every exported field is
// required unless tagged optional; slices of structs become collection
// fields. Embedded structs are not flattened.
func ShapeOf[T any]() (*Shape, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	return shapeOfType(rt, map[reflect.Type]bool{})
}

// MustShapeOf is like ShapeOf but panics on error.
func MustShapeOf[T any]() *Shape {
	s, err := ShapeOf[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func shapeOfType(rt reflect.Type, visiting map[reflect.Type]bool) (*Shape, error) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidShape, rt)
	}
	if visiting[rt] {
		return nil, fmt.Errorf("%w: %s is recursive", ErrInvalidShape, rt)
	}
	visiting[rt] = true
	defer delete(visiting, rt)

	var fields []Field
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || isOptional(sf) {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "" || key == "-" {
			continue
		}
		if et, ok := structElem(sf.Type); ok {
			elem, err := shapeOfType(et, visiting)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Collection(key, elem))
			continue
		}
		fields = append(fields, Require(key))
	}
	return NewShape(strings.ToLower(rt.Name()), fields...)
}

// structElem returns the element struct type of []S or []*S.
func structElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Slice {
		return nil, false
	}
	et := t.Elem()
	for et.Kind() == reflect.Pointer {
		et = et.Elem()
	}
	return et, et.Kind() == reflect.Struct
}
