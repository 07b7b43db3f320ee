package shapefetch

import (
	"bytes"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Record is a value proven to contain every field of its Shape. It is only
// produced by a successful validation pass; undeclared keys of the input are
// not carried over.
type Record struct {
	shape  *Shape
	values map[string]any
	nested map[string][]Record
}

// Shape returns the descriptor the record was validated against.
func (r Record) Shape() *Shape { return r.shape }

// Get returns the value of a declared field. The value may be zero, empty,
// false or nil: presence is what was checked. For collection fields the
// elements are returned as []map[string]any. Undeclared names report false.
func (r Record) Get(name string) (any, bool) {
	if r.shape == nil {
		return nil, false
	}
	f, ok := r.shape.field(name)
	if !ok {
		return nil, false
	}
	if f.Elem != nil {
		return recordsToMaps(r.nested[name]), true
	}
	return r.values[name], true
}

// Records returns the validated elements of a declared collection field.
func (r Record) Records(name string) ([]Record, bool) {
	if r.shape == nil {
		return nil, false
	}
	f, ok := r.shape.field(name)
	if !ok || f.Elem == nil {
		return nil, false
	}
	return append([]Record(nil), r.nested[name]...), true
}

// Map returns a deep copy of the declared fields.
func (r Record) Map() map[string]any {
	if r.shape == nil {
		return nil
	}
	out := make(map[string]any, len(r.shape.fields))
	for _, f := range r.shape.fields {
		if f.Elem != nil {
			out[f.Name] = recordsToMaps(r.nested[f.Name])
			continue
		}
		out[f.Name] = copyValue(r.values[f.Name])
	}
	return out
}

// MarshalJSON renders the declared fields in declared order.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.shape == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.shape.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := gojson.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		var v any = r.values[f.Name]
		if f.Elem != nil {
			v = r.nested[f.Name]
		}
		b, err := gojson.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode binds the record into dst (a pointer) using JSON field mapping.
// A mismatch, such as a string where dst expects a number, returns a
// KindBind failure.
func (r Record) Decode(dst any) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return &Failure{Kind: KindBind, Path: "/", Cause: err}
	}
	if err := gojson.Unmarshal(data, dst); err != nil {
		return &Failure{Kind: KindBind, Path: "/", Cause: err}
	}
	return nil
}

// Bind maps validated records to T, preserving order. The first record that
// does not fit T stops the binding and is reported with its index.
func Bind[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for i, r := range recs {
		var v T
		if err := r.Decode(&v); err != nil {
			f, _ := AsFailure(err)
			return nil, &Failure{Kind: KindBind, Path: "/" + strconv.Itoa(i), Index: i, Cause: f.Cause}
		}
		out = append(out, v)
	}
	return out, nil
}

func recordsToMaps(recs []Record) []map[string]any {
	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = r.Map()
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = copyValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = copyValue(vv)
		}
		return s
	default:
		return v
	}
}
