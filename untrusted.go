package shapefetch

import (
	gojson "github.com/goccy/go-json"

	eng "github.com/reoring/shapefetch/internal/engine"
)

// Untrusted is a decoded value whose shape has not been verified. It has no
// accessors: the only way to read from it is to pass it through Validate or
// ValidateCollection. The zero value is "undefined" (no value at all).
type Untrusted struct {
	v       any
	defined bool
}

// Wrap marks an already decoded value as untrusted. Objects are expected as
// map[string]any and arrays as []any, as produced by encoding/json-style
// decoding into any. nil is JSON null.
func Wrap(v any) Untrusted { return Untrusted{v: v, defined: true} }

// Defined reports whether a value was present at all. An empty body decodes
// to an undefined Untrusted.
func (u Untrusted) Defined() bool { return u.defined }

// Kind reports the JSON kind of the value for diagnostics. It grants no
// access to the content.
func (u Untrusted) Kind() ValueKind {
	if !u.defined {
		return ValueUndefined
	}
	switch u.v.(type) {
	case nil:
		return ValueNull
	case map[string]any:
		return ValueObject
	case []any:
		return ValueArray
	case string:
		return ValueString
	case gojson.Number, float64, float32, int, int64, int32, uint, uint64, uint32:
		return ValueNumber
	case bool:
		return ValueBool
	default:
		return ValueOther
	}
}

// object returns the keyed structure behind u, or false when u is undefined,
// null, or anything other than an object.
func (u Untrusted) object() (map[string]any, bool) {
	if !u.defined {
		return nil, false
	}
	m, ok := u.v.(map[string]any)
	return m, ok
}

// sequence returns the ordered elements behind u, or false when u is not an
// array. A JSON null is never a sequence; a typed nil []any is an empty one.
func (u Untrusted) sequence() ([]any, bool) {
	if !u.defined {
		return nil, false
	}
	s, ok := u.v.([]any)
	return s, ok
}

// ValueKind enumerates JSON value kinds plus "undefined".
type ValueKind int

const (
	ValueUndefined ValueKind = iota
	ValueNull
	ValueObject
	ValueArray
	ValueString
	ValueNumber
	ValueBool
	ValueOther
)

var valueKindNames = [...]string{"undefined", "null", "object", "array", "string", "number", "bool", "other"}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindNames) {
		return "other"
	}
	return valueKindNames[k]
}

func joinPointer(base, token string) string {
	return base + "/" + eng.EscapePointerToken(token)
}
