package shapefetch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/shapefetch/i18n"
)

// Failure codes (exported consts for IDE completion and stable matching).
const (
	CodeTransport        = "transport_error"
	CodeDecode           = "decode_error"
	CodeMalformedPayload = "malformed_payload"
	CodeMissingField     = "missing_field"
	CodeNotACollection   = "not_a_collection"
	CodeElementInvalid   = "element_invalid"
	CodeBind             = "bind_error"
)

// Kind discriminates failures so callers can tell a network problem from a
// shape problem from a field-name typo.
type Kind int

const (
	KindTransport        Kind = iota + 1 // The transport could not deliver a body.
	KindDecode                           // The body is not well-formed JSON or broke a decode limit.
	KindMalformedPayload                 // The value is undefined, null, or not an object.
	KindMissingField                     // A required field is absent.
	KindNotACollection                   // A collection field does not hold an array.
	KindElementInvalid                   // An element of a collection failed its shape.
	KindBind                             // A validated record did not fit the caller's type.
)

var kindCodes = map[Kind]string{
	KindTransport:        CodeTransport,
	KindDecode:           CodeDecode,
	KindMalformedPayload: CodeMalformedPayload,
	KindMissingField:     CodeMissingField,
	KindNotACollection:   CodeNotACollection,
	KindElementInvalid:   CodeElementInvalid,
	KindBind:             CodeBind,
}

// Code returns the stable string code of the kind.
func (k Kind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return "unknown"
}

func (k Kind) String() string { return k.Code() }

// Failure describes the first expectation that was not met.
type Failure struct {
	Kind Kind
	// Path is a JSON Pointer into the payload ("/" for the document root),
	// for example /decks/2/title.
	Path string
	// Field names the missing or offending field. For KindElementInvalid it is
	// the innermost missing field; empty when the element itself was not an
	// object.
	Field string
	// Index is the element position for KindElementInvalid and KindBind.
	Index int
	// Resource is the identifier that was fetched, when known.
	Resource string
	// Cause is the underlying error (transport error, decoder error, or the
	// element-relative Failure for KindElementInvalid).
	Cause error
}

// Code returns the stable string code for the failure kind.
func (f *Failure) Code() string { return f.Kind.Code() }

// Message returns the translated, human readable description.
func (f *Failure) Message() string {
	data := map[string]string{"field": f.Field}
	if f.Kind == KindElementInvalid || f.Kind == KindBind {
		data["index"] = strconv.Itoa(f.Index)
	}
	return i18n.T(f.Code(), data)
}

// Error renders "code at /path: message", followed by the resource and the
// cause when present.
func (f *Failure) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s at %s: %s", f.Code(), pathOrRoot(f.Path), f.Message())
	if f.Resource != "" {
		fmt.Fprintf(b, " (resource %s)", f.Resource)
	}
	if f.Cause != nil {
		var inner *Failure
		if !errors.As(f.Cause, &inner) {
			fmt.Fprintf(b, ": %v", f.Cause)
		}
	}
	return b.String()
}

func (f *Failure) Unwrap() error { return f.Cause }

// AsFailure extracts a *Failure from an error using errors.As internally.
func AsFailure(err error) (*Failure, bool) {
	if err == nil {
		return nil, false
	}
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err carries a Failure of the given kind at its top.
func IsKind(err error, k Kind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == k
}

// Failures is an ordered collection of failures that implements error.
type Failures []*Failure

// Error summarizes the first few failures.
func (fs Failures) Error() string {
	if len(fs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(fs), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", fs[i].Code(), pathOrRoot(fs[i].Path))
	}
	if len(fs) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(fs))
	}
	return b.String()
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// ---- constructors used by the validator ----

func malformed(path string) *Failure {
	return &Failure{Kind: KindMalformedPayload, Path: pathOrRoot(path)}
}

func missingField(base, name string) *Failure {
	return &Failure{Kind: KindMissingField, Path: joinPointer(base, name), Field: name}
}

func notACollection(path, name string) *Failure {
	return &Failure{Kind: KindNotACollection, Path: path, Field: name}
}

// elementInvalid rebases an element-relative failure under base/index.
func elementInvalid(base string, index int, inner *Failure) *Failure {
	elem := base + "/" + strconv.Itoa(index)
	p := inner.Path
	if p == "" || p == "/" {
		p = elem
	} else {
		p = elem + p
	}
	return &Failure{Kind: KindElementInvalid, Path: p, Field: inner.Field, Index: index, Cause: inner}
}

// stamp records the resource on a failure produced for it.
func stamp(err error, resource string) error {
	if f, ok := AsFailure(err); ok && f.Resource == "" {
		f.Resource = resource
	}
	return err
}
