package shapefetch

import "fmt"

// Validate narrows u into a Record of shape s. It fails with
// KindMalformedPayload when u is undefined, null or not an object, and with
// KindMissingField for the first declared field that is absent. Collection
// fields are checked element by element, stopping at the first failure.
//
// Validate is pure: the same inputs always yield the same result.
func Validate(u Untrusted, s *Shape) (Record, error) {
	if s == nil {
		return Record{}, fmt.Errorf("%w: nil shape", ErrInvalidShape)
	}
	rec, f := validateObject(u, s)
	if f != nil {
		return Record{}, f
	}
	return rec, nil
}

// ValidateCollection narrows a response of the form {"<field>": [ ... ]} into
// one Record per element, in order. The whole call fails on the first problem;
// no partial result is returned. An empty array is a valid, empty result.
func ValidateCollection(u Untrusted, field string, elem *Shape) ([]Record, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: nil element shape", ErrInvalidShape)
	}
	arr, f := collectionOf(u, field)
	if f != nil {
		return nil, f
	}
	recs, f := validateElements(arr, joinPointer("", field), elem)
	if f != nil {
		return nil, f
	}
	return recs, nil
}

// CheckAll reports every element failure of a collection response instead of
// stopping at the first one. Structural failures of the envelope (malformed
// payload, missing or non-array field) are returned alone. It returns nil when
// the payload is valid.
func CheckAll(u Untrusted, field string, elem *Shape) Failures {
	if elem == nil {
		return nil
	}
	arr, f := collectionOf(u, field)
	if f != nil {
		return Failures{f}
	}
	base := joinPointer("", field)
	var out Failures
	for i, ev := range arr {
		if _, f := validateObject(Wrap(ev), elem); f != nil {
			out = append(out, elementInvalid(base, i, f))
		}
	}
	return out
}

// collectionOf runs the envelope checks: keyed structure, exact field
// presence, ordered sequence.
func collectionOf(u Untrusted, field string) ([]any, *Failure) {
	obj, ok := u.object()
	if !ok {
		return nil, malformed("/")
	}
	v, present := obj[field]
	if !present {
		return nil, missingField("", field)
	}
	arr, ok := Wrap(v).sequence()
	if !ok {
		return nil, notACollection(joinPointer("", field), field)
	}
	return arr, nil
}

func validateObject(u Untrusted, s *Shape) (Record, *Failure) {
	obj, ok := u.object()
	if !ok {
		return Record{}, malformed("/")
	}
	rec := Record{shape: s, values: make(map[string]any, len(s.fields))}
	for _, fd := range s.fields {
		v, present := obj[fd.Name]
		if !present {
			return Record{}, missingField("", fd.Name)
		}
		if fd.Elem == nil {
			rec.values[fd.Name] = v
			continue
		}
		path := joinPointer("", fd.Name)
		arr, ok := Wrap(v).sequence()
		if !ok {
			return Record{}, notACollection(path, fd.Name)
		}
		recs, f := validateElements(arr, path, fd.Elem)
		if f != nil {
			return Record{}, f
		}
		if rec.nested == nil {
			rec.nested = make(map[string][]Record)
		}
		rec.nested[fd.Name] = recs
	}
	return rec, nil
}

func validateElements(arr []any, base string, elem *Shape) ([]Record, *Failure) {
	out := make([]Record, 0, len(arr))
	for i, ev := range arr {
		r, f := validateObject(Wrap(ev), elem)
		if f != nil {
			return nil, elementInvalid(base, i, f)
		}
		out = append(out, r)
	}
	return out, nil
}
