package shapefetch_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	shapefetch "github.com/reoring/shapefetch"
)

func TestDecode_EmptyIsUndefined(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		u, err := shapefetch.DecodeBytes([]byte(in))
		if err != nil {
			t.Fatalf("empty input must not error, got %v", err)
		}
		if u.Defined() || u.Kind() != shapefetch.ValueUndefined {
			t.Fatalf("want undefined, got %s", u.Kind())
		}
	}
}

func TestDecode_Kinds(t *testing.T) {
	cases := map[string]shapefetch.ValueKind{
		`null`:    shapefetch.ValueNull,
		`{}`:      shapefetch.ValueObject,
		`[]`:      shapefetch.ValueArray,
		`"s"`:     shapefetch.ValueString,
		`12.5e3`:  shapefetch.ValueNumber,
		`true`:    shapefetch.ValueBool,
		`{"a":1}`: shapefetch.ValueObject,
	}
	for in, want := range cases {
		u, err := shapefetch.DecodeBytes([]byte(in))
		if err != nil {
			t.Fatalf("%s: unexpected err: %v", in, err)
		}
		if got := u.Kind(); got != want {
			t.Fatalf("%s: want %s got %s", in, want, got)
		}
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	for _, in := range []string{`{"decks":`, `{"decks":[}`, `{} {}`, `nope`} {
		_, err := shapefetch.DecodeBytes([]byte(in))
		if !shapefetch.IsKind(err, shapefetch.KindDecode) {
			t.Fatalf("%q: want decode_error, got %v", in, err)
		}
	}
}

func TestDecode_DuplicateKey(t *testing.T) {
	in := []byte(`{"decks":[{"id":1,"id":2}]}`)

	if _, err := shapefetch.DecodeBytes(in); err != nil {
		t.Fatalf("duplicates are ignored by default, got %v", err)
	}

	_, err := shapefetch.DecodeBytes(in, shapefetch.DecodeOpt{OnDuplicateKey: shapefetch.Error})
	f, ok := shapefetch.AsFailure(err)
	if !ok || f.Kind != shapefetch.KindDecode {
		t.Fatalf("want decode failure, got %v", err)
	}
	if f.Path != "/decks/0/id" {
		t.Fatalf("want path=/decks/0/id, got %s", f.Path)
	}

	var warned []*shapefetch.Failure
	u, err := shapefetch.DecodeBytes(in, shapefetch.DecodeOpt{
		OnDuplicateKey: shapefetch.Warn,
		OnWarn:         func(f *shapefetch.Failure) { warned = append(warned, f) },
	})
	if err != nil || !u.Defined() {
		t.Fatalf("warn mode must still decode, got %v", err)
	}
	if len(warned) != 1 || warned[0].Path != "/decks/0/id" {
		t.Fatalf("want one warning at /decks/0/id, got %v", warned)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	_, err := shapefetch.DecodeBytes([]byte(`{"a":{"b":{"c":1}}}`), shapefetch.DecodeOpt{MaxDepth: 2})
	f, ok := shapefetch.AsFailure(err)
	if !ok || f.Path != "/a/b" {
		t.Fatalf("want depth failure at /a/b, got %v", err)
	}
	if _, err := shapefetch.DecodeBytes([]byte(`{"a":{"b":1}}`), shapefetch.DecodeOpt{MaxDepth: 2}); err != nil {
		t.Fatalf("depth 2 should pass, got %v", err)
	}
}

func TestDecode_MaxBytes(t *testing.T) {
	body := `{"decks":[]}` + strings.Repeat(" ", 64)
	opt := shapefetch.DecodeOpt{MaxBytes: 16}

	_, err := shapefetch.DecodeBytes([]byte(body), opt)
	if f, ok := shapefetch.AsFailure(err); !ok || !errors.Is(f, shapefetch.ErrTooLarge) {
		t.Fatalf("want too large, got %v", err)
	}
	_, err = shapefetch.DecodeReader(bytes.NewReader([]byte(body)), opt)
	if !errors.Is(err, shapefetch.ErrTooLarge) {
		t.Fatalf("reader: want too large, got %v", err)
	}
	if _, err := shapefetch.DecodeReader(strings.NewReader(`{"decks":[]}`), opt); err != nil {
		t.Fatalf("small body should pass, got %v", err)
	}
}
