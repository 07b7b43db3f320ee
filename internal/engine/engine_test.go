package engine

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

type sliceSource struct {
	toks []Token
	i    int
}

func (s *sliceSource) NextToken() (Token, error) {
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *sliceSource) Location() int64 { return int64(s.i) }

func src(toks ...Token) *sliceSource { return &sliceSource{toks: toks} }

func key(s string) Token { return Token{Kind: KindKey, String: s} }
func str(s string) Token { return Token{Kind: KindString, String: s} }
func num(s string) Token { return Token{Kind: KindNumber, Number: s} }
func tk(k Kind) Token { return Token{Kind: k} }
func boolean(b bool) Token { return Token{Kind: KindBool, Bool: b} }

func TestBuildValue(t *testing.T) {
	v, err := BuildValue(src(
		tk(KindBeginObject),
		key("a"), tk(KindBeginArray), num("1"), str("x"), boolean(true), tk(KindNull), tk(KindEndArray),
		key("b"), tk(KindBeginArray), tk(KindEndArray),
		tk(KindEndObject),
	))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m := v.(map[string]any)
	a := m["a"].([]any)
	if len(a) != 4 || a[1] != "x" || a[2] != true || a[3] != nil {
		t.Fatalf("unexpected array %#v", a)
	}
	if b, ok := m["b"].([]any); !ok || b == nil {
		t.Fatalf("empty array must be non-nil, got %#v", m["b"])
	}
}

func TestBuildValue_Errors(t *testing.T) {
	if _, err := BuildValue(src()); !errors.Is(err, ErrEmpty) {
		t.Fatalf("want ErrEmpty, got %v", err)
	}
	if _, err := BuildValue(src(tk(KindBeginObject), key("a"))); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("want unexpected EOF, got %v", err)
	}
	if _, err := BuildValue(src(tk(KindBeginArray), tk(KindEndObject))); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("want unexpected EOF on mismatched close, got %v", err)
	}
	if _, err := BuildValue(src(tk(KindNull), tk(KindNull))); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("want trailing data, got %v", err)
	}
}

func TestEnforcement_DuplicateKey(t *testing.T) {
	toks := func() *sliceSource {
		return src(
			tk(KindBeginObject), key("list"), tk(KindBeginArray),
			tk(KindBeginObject), key("id"), num("1"), tk(KindEndObject),
			tk(KindBeginObject), key("id"), num("1"), key("id"), num("2"), tk(KindEndObject),
			tk(KindEndArray), tk(KindEndObject),
		)
	}

	_, err := BuildValue(WrapWithEnforcement(toks(), EnforceOptions{OnDuplicate: DupError}))
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != CodeDuplicateKey || ie.Path != "/list/1/id" {
		t.Fatalf("want duplicate at /list/1/id, got %v", err)
	}

	var seen []SimpleIssue
	v, err := BuildValue(WrapWithEnforcement(toks(), EnforceOptions{
		OnDuplicate: DupWarn,
		IssueSink:   func(si SimpleIssue) { seen = append(seen, si) },
	}))
	if err != nil {
		t.Fatalf("warn must not fail: %v", err)
	}
	if len(seen) != 1 || seen[0].Path != "/list/1/id" {
		t.Fatalf("want one issue, got %v", seen)
	}
	second := v.(map[string]any)["list"].([]any)[1].(map[string]any)
	if fmt.Sprint(second["id"]) != "2" {
		t.Fatalf("last occurrence must win, got %v", second["id"])
	}
}

func TestEnforcement_MaxDepth(t *testing.T) {
	deep := func() *sliceSource {
		return src(
			tk(KindBeginArray), tk(KindBeginArray), tk(KindBeginObject), key("k"), str("v"), tk(KindEndObject), tk(KindEndArray), tk(KindEndArray),
		)
	}
	_, err := BuildValue(WrapWithEnforcement(deep(), EnforceOptions{MaxDepth: 2}))
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != CodeMaxDepth || ie.Path != "/0/0" {
		t.Fatalf("want max depth at /0/0, got %v", err)
	}
	if _, err := BuildValue(WrapWithEnforcement(deep(), EnforceOptions{MaxDepth: 3})); err != nil {
		t.Fatalf("depth 3 fits, got %v", err)
	}
}

func TestEscapePointerToken(t *testing.T) {
	if got := EscapePointerToken("a/b~c"); got != "a~1b~0c" {
		t.Fatalf("got %s", got)
	}
	if (EnforceOptions{}).Enabled() {
		t.Fatalf("zero options enforce nothing")
	}
}
