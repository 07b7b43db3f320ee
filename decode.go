package shapefetch

import (
	"bytes"
	"errors"
	"io"

	gojson "github.com/goccy/go-json"

	eng "github.com/reoring/shapefetch/internal/engine"
	drv "github.com/reoring/shapefetch/source/gojson"
)

// Severity expresses how a decode-time finding is treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bounds how an untrusted body is decoded.
type DecodeOpt struct {
	// OnDuplicateKey selects the treatment of repeated object keys. With
	// Ignore the last occurrence wins silently.
	OnDuplicateKey Severity
	// MaxDepth caps object/array nesting; 0 disables the check.
	MaxDepth int
	// MaxBytes caps the body size; 0 disables the check.
	MaxBytes int64
	// OnWarn receives findings reported at Warn severity.
	OnWarn func(*Failure)
}

// DecodeBytes decodes a JSON document into an Untrusted value. Empty input
// yields an undefined value and no error. Malformed JSON and limit violations
// return a *Failure of kind KindDecode.
func DecodeBytes(b []byte, opts ...DecodeOpt) (Untrusted, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 && int64(len(b)) > opt.MaxBytes {
		return Untrusted{}, truncated()
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return Untrusted{}, nil
	}
	// The streaming tokenizer does not check separators, so syntax is
	// verified on the whole document first.
	if !gojson.Valid(b) {
		return Untrusted{}, &Failure{Kind: KindDecode, Path: "/", Cause: syntaxError(b)}
	}
	return decodeSource(drv.NewBytes(b), opt)
}

// DecodeReader reads r to the end (at most MaxBytes+1 bytes when MaxBytes is
// set) and decodes it like DecodeBytes.
func DecodeReader(r io.Reader, opts ...DecodeOpt) (Untrusted, error) {
	opt := lastOpt(opts)
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Untrusted{}, &Failure{Kind: KindDecode, Path: "/", Cause: err}
	}
	return DecodeBytes(data, opt)
}

func syntaxError(b []byte) error {
	var probe any
	if err := gojson.Unmarshal(b, &probe); err != nil {
		return err
	}
	return ErrSyntax
}

func decodeSource(src eng.TokenSource, opt DecodeOpt) (Untrusted, error) {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
	}
	if opt.OnWarn != nil {
		eo.IssueSink = func(si eng.SimpleIssue) {
			opt.OnWarn(&Failure{Kind: KindDecode, Path: si.Path, Cause: eng.IssueError{SimpleIssue: si}})
		}
	}
	if eo.Enabled() {
		src = eng.WrapWithEnforcement(src, eo)
	}
	v, err := eng.BuildValue(src)
	if err != nil {
		if errors.Is(err, eng.ErrEmpty) {
			return Untrusted{}, nil
		}
		var ie eng.IssueError
		if errors.As(err, &ie) {
			return Untrusted{}, &Failure{Kind: KindDecode, Path: ie.Path, Cause: ie}
		}
		return Untrusted{}, &Failure{Kind: KindDecode, Path: "/", Cause: err}
	}
	return Wrap(v), nil
}

var (
	// ErrTooLarge is the cause of a KindDecode failure for bodies over MaxBytes.
	ErrTooLarge = errors.New("max bytes exceeded")
	// ErrSyntax is the cause of a KindDecode failure when no more specific
	// syntax error is available.
	ErrSyntax = errors.New("invalid JSON")
)

func truncated() *Failure {
	return &Failure{Kind: KindDecode, Path: "/", Cause: ErrTooLarge}
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) == 0 {
		return DecodeOpt{}
	}
	return opts[len(opts)-1]
}

func toEngineDup(s Severity) eng.DuplicatePolicy {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
