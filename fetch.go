package shapefetch

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport supplies the raw body of a resource. Implementations own
// connection handling, headers and timeouts; the fetcher only reads and
// closes the returned body.
type Transport interface {
	Get(ctx context.Context, resource string) (io.ReadCloser, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, resource string) (io.ReadCloser, error)

func (fn TransportFunc) Get(ctx context.Context, resource string) (io.ReadCloser, error) {
	return fn(ctx, resource)
}

// ErrNoTransport is the cause of a KindTransport failure from a Fetcher built
// without a Transport.
var ErrNoTransport = errors.New("shapefetch: no transport configured")

// Fetcher performs exactly one read per call and validates what came back.
// It holds no per-call state and is safe for concurrent use.
type Fetcher struct {
	transport Transport
	log       *zap.Logger
	decode    DecodeOpt
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// WithDecodeOpt bounds body decoding (duplicate keys, depth, size).
func WithDecodeOpt(o DecodeOpt) FetcherOption {
	return func(f *Fetcher) { f.decode = o }
}

// NewFetcher returns a Fetcher reading through t.
func NewFetcher(t Transport, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{transport: t, log: zap.NewNop()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch reads resource and decodes the body without interpreting it.
func (f *Fetcher) Fetch(ctx context.Context, resource string) (Untrusted, error) {
	return f.acquire(ctx, resource, f.logger(resource))
}

// FetchValidated reads resource, expects an object holding an array under
// field, and validates every element against elem. Failures are returned as
// *Failure values stamped with the resource; a partially valid collection is
// never returned.
func (f *Fetcher) FetchValidated(ctx context.Context, resource, field string, elem *Shape) ([]Record, error) {
	log := f.logger(resource)
	u, err := f.acquire(ctx, resource, log)
	if err != nil {
		return nil, err
	}
	recs, err := ValidateCollection(u, field, elem)
	if err != nil {
		f.reject(log, err)
		return nil, stamp(err, resource)
	}
	log.Debug("fetch.validated", zap.String("field", field), zap.Int("records", len(recs)))
	return recs, nil
}

// FetchRecord reads resource and validates the whole body as one object.
func (f *Fetcher) FetchRecord(ctx context.Context, resource string, s *Shape) (Record, error) {
	log := f.logger(resource)
	u, err := f.acquire(ctx, resource, log)
	if err != nil {
		return Record{}, err
	}
	rec, err := Validate(u, s)
	if err != nil {
		f.reject(log, err)
		return Record{}, stamp(err, resource)
	}
	log.Debug("fetch.validated", zap.String("shape", s.Name()))
	return rec, nil
}

// FetchInto is FetchValidated followed by Bind into T.
func FetchInto[T any](ctx context.Context, f *Fetcher, resource, field string, elem *Shape) ([]T, error) {
	recs, err := f.FetchValidated(ctx, resource, field, elem)
	if err != nil {
		return nil, err
	}
	out, err := Bind[T](recs)
	if err != nil {
		if fl, ok := AsFailure(err); ok {
			fl.Path = joinPointer("", field) + fl.Path
		}
		return nil, stamp(err, resource)
	}
	return out, nil
}

func (f *Fetcher) logger(resource string) *zap.Logger {
	return f.log.With(zap.String("fetch_id", uuid.NewString()), zap.String("resource", resource))
}

func (f *Fetcher) acquire(ctx context.Context, resource string, log *zap.Logger) (Untrusted, error) {
	if f.transport == nil {
		return Untrusted{}, &Failure{Kind: KindTransport, Path: "/", Resource: resource, Cause: ErrNoTransport}
	}
	log.Debug("fetch.start")
	body, err := f.transport.Get(ctx, resource)
	if err != nil {
		log.Warn("fetch.transport_failed", zap.Error(err))
		return Untrusted{}, &Failure{Kind: KindTransport, Path: "/", Resource: resource, Cause: err}
	}
	if body == nil {
		return Untrusted{}, nil
	}
	defer body.Close()

	u, err := DecodeReader(body, f.decode)
	if err != nil {
		f.reject(log, err)
		return Untrusted{}, stamp(err, resource)
	}
	return u, nil
}

func (f *Fetcher) reject(log *zap.Logger, err error) {
	fl, ok := AsFailure(err)
	if !ok {
		log.Warn("fetch.rejected", zap.Error(err))
		return
	}
	fields := []zap.Field{zap.String("code", fl.Code()), zap.String("path", fl.Path)}
	if fl.Field != "" {
		fields = append(fields, zap.String("field", fl.Field))
	}
	if fl.Kind == KindElementInvalid {
		fields = append(fields, zap.Int("index", fl.Index))
	}
	log.Warn("fetch.rejected", fields...)
}
