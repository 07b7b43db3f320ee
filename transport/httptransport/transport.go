// Package httptransport reads resources over HTTP for a shapefetch.Fetcher.
// One call issues one GET; there are no retries.
package httptransport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/joeshaw/envdecode"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// ErrNoBaseURL is returned when a relative resource is requested without a
// configured base URL.
var ErrNoBaseURL = errors.New("httptransport: relative resource without base URL")

// Config for the HTTP transport. Defaults can be loaded via envdecode.
type Config struct {
	// BaseURL against which relative resources are resolved. ENV: SHAPEFETCH_BASE_URL
	BaseURL string `env:"SHAPEFETCH_BASE_URL"`
	// Timeout for a whole request, body included. ENV: SHAPEFETCH_TIMEOUT
	Timeout time.Duration `env:"SHAPEFETCH_TIMEOUT,default=10s"`
	// UserAgent sent with every request. ENV: SHAPEFETCH_USER_AGENT
	UserAgent string `env:"SHAPEFETCH_USER_AGENT,default=shapefetch"`
}

// ConfigFromEnv populates a Config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("httptransport: env: %w", err)
	}
	return cfg, nil
}

// StatusError reports a non-2xx response. The body is not decoded.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// MediaTypeError reports a response whose Content-Type is not JSON.
type MediaTypeError struct {
	URL         string
	ContentType string
}

func (e *MediaTypeError) Error() string {
	return fmt.Sprintf("GET %s: content type %q is not JSON", e.URL, e.ContentType)
}

// Option customizes a Transport.
type Option func(*Transport)

// WithClient replaces the HTTP client. The configured timeout still applies
// per request through the context.
func WithClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(t *Transport) { t.header.Add(key, value) }
}

// Transport implements shapefetch.Transport over net/http.
type Transport struct {
	base      *url.URL
	client    *http.Client
	timeout   time.Duration
	userAgent string
	header    http.Header
}

// New builds a Transport from cfg.
func New(cfg Config, opts ...Option) (*Transport, error) {
	t := &Transport{
		client:    http.DefaultClient,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		header:    http.Header{},
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("httptransport: base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("httptransport: base url %q must be http or https", cfg.BaseURL)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		t.base = u
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(cfg Config, opts ...Option) *Transport {
	t, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewFromEnv builds a Transport using envdecode to populate Config.
func NewFromEnv(opts ...Option) (*Transport, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Resolve returns the absolute URL for resource.
func (t *Transport) Resolve(resource string) (string, error) {
	ref, err := url.Parse(resource)
	if err != nil {
		return "", fmt.Errorf("httptransport: resource %q: %w", resource, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if t.base == nil {
		return "", ErrNoBaseURL
	}
	return t.base.ResolveReference(ref).String(), nil
}

// Get issues a single GET. The returned body must be closed by the caller.
func (t *Transport) Get(ctx context.Context, resource string) (io.ReadCloser, error) {
	target, err := t.Resolve(resource)
	if err != nil {
		return nil, err
	}
	cancel := context.CancelFunc(func() {})
	if t.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	for k, vs := range t.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		cancel()
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isJSON(resp.Header) {
		drain(resp.Body)
		cancel()
		return nil, &MediaTypeError{URL: target, ContentType: ct}
	}
	return &body{ReadCloser: resp.Body, cancel: cancel}, nil
}

// isJSON accepts application/json and any +json structured syntax suffix.
func isJSON(h http.Header) bool {
	mt, err := contenttype.GetMediaType(&http.Request{Header: h})
	if err != nil {
		return false
	}
	if mt.Type == "application" && strings.HasSuffix(mt.Subtype, "+json") {
		return true
	}
	return mt.Matches(jsonMediaType)
}

func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4<<10))
	_ = rc.Close()
}

// body releases the request context once the caller closes it.
type body struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *body) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
