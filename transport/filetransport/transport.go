// Package filetransport serves resources from a directory, for fixtures and
// offline checks of recorded responses.
package filetransport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for resources that resolve outside the root.
var ErrOutsideRoot = errors.New("filetransport: resource escapes root")

// Transport implements shapefetch.Transport over the local filesystem.
type Transport struct {
	root string
}

// New returns a Transport rooted at dir. dir must exist and be a directory.
func New(dir string) (*Transport, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("filetransport: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("filetransport: %s is not a directory", dir)
	}
	return &Transport{root: abs}, nil
}

// Path maps a resource to a file below the root. Leading slashes are ignored.
func (t *Transport) Path(resource string) (string, error) {
	rel := filepath.FromSlash(strings.TrimLeft(resource, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, resource)
	}
	return filepath.Join(t.root, rel), nil
}

// Get opens the file for resource.
func (t *Transport) Get(ctx context.Context, resource string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := t.Path(resource)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	return fh, nil
}
