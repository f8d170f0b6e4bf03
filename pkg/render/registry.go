package render

import (
	"io"
	"slices"
	"sync"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

// The global backend registry. Backends register themselves at init time;
// dispatch is strictly by name with no fallback.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Backend)
)

// Register adds a backend to the registry. Registering a nil backend or a
// duplicate name panics: both are programmer errors at init time.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if b == nil {
		panic("render: Register called with nil backend")
	}
	name := b.Name()
	if _, dup := backends[name]; dup {
		panic("render: Register called twice for backend " + name)
	}
	if !b.ConcurrentSafe() {
		b = &lockedBackend{inner: b}
	}
	backends[name] = b
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := backends[name]
	return b, ok
}

// Render dispatches a normalized figure to the named backend.
// Unknown names fail with UNKNOWN_BACKEND listing the registered backends;
// there is deliberately no default backend to fall back to.
func Render(name string, nf *validate.Figure) (Handle, error) {
	b, ok := Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownBackend,
			"unknown backend %q (registered: %v)", name, Backends())
	}
	if nf == nil {
		return nil, errors.New(errors.ErrCodeInternal, "nil figure passed to backend %q", name)
	}
	return b.Render(nf)
}

// lockedBackend serializes all access to a backend whose underlying library
// is not safe for concurrent use. One lock covers the backend and every
// handle it produces.
type lockedBackend struct {
	mu    sync.Mutex
	inner Backend
}

func (l *lockedBackend) Name() string             { return l.inner.Name() }
func (l *lockedBackend) Capabilities() Capability { return l.inner.Capabilities() }
func (l *lockedBackend) ConcurrentSafe() bool     { return false }

func (l *lockedBackend) Render(nf *validate.Figure) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, err := l.inner.Render(nf)
	if err != nil {
		return nil, err
	}
	return &lockedHandle{mu: &l.mu, inner: h}, nil
}

// lockedHandle guards every export of a non-concurrent-safe backend with the
// backend's lock.
type lockedHandle struct {
	mu    *sync.Mutex
	inner Handle
}

func (h *lockedHandle) ID() string               { return h.inner.ID() }
func (h *lockedHandle) Backend() string          { return h.inner.Backend() }
func (h *lockedHandle) Capabilities() Capability { return h.inner.Capabilities() }

func (h *lockedHandle) ExportRaster(w io.Writer, opts RasterOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.ExportRaster(w, opts)
}

func (h *lockedHandle) ExportVector(w io.Writer, opts VectorOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.ExportVector(w, opts)
}

func (h *lockedHandle) ExportInteractive(w io.Writer, opts InteractiveOptions) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.ExportInteractive(w, opts)
}

func (h *lockedHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.Close()
}
