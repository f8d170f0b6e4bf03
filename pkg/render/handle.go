package render

import (
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/maxplotlib/maxplot/pkg/errors"
)

// BaseHandle provides handle identity, capability reporting, and typed
// failures for unsupported exports. Backend handles embed it and override
// the export methods they actually support.
type BaseHandle struct {
	id      string
	backend string
	caps    Capability

	mu     sync.Mutex
	closed bool
}

// NewBaseHandle creates the embedded base for a backend handle.
func NewBaseHandle(backend string, caps Capability) BaseHandle {
	return BaseHandle{
		id:      uuid.NewString(),
		backend: backend,
		caps:    caps,
	}
}

// ID returns the handle's unique identity.
func (h *BaseHandle) ID() string { return h.id }

// Backend returns the producing backend's name.
func (h *BaseHandle) Backend() string { return h.backend }

// Capabilities returns the producing backend's capability set.
func (h *BaseHandle) Capabilities() Capability { return h.caps }

// ExportRaster fails with UNSUPPORTED_EXPORT unless overridden.
func (h *BaseHandle) ExportRaster(io.Writer, RasterOptions) error {
	return ErrUnsupportedExport(h.backend, "raster")
}

// ExportVector fails with UNSUPPORTED_EXPORT unless overridden.
func (h *BaseHandle) ExportVector(io.Writer, VectorOptions) error {
	return ErrUnsupportedExport(h.backend, "vector")
}

// ExportInteractive fails with UNSUPPORTED_EXPORT unless overridden.
func (h *BaseHandle) ExportInteractive(io.Writer, InteractiveOptions) error {
	return ErrUnsupportedExport(h.backend, "interactive")
}

// Close marks the handle closed. Safe to call multiple times.
func (h *BaseHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// CheckOpen returns an error if the handle was closed.
// Backend export methods call this before touching renderer state.
func (h *BaseHandle) CheckOpen() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errors.New(errors.ErrCodeInternal, "handle %s (%s backend) is closed", h.id, h.backend)
	}
	return nil
}

// ErrUnsupportedExport builds the typed error for an export a backend does
// not support, naming both the backend and the requested format.
func ErrUnsupportedExport(backend, format string) error {
	return errors.New(errors.ErrCodeUnsupportedExport,
		"backend %q does not support %s export", backend, format)
}
