// Package render defines the backend adapter contract and the registry that
// dispatches normalized figures to rendering backends by name.
//
// A backend turns a normalized figure into an opaque Handle. The handle owns
// all renderer state and exposes only export operations; which of those
// operations are available is declared up front through a capability set.
// Requesting an export the backend does not support fails with a typed
// UNSUPPORTED_EXPORT error naming the backend and format — never by silently
// degrading to another format.
//
// Backends register themselves by name in an init function, mirroring the
// image codec registration idiom:
//
//	import _ "github.com/maxplotlib/maxplot/pkg/render/raster"
//
//	h, err := render.Render("raster", nf)
package render

import (
	"io"
	"strings"

	"github.com/maxplotlib/maxplot/pkg/validate"
)

// Capability is the set of operations a backend supports.
type Capability uint8

// Capability flags. Every backend has CapRender; export capabilities vary.
const (
	CapRender Capability = 1 << iota
	CapExportRaster
	CapExportVector
	CapExportInteractive
)

// Has reports whether all flags in c2 are present in c.
func (c Capability) Has(c2 Capability) bool { return c&c2 == c2 }

// String lists the capability names, comma-separated.
func (c Capability) String() string {
	var parts []string
	if c.Has(CapRender) {
		parts = append(parts, "render")
	}
	if c.Has(CapExportRaster) {
		parts = append(parts, "raster")
	}
	if c.Has(CapExportVector) {
		parts = append(parts, "vector")
	}
	if c.Has(CapExportInteractive) {
		parts = append(parts, "interactive")
	}
	return strings.Join(parts, ",")
}

// FontMode selects how vector exports represent text.
type FontMode string

// Supported font modes for vector export.
const (
	// FontModeText keeps text as text elements, selectable and searchable.
	FontModeText FontMode = "text"
	// FontModePath converts text to drawing paths. Backends that cannot
	// outline text reject this mode with UNSUPPORTED_EXPORT.
	FontModePath FontMode = "path"
)

// DefaultDPI is the raster export resolution when none is requested.
const DefaultDPI = 100.0

// RasterOptions configures raster (pixel image) export.
type RasterOptions struct {
	// DPI scales the output pixel dimensions; figure size is in inches.
	DPI float64
}

// VectorOptions configures vector markup export.
type VectorOptions struct {
	// FontMode selects text-as-text or text-as-path output. Empty means text.
	FontMode FontMode
	// Standalone wraps the markup in a complete compilable/viewable document.
	Standalone bool
}

// InteractiveOptions configures interactive document export.
type InteractiveOptions struct {
	// Static omits the embedded interactivity scripts, producing a plain
	// viewable document.
	Static bool
}

// Backend is a rendering adapter. Implementations translate the normalized
// figure into their library's native calls; they must treat the figure as an
// immutable snapshot.
type Backend interface {
	// Name is the registry key used for dispatch.
	Name() string

	// Capabilities declares which export operations handles will support.
	Capabilities() Capability

	// ConcurrentSafe reports whether independent figures may be rendered
	// concurrently. Backends returning false are serialized by the
	// registry behind a per-backend lock.
	ConcurrentSafe() bool

	// Render produces a handle owning all renderer state for the figure.
	Render(nf *validate.Figure) (Handle, error)
}

// Handle is the opaque, backend-owned result of rendering a figure. A handle
// is bound to exactly one backend; re-rendering with a different backend
// requires going back to the normalized figure. Exports may be requested any
// number of times from one handle without re-rendering.
type Handle interface {
	// ID is the unique identity of this handle, used in logs.
	ID() string

	// Backend is the name of the backend that produced the handle.
	Backend() string

	// Capabilities mirrors the producing backend's capability set.
	Capabilities() Capability

	// ExportRaster writes a pixel image of the rendered figure.
	ExportRaster(w io.Writer, opts RasterOptions) error

	// ExportVector writes vector markup of the rendered figure.
	ExportVector(w io.Writer, opts VectorOptions) error

	// ExportInteractive writes an interactive document of the rendered figure.
	ExportInteractive(w io.Writer, opts InteractiveOptions) error

	// Close releases renderer resources. Exports after Close fail.
	Close() error
}
