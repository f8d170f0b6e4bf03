// Package pipeline provides the core plotting pipeline.
//
// This package implements the complete validate → render → export pipeline
// used by the CLI and by library consumers. Centralizing it keeps behavior
// consistent across entry points and gives every run the same caching,
// logging, and instrumentation.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: normalize the figure specification (unit canonicalization,
//     style resolution, range derivation)
//  2. Render: dispatch the normalized figure to a backend, producing a handle
//  3. Export: write one or more artifacts from the single handle
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	opts := pipeline.Options{
//	    Backend: "raster",
//	    Exports: []export.Request{{Path: "out.png"}},
//	}
//	result, err := runner.Execute(ctx, fig, opts)
package pipeline

import (
	"time"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/export"
	"github.com/maxplotlib/maxplot/pkg/render"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

// DefaultBackend is used when no backend is named.
const DefaultBackend = "raster"

// DefaultArtifactTTL bounds how long cached export artifacts stay valid.
const DefaultArtifactTTL = 24 * time.Hour

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for batch descriptions.
type Options struct {
	// Backend names the rendering backend. Empty means DefaultBackend.
	Backend string `json:"backend,omitempty"`

	// Exports are the artifacts to produce from the single render.
	Exports []export.Request `json:"exports"`

	// ArtifactTTL overrides the cache TTL for export artifacts.
	ArtifactTTL time.Duration `json:"artifact_ttl,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}
	if len(o.Exports) == 0 {
		return errors.New(errors.ErrCodeValidation, "at least one export request is required")
	}
	if o.ArtifactTTL == 0 {
		o.ArtifactTTL = DefaultArtifactTTL
	}
	return nil
}

// Stats holds per-stage timing for one run.
type Stats struct {
	ValidateTime time.Duration `json:"validate_time"`
	RenderTime   time.Duration `json:"render_time"`
	ExportTime   time.Duration `json:"export_time"`
}

// CacheInfo reports cache effectiveness for one run.
type CacheInfo struct {
	// ArtifactHits counts exports served from cache without touching the
	// backend.
	ArtifactHits int `json:"artifact_hits"`
	// RenderSkipped is true when every export hit the cache and no backend
	// render was needed.
	RenderSkipped bool `json:"render_skipped"`
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Figure is the normalized snapshot that was rendered.
	Figure *validate.Figure

	// FigureHash is the hash of the figure's canonical JSON form. Identical
	// specifications always produce identical hashes.
	FigureHash string

	// Backend is the backend that served the run.
	Backend string

	// HandleID identifies the render handle, empty when rendering was
	// skipped entirely.
	HandleID string

	// Paths are the absolute paths of the written artifacts, in request
	// order.
	Paths []string

	Stats     Stats
	CacheInfo CacheInfo
}

// capabilityFor maps an export format to the capability it requires.
func capabilityFor(f export.Format) render.Capability {
	switch f {
	case export.FormatPNG:
		return render.CapExportRaster
	case export.FormatSVG, export.FormatTeX:
		return render.CapExportVector
	case export.FormatHTML:
		return render.CapExportInteractive
	default:
		return 0
	}
}
