// Package pkg provides the core libraries for maxplot unit-safe plotting.
//
// # Overview
//
// maxplot turns declarative, unit-tagged figure specifications into
// reproducible plot artifacts. The pkg directory is organized into five main
// areas:
//
//  1. [unit] / [figure] - Domain model (quantities, figures, axes, series)
//  2. [validate] - Normalization into render-ready snapshots
//  3. [render] - Backend adapters (raster, web, tikz)
//  4. [export] / [pipeline] - Artifact writing and orchestration
//  5. [cache] / [observability] - Run-to-run reuse and instrumentation
//
// # Architecture
//
// The typical data flow through maxplot:
//
//	Figure specification (code or TOML document)
//	         ↓
//	    [validate] package (unit canonicalization + style resolution)
//	         ↓
//	    [render] package (backend dispatch by name)
//	         ↓
//	    [export] package (PNG/SVG/HTML/TeX files)
//
// # Quick Start
//
//	f := figure.New(figure.WithTitle("Free fall"))
//	ax, _ := f.AddAxes()
//	_ = ax.AddSeries("height",
//	    unit.MustNew([]float64{0, 1, 2}, "s"),
//	    unit.MustNew([]float64{0, 1, 4}, "m"))
//
//	nf, err := validate.Normalize(f)
//	h, err := render.Render("raster", nf)
//	path, err := export.Export(h, export.Request{Path: "out.png"})
package pkg
