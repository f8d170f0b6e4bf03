// Package export writes rendered figures to files. It is the only component
// in the module that touches the filesystem: backends render into handles,
// and this package maps export requests onto handle operations and file
// paths.
//
// Writes are atomic per file: the export is buffered fully in memory and the
// file is written only after the backend succeeded, so a failed export never
// leaves a partial file behind.
package export

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/render"
)

// Format names an export file format.
type Format string

// Supported export formats and the handle operations they map to.
const (
	// FormatPNG is a raster export.
	FormatPNG Format = "png"
	// FormatSVG is a vector export as SVG markup.
	FormatSVG Format = "svg"
	// FormatHTML is an interactive document export.
	FormatHTML Format = "html"
	// FormatTeX is a vector export as pgfplots markup.
	FormatTeX Format = "tex"
)

// Formats returns the supported format names in declaration order.
func Formats() []Format {
	return []Format{FormatPNG, FormatSVG, FormatHTML, FormatTeX}
}

// FormatFromPath derives the format from a path's file extension.
func FormatFromPath(path string) (Format, error) {
	switch filepath.Ext(path) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".tex", ".tikz":
		return FormatTeX, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"cannot derive export format from path %q", path)
	}
}

// Request describes one export of a rendered figure.
type Request struct {
	// Format selects the handle operation; empty means derive from Path.
	Format Format
	// Path is the target file. Missing parent directories are created.
	Path string
	// Overwrite allows replacing an existing file. Without it an existing
	// target fails with EXPORT_CONFLICT.
	Overwrite bool

	// DPI applies to raster formats. Zero means the render default.
	DPI float64
	// FontMode applies to vector formats.
	FontMode render.FontMode
	// Standalone applies to vector formats that can wrap themselves in a
	// complete document.
	Standalone bool
	// Static applies to interactive formats: omit embedded scripts.
	Static bool
}

// Export performs one export request against a handle and returns the final
// absolute path of the written file.
func Export(h render.Handle, req Request) (string, error) {
	data, err := Buffer(h, req)
	if err != nil {
		return "", err
	}
	path, err := resolvePath(req.Path)
	if err != nil {
		return "", err
	}
	return Write(path, data, req.Overwrite)
}

// Buffer performs the backend export into memory without touching the
// filesystem. The pipeline uses this to cache artifacts between runs.
func Buffer(h render.Handle, req Request) ([]byte, error) {
	format := req.Format
	if format == "" {
		var err error
		if format, err = FormatFromPath(req.Path); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = h.ExportRaster(&buf, render.RasterOptions{DPI: req.DPI})
	case FormatSVG:
		err = h.ExportVector(&buf, render.VectorOptions{FontMode: req.FontMode})
	case FormatHTML:
		err = h.ExportInteractive(&buf, render.InteractiveOptions{Static: req.Static})
	case FormatTeX:
		err = h.ExportVector(&buf, render.VectorOptions{FontMode: req.FontMode, Standalone: req.Standalone})
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write places already-produced artifact bytes at path, applying the same
// conflict and parent-directory rules as Export.
func Write(path string, data []byte, overwrite bool) (string, error) {
	path, err := resolvePath(path)
	if err != nil {
		return "", err
	}
	if err := checkConflict(path, overwrite); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create export directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write export file")
	}
	return path, nil
}

// All performs a batch of exports from one handle. Duplicate target paths
// within the batch fail up front with EXPORT_CONFLICT before anything is
// written. On a later failure the paths already written are returned with
// the error.
func All(h render.Handle, reqs []Request) ([]string, error) {
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		path, err := resolvePath(req.Path)
		if err != nil {
			return nil, err
		}
		if seen[path] {
			return nil, errors.New(errors.ErrCodeExportConflict,
				"duplicate export target %q in one batch", path)
		}
		seen[path] = true
	}

	var written []string
	for _, req := range reqs {
		path, err := Export(h, req)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func resolvePath(path string) (string, error) {
	if err := errors.ValidateExportPath(path); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "resolve export path")
	}
	return abs, nil
}

func checkConflict(path string, overwrite bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "stat export target")
	}
	if info.IsDir() {
		return errors.New(errors.ErrCodeExportConflict, "export target %q is a directory", path)
	}
	if !overwrite {
		return errors.New(errors.ErrCodeExportConflict,
			"export target %q already exists (set Overwrite to replace it)", path)
	}
	return nil
}
