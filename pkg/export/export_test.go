package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/render"
	"github.com/maxplotlib/maxplot/pkg/unit"
	"github.com/maxplotlib/maxplot/pkg/validate"

	_ "github.com/maxplotlib/maxplot/pkg/render/raster"
	_ "github.com/maxplotlib/maxplot/pkg/render/tikz"
	_ "github.com/maxplotlib/maxplot/pkg/render/web"
)

func renderOn(t *testing.T, backend string) render.Handle {
	t.Helper()
	f := figure.New()
	ax, err := f.AddAxes()
	if err != nil {
		t.Fatal(err)
	}
	err = ax.AddSeries("height",
		unit.MustNew([]float64{0, 1, 2}, "s"),
		unit.MustNew([]float64{0, 1, 4}, "m"))
	if err != nil {
		t.Fatal(err)
	}

	nf, err := validate.Normalize(f)
	if err != nil {
		t.Fatal(err)
	}
	h, err := render.Render(backend, nf)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestExportWritesFile(t *testing.T) {
	h := renderOn(t, "raster")
	target := filepath.Join(t.TempDir(), "out.png")

	path, err := Export(h, Request{Path: target})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if path != target {
		t.Errorf("returned path = %q, want %q", path, target)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("exported file is empty")
	}
}

func TestExportCreatesParentDirs(t *testing.T) {
	h := renderOn(t, "web")
	target := filepath.Join(t.TempDir(), "a", "b", "c", "plot.html")

	if _, err := Export(h, Request{Path: target}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("target not written: %v", err)
	}
}

func TestExportConflictWithoutOverwrite(t *testing.T) {
	h := renderOn(t, "raster")
	target := filepath.Join(t.TempDir(), "out.png")

	if _, err := Export(h, Request{Path: target}); err != nil {
		t.Fatal(err)
	}

	_, err := Export(h, Request{Path: target})
	if !errors.Is(err, errors.ErrCodeExportConflict) {
		t.Fatalf("error = %v, want EXPORT_CONFLICT", err)
	}

	if _, err := Export(h, Request{Path: target, Overwrite: true}); err != nil {
		t.Errorf("overwrite export failed: %v", err)
	}
}

func TestExportUnsupportedLeavesNoFile(t *testing.T) {
	h := renderOn(t, "raster") // raster cannot export SVG
	target := filepath.Join(t.TempDir(), "out.svg")

	_, err := Export(h, Request{Path: target})
	if !errors.Is(err, errors.ErrCodeUnsupportedExport) {
		t.Fatalf("error = %v, want UNSUPPORTED_EXPORT", err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("failed export must not leave a file behind")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	h := renderOn(t, "raster")

	_, err := Export(h, Request{Path: filepath.Join(t.TempDir(), "out.bmp")})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"plot.png", FormatPNG, false},
		{"plot.svg", FormatSVG, false},
		{"plot.html", FormatHTML, false},
		{"plot.htm", FormatHTML, false},
		{"plot.tex", FormatTeX, false},
		{"plot.tikz", FormatTeX, false},
		{"plot.bmp", "", true},
		{"plot", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestAllManyFormatsOneHandle(t *testing.T) {
	h := renderOn(t, "tikz")
	dir := t.TempDir()

	written, err := All(h, []Request{
		{Path: filepath.Join(dir, "plot.tex")},
		{Path: filepath.Join(dir, "standalone.tex"), Standalone: true},
	})
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("written = %v, want 2 paths", written)
	}

	standalone, err := os.ReadFile(written[1])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(standalone, []byte("\\documentclass{standalone}")) {
		t.Error("standalone request did not produce a standalone document")
	}
}

func TestAllDuplicateTargets(t *testing.T) {
	h := renderOn(t, "raster")
	target := filepath.Join(t.TempDir(), "out.png")

	_, err := All(h, []Request{{Path: target}, {Path: target}})
	if !errors.Is(err, errors.ErrCodeExportConflict) {
		t.Fatalf("error = %v, want EXPORT_CONFLICT", err)
	}
	// Nothing may be written when the batch itself conflicts.
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("conflicting batch must not write any file")
	}
}

func TestAllStopsOnFailure(t *testing.T) {
	h := renderOn(t, "web")
	dir := t.TempDir()

	written, err := All(h, []Request{
		{Path: filepath.Join(dir, "plot.svg")},
		{Path: filepath.Join(dir, "plot.png")}, // web cannot rasterize
		{Path: filepath.Join(dir, "plot.html")},
	})
	if !errors.Is(err, errors.ErrCodeUnsupportedExport) {
		t.Fatalf("error = %v, want UNSUPPORTED_EXPORT", err)
	}
	if len(written) != 1 {
		t.Errorf("written = %v, want only the svg", written)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "plot.html")); !os.IsNotExist(statErr) {
		t.Error("requests after the failure must not run")
	}
}

func TestExportInvalidPath(t *testing.T) {
	h := renderOn(t, "raster")
	if _, err := Export(h, Request{Path: ""}); err == nil {
		t.Fatal("empty path should fail")
	}
}
