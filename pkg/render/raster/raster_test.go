package raster

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/render"
	"github.com/maxplotlib/maxplot/pkg/unit"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

func renderFigure(t *testing.T) render.Handle {
	t.Helper()
	f := figure.New(figure.WithTitle("trajectory"))
	ax, err := f.AddAxes()
	if err != nil {
		t.Fatal(err)
	}
	err = ax.AddSeries("height",
		unit.MustNew([]float64{0, 1, 2}, "s"),
		unit.MustNew([]float64{0, 1, 4}, "m"),
		figure.WithMarker(figure.MarkerCircle))
	if err != nil {
		t.Fatal(err)
	}
	err = ax.AddSeries("speed",
		unit.MustNew([]float64{0, 1, 2}, "s"),
		unit.MustNew([]float64{0, 2, 4}, "m"),
		figure.WithLineStyle(figure.LineDashed))
	if err != nil {
		t.Fatal(err)
	}

	nf, err := validate.Normalize(f)
	if err != nil {
		t.Fatal(err)
	}
	h, err := render.Render(BackendName, nf)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestExportRasterProducesPNG(t *testing.T) {
	h := renderFigure(t)
	defer h.Close()

	var buf bytes.Buffer
	if err := h.ExportRaster(&buf, render.RasterOptions{}); err != nil {
		t.Fatalf("ExportRaster: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	// Default figure is 8 inches wide at 100 DPI.
	if got := img.Bounds().Dx(); got != 800 {
		t.Errorf("width = %d px, want 800", got)
	}
}

func TestExportRasterDPIScalesOutput(t *testing.T) {
	h := renderFigure(t)
	defer h.Close()

	var buf bytes.Buffer
	if err := h.ExportRaster(&buf, render.RasterOptions{DPI: 200}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Dx(); got != 1600 {
		t.Errorf("width at 200 DPI = %d px, want 1600", got)
	}
}

func TestExportRasterDeterministic(t *testing.T) {
	h1 := renderFigure(t)
	defer h1.Close()
	h2 := renderFigure(t)
	defer h2.Close()

	var a, b bytes.Buffer
	if err := h1.ExportRaster(&a, render.RasterOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := h2.ExportRaster(&b, render.RasterOptions{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("identical figures produced different PNG bytes")
	}
}

func TestExportVectorUnsupported(t *testing.T) {
	h := renderFigure(t)
	defer h.Close()

	err := h.ExportVector(&bytes.Buffer{}, render.VectorOptions{})
	if err == nil {
		t.Fatal("vector export should fail on the raster backend")
	}
}

func TestExportAfterCloseFails(t *testing.T) {
	h := renderFigure(t)
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if err := h.ExportRaster(&bytes.Buffer{}, render.RasterOptions{}); err == nil {
		t.Fatal("export after Close should fail")
	}
}

func TestLogScaleRender(t *testing.T) {
	f := figure.New()
	ax, _ := f.AddAxes()
	_ = ax.AddSeries("decay",
		unit.MustNew([]float64{1, 10, 100}, "s"),
		unit.MustNew([]float64{100, 10, 1}, "1"))
	if err := ax.SetScales(figure.ScaleLog, figure.ScaleLog); err != nil {
		t.Fatal(err)
	}

	nf, err := validate.Normalize(f)
	if err != nil {
		t.Fatal(err)
	}
	h, err := render.Render(BackendName, nf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer h.Close()

	var buf bytes.Buffer
	if err := h.ExportRaster(&buf, render.RasterOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("log-scale output is not a PNG: %v", err)
	}
}
