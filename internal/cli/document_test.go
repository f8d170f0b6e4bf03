package cli

import (
	"strings"
	"testing"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

const sampleDoc = `
title = "Free fall"
caption = "Height over time."
label = "fig:freefall"
rows = 1
cols = 2

[[axes]]
row = 0
col = 0
xlabel = "time"
ylim = { min = 0.0, max = 5.0, unit = "m" }

[[axes.series]]
name = "height"
x = { values = [0.0, 1.0, 2.0], unit = "s" }
y = { values = [0.0, 1.0, 4.0], unit = "m" }
marker = "circle"
line = "dashed"
line_width = 2.0

[[axes]]
row = 0
col = 1
allow_empty = true
yscale = "log"
`

func TestParseFigureDocument(t *testing.T) {
	f, err := parseFigure([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("parseFigure: %v", err)
	}

	if f.Title != "Free fall" || f.Label != "fig:freefall" {
		t.Errorf("figure metadata = %q/%q", f.Title, f.Label)
	}
	if f.Rows != 1 || f.Cols != 2 {
		t.Errorf("grid = %dx%d, want 1x2", f.Rows, f.Cols)
	}

	axes := f.Axes()
	if len(axes) != 2 {
		t.Fatalf("axes count = %d, want 2", len(axes))
	}
	if axes[0].XLabel != "time" || axes[0].YLimits == nil {
		t.Errorf("first axes not configured: %+v", axes[0])
	}
	if !axes[1].AllowEmpty || axes[1].YScale != figure.ScaleLog {
		t.Errorf("second axes not configured: %+v", axes[1])
	}

	series := axes[0].Series()
	if len(series) != 1 || series[0].Name != "height" {
		t.Fatalf("series = %+v", series)
	}
	st := series[0].Style
	if st.Marker != figure.MarkerCircle || st.Line != figure.LineDashed || st.LineWidth != 2.0 {
		t.Errorf("style = %+v", st)
	}

	// The parsed document must survive normalization.
	if _, err := validate.Normalize(f); err != nil {
		t.Errorf("document does not normalize: %v", err)
	}
}

func TestParseFigureDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{
			name: "invalid toml",
			doc:  "title = ",
			code: errors.ErrCodeInvalidSpec,
		},
		{
			name: "unknown unit",
			doc: `[[axes]]
[[axes.series]]
name = "a"
x = { values = [1.0], unit = "parsec" }
y = { values = [1.0], unit = "m" }`,
			code: errors.ErrCodeUnknownUnit,
		},
		{
			name: "unknown scale",
			doc: `[[axes]]
xscale = "cubic"`,
			code: errors.ErrCodeInvalidSpec,
		},
		{
			name: "cell out of range",
			doc: `rows = 1
cols = 1
[[axes]]
row = 2
col = 0`,
			code: errors.ErrCodeInvalidSpec,
		},
		{
			name: "bad marker",
			doc: `[[axes]]
[[axes.series]]
name = "a"
x = { values = [1.0], unit = "s" }
y = { values = [1.0], unit = "m" }
marker = "star"`,
			code: errors.ErrCodeInvalidStyle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFigure([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestValidateFontMode(t *testing.T) {
	for _, ok := range []string{"", "text", "path"} {
		if err := validateFontMode(ok); err != nil {
			t.Errorf("validateFontMode(%q) = %v", ok, err)
		}
	}
	err := validateFontMode("outline")
	if err == nil || !strings.Contains(err.Error(), "outline") {
		t.Errorf("validateFontMode(outline) = %v", err)
	}
}
