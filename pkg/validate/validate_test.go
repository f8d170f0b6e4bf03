package validate

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/unit"
)

// buildFigure creates the reference one-axes figure used across tests:
// x = [0,1,2] s, y = [0,1,4] m.
func buildFigure(t *testing.T) *figure.Figure {
	t.Helper()
	f := figure.New(figure.WithTitle("free fall"))
	ax, err := f.AddAxes()
	if err != nil {
		t.Fatalf("AddAxes: %v", err)
	}
	err = ax.AddSeries("height",
		unit.MustNew([]float64{0, 1, 2}, "s"),
		unit.MustNew([]float64{0, 1, 4}, "m"))
	if err != nil {
		t.Fatalf("AddSeries: %v", err)
	}
	return f
}

func TestNormalizeBasic(t *testing.T) {
	nf, err := Normalize(buildFigure(t))
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if len(nf.Axes) != 1 {
		t.Fatalf("axes count = %d, want 1", len(nf.Axes))
	}
	ax := nf.Axes[0]

	if ax.XUnit.Symbol != "s" || ax.YUnit.Symbol != "m" {
		t.Errorf("canonical units = %s/%s, want s/m", ax.XUnit.Symbol, ax.YUnit.Symbol)
	}
	if ax.XMin != 0 || ax.XMax != 2 || ax.YMin != 0 || ax.YMax != 4 {
		t.Errorf("ranges = [%g,%g]x[%g,%g], want [0,2]x[0,4]", ax.XMin, ax.XMax, ax.YMin, ax.YMax)
	}
	if ax.XLabel != "x [s]" || ax.YLabel != "y [m]" {
		t.Errorf("derived labels = %q/%q, want x [s]/y [m]", ax.XLabel, ax.YLabel)
	}

	// Style defaults resolved from the palette cycle.
	st := ax.Series[0].Style
	if st.Color != figure.ColorBlue || st.Line != figure.LineSolid || st.Marker != figure.MarkerNone {
		t.Errorf("resolved style = %+v", st)
	}
}

func TestNormalizeConvertsMixedUnits(t *testing.T) {
	f := figure.New()
	ax, _ := f.AddAxes()
	_ = ax.AddSeries("a",
		unit.MustNew([]float64{0, 1}, "s"),
		unit.MustNew([]float64{0, 1}, "m"))
	_ = ax.AddSeries("b",
		unit.MustNew([]float64{1000, 2000}, "ms"),
		unit.MustNew([]float64{100, 200}, "cm"))

	nf, err := Normalize(f)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	b := nf.Axes[0].Series[1]
	if got := b.XValues(); math.Abs(got[0]-1) > 1e-9 || math.Abs(got[1]-2) > 1e-9 {
		t.Errorf("b.x converted to %v, want [1 2] s", got)
	}
	if got := b.YValues(); math.Abs(got[0]-1) > 1e-9 || math.Abs(got[1]-2) > 1e-9 {
		t.Errorf("b.y converted to %v, want [1 2] m", got)
	}
}

func TestNormalizeIncompatibleSeriesUnit(t *testing.T) {
	f := figure.New()
	ax, _ := f.AddAxes()
	_ = ax.AddSeries("a",
		unit.MustNew([]float64{0, 1}, "s"),
		unit.MustNew([]float64{0, 1}, "m"))
	_ = ax.AddSeries("b",
		unit.MustNew([]float64{0, 1}, "kg"), // mass on a time axis
		unit.MustNew([]float64{0, 1}, "m"))

	_, err := Normalize(f)
	if !errors.Is(err, errors.ErrCodeIncompatibleUnit) {
		t.Fatalf("error = %v, want INCOMPATIBLE_UNIT", err)
	}
	if !strings.Contains(err.Error(), `series "b"`) {
		t.Errorf("error should name the series: %v", err)
	}
}

func TestNormalizeIncompatibleLimit(t *testing.T) {
	f := buildFigure(t)
	ax := f.Axes()[0]

	// Limit in seconds on the meter-valued y axis.
	min := unit.MustNew([]float64{0}, "s")
	max := unit.MustNew([]float64{10}, "s")
	if err := ax.SetYLimits(min, max); err != nil {
		t.Fatalf("SetYLimits: %v", err)
	}

	_, err := Normalize(f)
	if !errors.Is(err, errors.ErrCodeIncompatibleUnit) {
		t.Fatalf("error = %v, want INCOMPATIBLE_UNIT", err)
	}
	if !strings.Contains(err.Error(), "axes (0,0)") {
		t.Errorf("error should name the axes: %v", err)
	}
}

func TestNormalizeConvertsCompatibleLimit(t *testing.T) {
	f := buildFigure(t)
	ax := f.Axes()[0]

	// Limits in centimeters on the meter-valued y axis: converted, not rejected.
	min := unit.MustNew([]float64{0}, "cm")
	max := unit.MustNew([]float64{500}, "cm")
	if err := ax.SetYLimits(min, max); err != nil {
		t.Fatalf("SetYLimits: %v", err)
	}

	nf, err := Normalize(f)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if nf.Axes[0].YMin != 0 || math.Abs(nf.Axes[0].YMax-5) > 1e-9 {
		t.Errorf("y range = [%g,%g], want [0,5] m", nf.Axes[0].YMin, nf.Axes[0].YMax)
	}
}

func TestNormalizeEmptyAxes(t *testing.T) {
	f := figure.New()
	if _, err := f.AddAxes(); err != nil {
		t.Fatal(err)
	}

	// Not empty-allowed: validation fails.
	if _, err := Normalize(f); !errors.Is(err, errors.ErrCodeValidation) {
		t.Fatalf("error = %v, want VALIDATION_FAILED", err)
	}

	// Empty-allowed: passes and is marked empty.
	f.Axes()[0].AllowEmpty = true
	nf, err := Normalize(f)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if !nf.Axes[0].Empty {
		t.Error("axes should be marked empty")
	}
}

func TestNormalizeLogScaleRejectsNonPositive(t *testing.T) {
	f := figure.New()
	ax, _ := f.AddAxes()
	_ = ax.AddSeries("decay",
		unit.MustNew([]float64{0, 1, 2}, "s"), // x contains zero
		unit.MustNew([]float64{8, 4, 2}, "1"))
	if err := ax.SetScales(figure.ScaleLog, figure.ScaleLinear); err != nil {
		t.Fatal(err)
	}

	_, err := Normalize(f)
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Fatalf("error = %v, want VALIDATION_FAILED", err)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	f := buildFigure(t)
	before, err := figure.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Normalize(f); err != nil {
		t.Fatal(err)
	}

	after, err := figure.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Normalize mutated the input figure")
	}
}

// TestNormalizeIdempotent verifies validate(validate(f)) == validate(f):
// reconstructing the specification from a normalized figure and normalizing
// again yields a deep-equal snapshot.
func TestNormalizeIdempotent(t *testing.T) {
	f := figure.New(figure.WithTitle("demo"), figure.WithGrid(1, 2))
	ax, _ := f.AddAxes()
	_ = ax.AddSeries("a",
		unit.MustNew([]float64{1, 2, 3}, "min"),
		unit.MustNew([]float64{10, 20, 15}, "degC"),
		figure.WithMarker(figure.MarkerCircle))
	empty, _ := f.AddAxes()
	empty.AllowEmpty = true

	first, err := Normalize(f)
	if err != nil {
		t.Fatalf("first Normalize: %v", err)
	}

	spec, err := first.Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	second, err := Normalize(spec)
	if err != nil {
		t.Fatalf("second Normalize: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalization not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
