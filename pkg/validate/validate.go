// Package validate checks plot specifications and produces normalized,
// render-ready snapshots.
//
// Normalization converts every series and limit on an axes to that axes'
// canonical unit (the unit of its first series), resolves style defaults
// from the palette cycle, and derives unit-based axis labels. The result is
// a deep copy: backend adapters receive it as an immutable snapshot and the
// caller's figure remains reusable after any failure.
//
// Normalization is idempotent: normalizing an already-normalized figure
// yields an identical result.
package validate

import (
	"math"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/unit"
)

// Figure is a normalized figure: the immutable, unit-canonical snapshot
// handed to backend adapters.
type Figure struct {
	Title   string
	Caption string
	Label   string
	Width   float64
	Height  float64
	Rows    int
	Cols    int
	Axes    []Axes
}

// Axes is a normalized subplot. All series and limits are expressed in the
// canonical units XUnit and YUnit, and the plotting ranges are resolved.
type Axes struct {
	Row, Col int

	Title  string
	XLabel string
	YLabel string

	XScale figure.Scale
	YScale figure.Scale

	XUnit unit.Unit
	YUnit unit.Unit

	// Resolved plotting ranges in canonical units: explicit limits when
	// set, otherwise the data extent.
	XMin, XMax float64
	YMin, YMax float64

	Empty  bool
	Series []Series
}

// Series is a normalized series with resolved style. X and Y are expressed
// in the owning axes' canonical units.
type Series struct {
	Name  string
	X, Y  unit.Quantity
	Style figure.Style
}

// XValues returns the x data as plain numbers in the axes' canonical unit.
// This is the declared render boundary: units are stripped here and nowhere
// earlier.
func (s *Series) XValues() []float64 { return s.X.Values() }

// YValues returns the y data as plain numbers in the axes' canonical unit.
func (s *Series) YValues() []float64 { return s.Y.Values() }

// Normalize validates a figure and returns its normalized snapshot.
// Checks run in order: axes emptiness, series shape, limit compatibility,
// style resolution. The first failure aborts with a typed error naming the
// axes and entity; the input figure is never mutated.
func Normalize(f *figure.Figure) (*Figure, error) {
	out := &Figure{
		Title:   f.Title,
		Caption: f.Caption,
		Label:   f.Label,
		Width:   f.Width,
		Height:  f.Height,
		Rows:    f.Rows,
		Cols:    f.Cols,
		Axes:    make([]Axes, 0, len(f.Axes())),
	}

	for _, ax := range f.Axes() {
		na, err := normalizeAxes(ax)
		if err != nil {
			return nil, err
		}
		out.Axes = append(out.Axes, na)
	}

	return out, nil
}

func normalizeAxes(ax *figure.Axes) (Axes, error) {
	series := ax.Series()

	// (a) every axes holds at least one series or is explicitly empty-allowed
	if len(series) == 0 {
		if !ax.AllowEmpty {
			return Axes{}, errors.New(errors.ErrCodeValidation,
				"axes (%d,%d) has no series and is not marked empty-allowed", ax.Row, ax.Col)
		}
		return emptyAxes(ax), nil
	}

	// (b) every series has equal-length, unit-tagged x/y sequences
	for _, s := range series {
		if s.X.IsZero() || s.Y.IsZero() {
			return Axes{}, errors.New(errors.ErrCodeValidation,
				"axes (%d,%d): series %q is missing unit-tagged data", ax.Row, ax.Col, s.Name)
		}
		if s.X.Len() != s.Y.Len() {
			return Axes{}, errors.New(errors.ErrCodeValidation,
				"axes (%d,%d): series %q has mismatched lengths (x=%d, y=%d)",
				ax.Row, ax.Col, s.Name, s.X.Len(), s.Y.Len())
		}
	}

	// Canonical units come from the first series on the axes.
	xUnit := series[0].X.Unit()
	yUnit := series[0].Y.Unit()

	na := Axes{
		Row:    ax.Row,
		Col:    ax.Col,
		Title:  ax.Title,
		XScale: ax.XScale,
		YScale: ax.YScale,
		XUnit:  xUnit,
		YUnit:  yUnit,
		Series: make([]Series, 0, len(series)),
	}

	for i, s := range series {
		x, err := s.X.Convert(xUnit)
		if err != nil {
			return Axes{}, errors.Wrap(errors.ErrCodeIncompatibleUnit, err,
				"axes (%d,%d): series %q x unit %q does not match axes unit %q",
				ax.Row, ax.Col, s.Name, s.X.Unit().Symbol, xUnit.Symbol)
		}
		y, err := s.Y.Convert(yUnit)
		if err != nil {
			return Axes{}, errors.Wrap(errors.ErrCodeIncompatibleUnit, err,
				"axes (%d,%d): series %q y unit %q does not match axes unit %q",
				ax.Row, ax.Col, s.Name, s.Y.Unit().Symbol, yUnit.Symbol)
		}

		// (d) style references resolve to the enumerated sets
		if err := figure.ResolveStyle(s.Style); err != nil {
			return Axes{}, errors.Wrap(errors.ErrCodeInvalidStyle, err,
				"axes (%d,%d): series %q", ax.Row, ax.Col, s.Name)
		}

		na.Series = append(na.Series, Series{
			Name:  s.Name,
			X:     x,
			Y:     y,
			Style: resolveStyleDefaults(s.Style, i),
		})
	}

	// (c) limits are converted to the canonical unit, not rejected, when
	// compatible but differently scaled
	xMin, xMax, err := resolveRange(ax.XLimits, xUnit, na.Series, "x", ax.Row, ax.Col, xExtent)
	if err != nil {
		return Axes{}, err
	}
	yMin, yMax, err := resolveRange(ax.YLimits, yUnit, na.Series, "y", ax.Row, ax.Col, yExtent)
	if err != nil {
		return Axes{}, err
	}
	na.XMin, na.XMax = xMin, xMax
	na.YMin, na.YMax = yMin, yMax

	na.XLabel = deriveLabel(ax.XLabel, "x", xUnit)
	na.YLabel = deriveLabel(ax.YLabel, "y", yUnit)

	if err := checkLogScale(&na); err != nil {
		return Axes{}, err
	}

	return na, nil
}

// deriveLabel keeps an explicit label, otherwise derives one from the
// canonical unit ("x [s]"). Dimensionless axes get the bare axis name.
func deriveLabel(explicit, axis string, u unit.Unit) string {
	if explicit != "" {
		return explicit
	}
	if u.Dim == unit.Dimensionless {
		return axis
	}
	return axis + " [" + u.Symbol + "]"
}

func emptyAxes(ax *figure.Axes) Axes {
	return Axes{
		Row:    ax.Row,
		Col:    ax.Col,
		Title:  ax.Title,
		XLabel: ax.XLabel,
		YLabel: ax.YLabel,
		XScale: ax.XScale,
		YScale: ax.YScale,
		XMin:   0, XMax: 1,
		YMin: 0, YMax: 1,
		Empty: true,
	}
}

// resolveStyleDefaults fills zero-valued style fields: palette cycle color
// by series position, solid line, no marker, 1.5pt stroke.
func resolveStyleDefaults(s figure.Style, index int) figure.Style {
	if s.Color == "" {
		s.Color = figure.Cycle[index%len(figure.Cycle)]
	}
	if s.Marker == "" {
		s.Marker = figure.MarkerNone
	}
	if s.Line == "" {
		s.Line = figure.LineSolid
	}
	if s.LineWidth == 0 {
		s.LineWidth = 1.5
	}
	return s
}

func xExtent(s *Series) (float64, float64) { return s.X.Min(), s.X.Max() }
func yExtent(s *Series) (float64, float64) { return s.Y.Min(), s.Y.Max() }

// resolveRange converts explicit limits to the canonical unit or derives the
// range from the data extent.
func resolveRange(lim *figure.Limits, canonical unit.Unit, series []Series, axis string, row, col int,
	extent func(*Series) (float64, float64)) (float64, float64, error) {

	if lim != nil {
		min, err := lim.Min.Convert(canonical)
		if err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeIncompatibleUnit, err,
				"axes (%d,%d): %s limit unit %q is incompatible with axes unit %q",
				row, col, axis, lim.Min.Unit().Symbol, canonical.Symbol)
		}
		max, err := lim.Max.Convert(canonical)
		if err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeIncompatibleUnit, err,
				"axes (%d,%d): %s limit unit %q is incompatible with axes unit %q",
				row, col, axis, lim.Max.Unit().Symbol, canonical.Symbol)
		}
		return min.Value(0), max.Value(0), nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range series {
		smin, smax := extent(&series[i])
		lo = math.Min(lo, smin)
		hi = math.Max(hi, smax)
	}
	if lo == hi {
		// Degenerate extent: widen so backends always have a drawable range.
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi, nil
}

func checkLogScale(na *Axes) error {
	if na.XScale == figure.ScaleLog {
		for i := range na.Series {
			if !na.Series[i].X.AllPositive() {
				return errors.New(errors.ErrCodeValidation,
					"axes (%d,%d): series %q has non-positive x values on a log axis",
					na.Row, na.Col, na.Series[i].Name)
			}
		}
		if na.XMin <= 0 {
			return errors.New(errors.ErrCodeValidation,
				"axes (%d,%d): x range [%g, %g] is invalid for a log axis", na.Row, na.Col, na.XMin, na.XMax)
		}
	}
	if na.YScale == figure.ScaleLog {
		for i := range na.Series {
			if !na.Series[i].Y.AllPositive() {
				return errors.New(errors.ErrCodeValidation,
					"axes (%d,%d): series %q has non-positive y values on a log axis",
					na.Row, na.Col, na.Series[i].Name)
			}
		}
		if na.YMin <= 0 {
			return errors.New(errors.ErrCodeValidation,
				"axes (%d,%d): y range [%g, %g] is invalid for a log axis", na.Row, na.Col, na.YMin, na.YMax)
		}
	}
	return nil
}
