// Package figure implements the backend-agnostic plot specification model.
//
// A Figure is an nrows×ncols grid of Axes, each holding zero or more Series
// of unit-tagged x/y data. The model is built incrementally through builder
// operations that either fully succeed or leave the specification unchanged
// and return a typed error. It holds no reference to any rendering backend
// and is serializable to a plain structural form (see Marshal) for snapshot
// testing and cache keys.
//
// # Usage
//
//	fig := figure.New(figure.WithTitle("Free fall"))
//	ax, _ := fig.AddAxes()
//	err := ax.AddSeries("height",
//	    unit.MustNew([]float64{0, 1, 2}, "s"),
//	    unit.MustNew([]float64{0, 1, 4}, "m"),
//	    figure.WithColor(figure.ColorBlue))
package figure

import (
	"math"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/unit"
)

// Scale is the axis scale mode.
type Scale string

// Supported axis scale modes.
const (
	ScaleLinear Scale = "linear"
	ScaleLog    Scale = "log"
)

// Default figure geometry, in inches. When the height is left unset it is
// derived from the width by the golden ratio, matching print conventions.
const (
	DefaultWidth = 8.0
	goldenRatio  = 0.6180339887498949
)

// Figure is the unit of rendering and export: an ordered grid of Axes plus
// figure-level metadata.
type Figure struct {
	Title   string
	Caption string
	Label   string

	// Width and Height are the figure dimensions in inches.
	Width  float64
	Height float64

	// Rows and Cols define the subplot grid.
	Rows, Cols int

	axes []*Axes
}

// Option configures a new Figure.
type Option func(*Figure)

// WithTitle sets the figure title.
func WithTitle(title string) Option { return func(f *Figure) { f.Title = title } }

// WithCaption sets the figure caption, emitted by markup backends.
func WithCaption(caption string) Option { return func(f *Figure) { f.Caption = caption } }

// WithLabel sets the cross-reference label, emitted by markup backends.
func WithLabel(label string) Option { return func(f *Figure) { f.Label = label } }

// WithSize sets the figure dimensions in inches.
func WithSize(width, height float64) Option {
	return func(f *Figure) { f.Width, f.Height = width, height }
}

// WithGrid sets the subplot grid dimensions.
func WithGrid(rows, cols int) Option {
	return func(f *Figure) { f.Rows, f.Cols = rows, cols }
}

// New creates an empty figure. Without options the figure is a 1×1 grid at
// the default width with golden-ratio height.
func New(opts ...Option) *Figure {
	f := &Figure{Rows: 1, Cols: 1}
	for _, opt := range opts {
		opt(f)
	}
	if f.Rows < 1 {
		f.Rows = 1
	}
	if f.Cols < 1 {
		f.Cols = 1
	}
	if f.Width <= 0 {
		f.Width = DefaultWidth
	}
	if f.Height <= 0 {
		f.Height = math.Round(f.Width*goldenRatio*100) / 100
	}
	return f
}

// Axes returns the figure's axes in insertion order.
func (f *Figure) Axes() []*Axes { return f.axes }

// AxesAt returns the axes at the given grid cell, if occupied.
func (f *Figure) AxesAt(row, col int) (*Axes, bool) {
	for _, ax := range f.axes {
		if ax.Row == row && ax.Col == col {
			return ax, true
		}
	}
	return nil, false
}

// AddAxes places new axes into the first free grid cell, scanning rows
// top-to-bottom and columns left-to-right. It fails with INVALID_SPEC when
// the grid is full.
func (f *Figure) AddAxes() (*Axes, error) {
	for row := 0; row < f.Rows; row++ {
		for col := 0; col < f.Cols; col++ {
			if _, taken := f.AxesAt(row, col); !taken {
				return f.addAxesAt(row, col)
			}
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidSpec,
		"figure grid %dx%d is full", f.Rows, f.Cols)
}

// AddAxesAt places new axes at an explicit grid cell.
// It fails with INVALID_SPEC when the cell is out of range or occupied.
func (f *Figure) AddAxesAt(row, col int) (*Axes, error) {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"axes position (%d,%d) outside figure grid %dx%d", row, col, f.Rows, f.Cols)
	}
	if _, taken := f.AxesAt(row, col); taken {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"axes position (%d,%d) already occupied", row, col)
	}
	return f.addAxesAt(row, col)
}

func (f *Figure) addAxesAt(row, col int) (*Axes, error) {
	ax := &Axes{Row: row, Col: col, XScale: ScaleLinear, YScale: ScaleLinear}
	f.axes = append(f.axes, ax)
	return ax, nil
}

// Limits are explicit axis bounds expressed as unit-tagged scalars.
type Limits struct {
	Min unit.Quantity
	Max unit.Quantity
}

// Axes is a single subplot: series, labels, scales, and optional limits.
type Axes struct {
	Row, Col int

	Title  string
	XLabel string
	YLabel string

	XScale Scale
	YScale Scale

	// XLimits and YLimits, when set, are unit-checked against the axes'
	// series during validation and converted to the canonical unit.
	XLimits *Limits
	YLimits *Limits

	// AllowEmpty marks axes that may intentionally hold no series.
	AllowEmpty bool

	series []Series
}

// Series returns the series on these axes in insertion order.
func (a *Axes) Series() []Series { return a.series }

// SetTitle sets the axes title.
func (a *Axes) SetTitle(title string) { a.Title = title }

// SetLabels sets the axis labels. Empty labels are derived from the
// canonical units during validation.
func (a *Axes) SetLabels(xlabel, ylabel string) {
	a.XLabel, a.YLabel = xlabel, ylabel
}

// SetScales sets the scale mode per axis direction.
// It fails with INVALID_SPEC for unknown scale modes.
func (a *Axes) SetScales(x, y Scale) error {
	if !validScale(x) || !validScale(y) {
		return errors.New(errors.ErrCodeInvalidSpec,
			"invalid scale mode (%q, %q): must be %q or %q", x, y, ScaleLinear, ScaleLog)
	}
	a.XScale, a.YScale = x, y
	return nil
}

func validScale(s Scale) bool { return s == ScaleLinear || s == ScaleLog }

// SetXLimits sets explicit x bounds. Both bounds must be scalar quantities
// with min < max and mutually compatible units; unit compatibility with the
// axes' data is checked during validation so that limits may be set before
// any series exist.
func (a *Axes) SetXLimits(min, max unit.Quantity) error {
	lim, err := newLimits(min, max, "x")
	if err != nil {
		return err
	}
	a.XLimits = lim
	return nil
}

// SetYLimits sets explicit y bounds. See SetXLimits.
func (a *Axes) SetYLimits(min, max unit.Quantity) error {
	lim, err := newLimits(min, max, "y")
	if err != nil {
		return err
	}
	a.YLimits = lim
	return nil
}

func newLimits(min, max unit.Quantity, axis string) (*Limits, error) {
	if min.Len() != 1 || max.Len() != 1 {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"%s limits must be scalar quantities", axis)
	}
	if !unit.Compatible(min.Unit(), max.Unit()) {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"%s limits have incompatible units %q and %q", axis, min.Unit().Symbol, max.Unit().Symbol)
	}
	converted, err := max.Convert(min.Unit())
	if err != nil {
		return nil, err
	}
	if min.Value(0) >= converted.Value(0) {
		return nil, errors.New(errors.ErrCodeInvalidSpec,
			"%s limits are empty: min %v >= max %v %s", axis, min.Value(0), converted.Value(0), min.Unit().Symbol)
	}
	return &Limits{Min: min, Max: max}, nil
}

// AddSeries appends a named series to the axes. The x and y sequences must
// be non-empty, equal in length, and unit-tagged. Style options are checked
// against the enumerated style sets. On any failure the axes are unchanged.
func (a *Axes) AddSeries(name string, x, y unit.Quantity, opts ...SeriesOption) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	for _, s := range a.series {
		if s.Name == name {
			return errors.New(errors.ErrCodeInvalidSpec,
				"series %q already exists on axes (%d,%d)", name, a.Row, a.Col)
		}
	}
	if x.IsZero() || y.IsZero() {
		return errors.New(errors.ErrCodeInvalidSpec,
			"series %q: x and y must be unit-tagged quantities", name)
	}
	if x.Len() == 0 || y.Len() == 0 {
		return errors.New(errors.ErrCodeInvalidSpec, "series %q has no data", name)
	}
	if x.Len() != y.Len() {
		return errors.New(errors.ErrCodeInvalidSpec,
			"series %q: x has %d points, y has %d", name, x.Len(), y.Len())
	}

	s := Series{Name: name, X: x, Y: y}
	for _, opt := range opts {
		if err := opt(&s.Style); err != nil {
			return err
		}
	}

	a.series = append(a.series, s)
	return nil
}
