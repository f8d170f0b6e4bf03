package figure

import (
	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/unit"
)

// Series is a named ordered sequence of (x, y) quantity pairs plus display
// style attributes. The x and y sequences always have equal length.
type Series struct {
	Name  string
	X, Y  unit.Quantity
	Style Style
}

// Color is a named color from the enumerated palette.
type Color string

// The color palette. Hex values follow the matplotlib "tab10" cycle plus black.
const (
	ColorBlue   Color = "blue"
	ColorOrange Color = "orange"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorBrown  Color = "brown"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
	ColorOlive  Color = "olive"
	ColorCyan   Color = "cyan"
	ColorBlack  Color = "black"
)

// Palette maps color names to their hex values.
var Palette = map[Color]string{
	ColorBlue:   "#1f77b4",
	ColorOrange: "#ff7f0e",
	ColorGreen:  "#2ca02c",
	ColorRed:    "#d62728",
	ColorPurple: "#9467bd",
	ColorBrown:  "#8c564b",
	ColorPink:   "#e377c2",
	ColorGray:   "#7f7f7f",
	ColorOlive:  "#bcbd22",
	ColorCyan:   "#17becf",
	ColorBlack:  "#000000",
}

// Cycle is the default color assignment order for series without an explicit
// color, indexed by series position on the axes.
var Cycle = []Color{
	ColorBlue, ColorOrange, ColorGreen, ColorRed, ColorPurple,
	ColorBrown, ColorPink, ColorGray, ColorOlive, ColorCyan,
}

// Marker is a named point marker shape.
type Marker string

// Supported marker shapes.
const (
	MarkerNone     Marker = "none"
	MarkerCircle   Marker = "circle"
	MarkerSquare   Marker = "square"
	MarkerTriangle Marker = "triangle"
	MarkerDiamond  Marker = "diamond"
	MarkerPlus     Marker = "plus"
	MarkerCross    Marker = "cross"
)

var validMarkers = map[Marker]bool{
	MarkerNone: true, MarkerCircle: true, MarkerSquare: true,
	MarkerTriangle: true, MarkerDiamond: true, MarkerPlus: true, MarkerCross: true,
}

// LineStyle is a named line dash pattern.
type LineStyle string

// Supported line styles.
const (
	LineSolid   LineStyle = "solid"
	LineDashed  LineStyle = "dashed"
	LineDotted  LineStyle = "dotted"
	LineDashDot LineStyle = "dashdot"
	LineNone    LineStyle = "none"
)

var validLineStyles = map[LineStyle]bool{
	LineSolid: true, LineDashed: true, LineDotted: true,
	LineDashDot: true, LineNone: true,
}

// Style holds the display attributes of a series. Zero-valued fields are
// resolved to defaults (palette cycle color, solid line, no marker) during
// validation.
type Style struct {
	Color  Color
	Marker Marker
	Line   LineStyle

	// LineWidth is the stroke width in points. Zero means the default.
	LineWidth float64
}

// SeriesOption configures the style of a series being added.
type SeriesOption func(*Style) error

// WithColor sets the series color from the enumerated palette.
func WithColor(c Color) SeriesOption {
	return func(s *Style) error {
		if _, ok := Palette[c]; !ok {
			return errors.New(errors.ErrCodeInvalidStyle, "unknown color %q", c)
		}
		s.Color = c
		return nil
	}
}

// WithMarker sets the series marker shape.
func WithMarker(m Marker) SeriesOption {
	return func(s *Style) error {
		if !validMarkers[m] {
			return errors.New(errors.ErrCodeInvalidStyle, "unknown marker %q", m)
		}
		s.Marker = m
		return nil
	}
}

// WithLineStyle sets the series line dash pattern.
func WithLineStyle(l LineStyle) SeriesOption {
	return func(s *Style) error {
		if !validLineStyles[l] {
			return errors.New(errors.ErrCodeInvalidStyle, "unknown line style %q", l)
		}
		s.Line = l
		return nil
	}
}

// WithLineWidth sets the stroke width in points.
func WithLineWidth(w float64) SeriesOption {
	return func(s *Style) error {
		if w <= 0 {
			return errors.New(errors.ErrCodeInvalidStyle, "line width must be positive, got %v", w)
		}
		s.LineWidth = w
		return nil
	}
}

// WithStyle sets the whole style at once, validating every field.
// Intended for callers that assemble styles from external documents.
func WithStyle(style Style) SeriesOption {
	return func(s *Style) error {
		if err := ResolveStyle(style); err != nil {
			return err
		}
		*s = style
		return nil
	}
}

// ResolveStyle validates a style whose fields may come from external input
// (e.g., a TOML document) and reports the first invalid reference.
func ResolveStyle(s Style) error {
	if s.Color != "" {
		if _, ok := Palette[s.Color]; !ok {
			return errors.New(errors.ErrCodeInvalidStyle, "unknown color %q", s.Color)
		}
	}
	if s.Marker != "" && !validMarkers[s.Marker] {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown marker %q", s.Marker)
	}
	if s.Line != "" && !validLineStyles[s.Line] {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown line style %q", s.Line)
	}
	if s.LineWidth < 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "line width must not be negative, got %v", s.LineWidth)
	}
	return nil
}
