package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/unit"
)

// figureDoc is the TOML form of a figure specification.
//
// Example document:
//
//	title = "Free fall"
//	rows = 1
//	cols = 1
//
//	[[axes]]
//	row = 0
//	col = 0
//
//	[[axes.series]]
//	name = "height"
//	x = { values = [0.0, 1.0, 2.0], unit = "s" }
//	y = { values = [0.0, 1.0, 4.0], unit = "m" }
//	marker = "circle"
type figureDoc struct {
	Title   string  `toml:"title"`
	Caption string  `toml:"caption"`
	Label   string  `toml:"label"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Rows    int     `toml:"rows"`
	Cols    int     `toml:"cols"`

	Axes []axesDoc `toml:"axes"`
}

type axesDoc struct {
	Row int `toml:"row"`
	Col int `toml:"col"`

	Title  string `toml:"title"`
	XLabel string `toml:"xlabel"`
	YLabel string `toml:"ylabel"`
	XScale string `toml:"xscale"`
	YScale string `toml:"yscale"`

	XLim *limitDoc `toml:"xlim"`
	YLim *limitDoc `toml:"ylim"`

	AllowEmpty bool `toml:"allow_empty"`

	Series []seriesDoc `toml:"series"`
}

type limitDoc struct {
	Min  float64 `toml:"min"`
	Max  float64 `toml:"max"`
	Unit string  `toml:"unit"`
}

type seriesDoc struct {
	Name string      `toml:"name"`
	X    quantityDoc `toml:"x"`
	Y    quantityDoc `toml:"y"`

	Color     string  `toml:"color"`
	Marker    string  `toml:"marker"`
	Line      string  `toml:"line"`
	LineWidth float64 `toml:"line_width"`
}

type quantityDoc struct {
	Values []float64 `toml:"values"`
	Unit   string    `toml:"unit"`
}

// loadFigure reads a TOML figure document and builds the figure through the
// regular builder API, so documents are held to exactly the same rules as
// code.
func loadFigure(path string) (*figure.Figure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "read figure document")
	}
	return parseFigure(data)
}

func parseFigure(data []byte) (*figure.Figure, error) {
	var doc figureDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "parse figure document")
	}

	var opts []figure.Option
	if doc.Title != "" {
		opts = append(opts, figure.WithTitle(doc.Title))
	}
	if doc.Caption != "" {
		opts = append(opts, figure.WithCaption(doc.Caption))
	}
	if doc.Label != "" {
		opts = append(opts, figure.WithLabel(doc.Label))
	}
	if doc.Width != 0 || doc.Height != 0 {
		opts = append(opts, figure.WithSize(doc.Width, doc.Height))
	}
	if doc.Rows != 0 || doc.Cols != 0 {
		opts = append(opts, figure.WithGrid(doc.Rows, doc.Cols))
	}
	f := figure.New(opts...)

	for i := range doc.Axes {
		if err := buildAxes(f, &doc.Axes[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func buildAxes(f *figure.Figure, doc *axesDoc) error {
	ax, err := f.AddAxesAt(doc.Row, doc.Col)
	if err != nil {
		return err
	}

	ax.SetTitle(doc.Title)
	ax.SetLabels(doc.XLabel, doc.YLabel)
	ax.AllowEmpty = doc.AllowEmpty

	xs, err := parseScale(doc.XScale)
	if err != nil {
		return err
	}
	ys, err := parseScale(doc.YScale)
	if err != nil {
		return err
	}
	if err := ax.SetScales(xs, ys); err != nil {
		return err
	}

	if doc.XLim != nil {
		min, max, err := parseLimit(doc.XLim)
		if err != nil {
			return err
		}
		if err := ax.SetXLimits(min, max); err != nil {
			return err
		}
	}
	if doc.YLim != nil {
		min, max, err := parseLimit(doc.YLim)
		if err != nil {
			return err
		}
		if err := ax.SetYLimits(min, max); err != nil {
			return err
		}
	}

	for i := range doc.Series {
		if err := buildSeries(ax, &doc.Series[i]); err != nil {
			return err
		}
	}
	return nil
}

func buildSeries(ax *figure.Axes, doc *seriesDoc) error {
	x, err := unit.New(doc.X.Values, doc.X.Unit)
	if err != nil {
		return err
	}
	y, err := unit.New(doc.Y.Values, doc.Y.Unit)
	if err != nil {
		return err
	}

	var opts []figure.SeriesOption
	if doc.Color != "" {
		opts = append(opts, figure.WithColor(figure.Color(doc.Color)))
	}
	if doc.Marker != "" {
		opts = append(opts, figure.WithMarker(figure.Marker(doc.Marker)))
	}
	if doc.Line != "" {
		opts = append(opts, figure.WithLineStyle(figure.LineStyle(doc.Line)))
	}
	if doc.LineWidth != 0 {
		opts = append(opts, figure.WithLineWidth(doc.LineWidth))
	}
	return ax.AddSeries(doc.Name, x, y, opts...)
}

func parseScale(s string) (figure.Scale, error) {
	switch s {
	case "", "linear":
		return figure.ScaleLinear, nil
	case "log":
		return figure.ScaleLog, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidSpec, "unknown scale %q (must be 'linear' or 'log')", s)
	}
}

func parseLimit(doc *limitDoc) (unit.Quantity, unit.Quantity, error) {
	min, err := unit.Scalar(doc.Min, doc.Unit)
	if err != nil {
		return unit.Quantity{}, unit.Quantity{}, err
	}
	max, err := unit.Scalar(doc.Max, doc.Unit)
	if err != nil {
		return unit.Quantity{}, unit.Quantity{}, err
	}
	return min, max, nil
}
