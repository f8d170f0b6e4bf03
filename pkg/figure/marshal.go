package figure

import (
	"encoding/json"
	"fmt"

	"github.com/maxplotlib/maxplot/pkg/unit"
)

// The plain structural form of a figure. Field order is fixed by the struct
// definitions, so marshaling the same figure always yields identical bytes.
// This form is used for snapshot tests and cache keys; it is not a persisted
// file format.

type figureJSON struct {
	Title   string     `json:"title,omitempty"`
	Caption string     `json:"caption,omitempty"`
	Label   string     `json:"label,omitempty"`
	Width   float64    `json:"width"`
	Height  float64    `json:"height"`
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	Axes    []axesJSON `json:"axes"`
}

type axesJSON struct {
	Row        int          `json:"row"`
	Col        int          `json:"col"`
	Title      string       `json:"title,omitempty"`
	XLabel     string       `json:"xlabel,omitempty"`
	YLabel     string       `json:"ylabel,omitempty"`
	XScale     Scale        `json:"xscale"`
	YScale     Scale        `json:"yscale"`
	XLimits    *limitsJSON  `json:"xlimits,omitempty"`
	YLimits    *limitsJSON  `json:"ylimits,omitempty"`
	AllowEmpty bool         `json:"allow_empty,omitempty"`
	Series     []seriesJSON `json:"series"`
}

type limitsJSON struct {
	Min quantityJSON `json:"min"`
	Max quantityJSON `json:"max"`
}

type seriesJSON struct {
	Name  string       `json:"name"`
	X     quantityJSON `json:"x"`
	Y     quantityJSON `json:"y"`
	Style styleJSON    `json:"style"`
}

type styleJSON struct {
	Color     Color     `json:"color,omitempty"`
	Marker    Marker    `json:"marker,omitempty"`
	Line      LineStyle `json:"line,omitempty"`
	LineWidth float64   `json:"line_width,omitempty"`
}

type quantityJSON struct {
	Unit   string    `json:"unit"`
	Values []float64 `json:"values"`
}

func toQuantityJSON(q unit.Quantity) quantityJSON {
	return quantityJSON{Unit: q.Unit().Symbol, Values: q.Values()}
}

func toLimitsJSON(l *Limits) *limitsJSON {
	if l == nil {
		return nil
	}
	return &limitsJSON{Min: toQuantityJSON(l.Min), Max: toQuantityJSON(l.Max)}
}

// Marshal encodes the figure to its plain structural JSON form.
// The encoding is deterministic: the same specification always produces
// byte-identical output.
func Marshal(f *Figure) ([]byte, error) {
	out := figureJSON{
		Title:   f.Title,
		Caption: f.Caption,
		Label:   f.Label,
		Width:   f.Width,
		Height:  f.Height,
		Rows:    f.Rows,
		Cols:    f.Cols,
		Axes:    make([]axesJSON, 0, len(f.axes)),
	}

	for _, ax := range f.axes {
		aj := axesJSON{
			Row:        ax.Row,
			Col:        ax.Col,
			Title:      ax.Title,
			XLabel:     ax.XLabel,
			YLabel:     ax.YLabel,
			XScale:     ax.XScale,
			YScale:     ax.YScale,
			XLimits:    toLimitsJSON(ax.XLimits),
			YLimits:    toLimitsJSON(ax.YLimits),
			AllowEmpty: ax.AllowEmpty,
			Series:     make([]seriesJSON, 0, len(ax.series)),
		}
		for _, s := range ax.series {
			aj.Series = append(aj.Series, seriesJSON{
				Name: s.Name,
				X:    toQuantityJSON(s.X),
				Y:    toQuantityJSON(s.Y),
				Style: styleJSON{
					Color:     s.Style.Color,
					Marker:    s.Style.Marker,
					Line:      s.Style.Line,
					LineWidth: s.Style.LineWidth,
				},
			})
		}
		out.Axes = append(out.Axes, aj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode figure: %w", err)
	}
	return data, nil
}
