package validate

import (
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/unit"
)

// Spec reconstructs a figure specification from the normalized snapshot.
// The reconstruction is canonical: every unit, label, style, and limit is
// explicit, so normalizing it again yields an identical snapshot. This is
// what makes normalization observably idempotent.
func (nf *Figure) Spec() (*figure.Figure, error) {
	f := figure.New(
		figure.WithTitle(nf.Title),
		figure.WithCaption(nf.Caption),
		figure.WithLabel(nf.Label),
		figure.WithSize(nf.Width, nf.Height),
		figure.WithGrid(nf.Rows, nf.Cols),
	)

	for i := range nf.Axes {
		na := &nf.Axes[i]
		ax, err := f.AddAxesAt(na.Row, na.Col)
		if err != nil {
			return nil, err
		}
		ax.SetTitle(na.Title)
		ax.SetLabels(na.XLabel, na.YLabel)
		ax.AllowEmpty = na.Empty
		if err := ax.SetScales(na.XScale, na.YScale); err != nil {
			return nil, err
		}

		if na.Empty {
			continue
		}

		xMin, err := unit.New([]float64{na.XMin}, na.XUnit.Symbol)
		if err != nil {
			return nil, err
		}
		xMax, err := unit.New([]float64{na.XMax}, na.XUnit.Symbol)
		if err != nil {
			return nil, err
		}
		if err := ax.SetXLimits(xMin, xMax); err != nil {
			return nil, err
		}

		yMin, err := unit.New([]float64{na.YMin}, na.YUnit.Symbol)
		if err != nil {
			return nil, err
		}
		yMax, err := unit.New([]float64{na.YMax}, na.YUnit.Symbol)
		if err != nil {
			return nil, err
		}
		if err := ax.SetYLimits(yMin, yMax); err != nil {
			return nil, err
		}

		for j := range na.Series {
			s := &na.Series[j]
			if err := ax.AddSeries(s.Name, s.X, s.Y, figure.WithStyle(s.Style)); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
