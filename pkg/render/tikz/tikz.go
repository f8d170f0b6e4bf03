// Package tikz implements the TikZ rendering backend. It emits pgfplots
// markup for inclusion in LaTeX documents, optionally wrapped in a
// standalone document that compiles on its own with pdflatex.
//
// Importing the package registers it under the name "tikz":
//
//	import _ "github.com/maxplotlib/maxplot/pkg/render/tikz"
package tikz

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/render"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

// BackendName is the registry name of this backend.
const BackendName = "tikz"

func init() {
	render.Register(&backend{})
}

type backend struct{}

func (*backend) Name() string { return BackendName }

func (*backend) Capabilities() render.Capability {
	return render.CapRender | render.CapExportVector
}

// ConcurrentSafe is true: rendering only builds strings.
func (*backend) ConcurrentSafe() bool { return true }

func (*backend) Render(nf *validate.Figure) (render.Handle, error) {
	return &handle{
		BaseHandle: render.NewBaseHandle(BackendName, (&backend{}).Capabilities()),
		fig:        nf,
	}, nil
}

type handle struct {
	render.BaseHandle
	fig *validate.Figure
}

// ExportVector writes pgfplots markup. Without Standalone the output is a
// figure environment (with caption and label when set) ready for \input into
// a larger document; with Standalone it is a complete compilable document.
// LaTeX renders text as text by definition, so FontModePath is refused.
func (h *handle) ExportVector(w io.Writer, opts render.VectorOptions) error {
	if err := h.CheckOpen(); err != nil {
		return err
	}
	if opts.FontMode == render.FontModePath {
		return render.ErrUnsupportedExport(BackendName, "vector with font mode \"path\"")
	}

	var buf bytes.Buffer
	if opts.Standalone {
		writeStandalone(&buf, h.fig)
	} else {
		writeFigureEnv(&buf, h.fig)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeStandalone(buf *bytes.Buffer, nf *validate.Figure) {
	buf.WriteString("\\documentclass{standalone}\n")
	buf.WriteString("\\usepackage{pgfplots}\n")
	buf.WriteString("\\pgfplotsset{compat=1.18}\n")
	if multiCell(nf) {
		buf.WriteString("\\usepgfplotslibrary{groupplots}\n")
	}
	buf.WriteString("\\begin{document}\n")
	writeTikzPicture(buf, nf)
	buf.WriteString("\\end{document}\n")
}

func writeFigureEnv(buf *bytes.Buffer, nf *validate.Figure) {
	buf.WriteString("\\begin{figure}[htb!]\n\\centering\n")
	writeTikzPicture(buf, nf)
	if nf.Caption != "" {
		fmt.Fprintf(buf, "\\caption{%s}\n", escape(nf.Caption))
	}
	if nf.Label != "" {
		fmt.Fprintf(buf, "\\label{%s}\n", nf.Label)
	}
	buf.WriteString("\\end{figure}\n")
}

func multiCell(nf *validate.Figure) bool { return nf.Rows*nf.Cols > 1 }

func writeTikzPicture(buf *bytes.Buffer, nf *validate.Figure) {
	writeColorDefs(buf, nf)
	buf.WriteString("\\begin{tikzpicture}\n")

	axW := nf.Width / float64(nf.Cols)
	axH := nf.Height / float64(nf.Rows)

	if multiCell(nf) {
		fmt.Fprintf(buf, "\\begin{groupplot}[group style={group size=%d by %d}, width=%sin, height=%sin]\n",
			nf.Cols, nf.Rows, num(axW), num(axH))
		// groupplot consumes cells strictly row-major, so every cell is
		// emitted, present or not.
		for row := 0; row < nf.Rows; row++ {
			for col := 0; col < nf.Cols; col++ {
				ax := axesAt(nf, row, col)
				if ax == nil {
					buf.WriteString("\\nextgroupplot[group/empty plot]\n")
					continue
				}
				fmt.Fprintf(buf, "\\nextgroupplot[%s]\n", strings.Join(axisOptions(ax, nf), ", "))
				writePlots(buf, ax)
			}
		}
		buf.WriteString("\\end{groupplot}\n")
	} else if len(nf.Axes) > 0 {
		ax := &nf.Axes[0]
		opts := append(axisOptions(ax, nf),
			"width="+num(axW)+"in",
			"height="+num(axH)+"in")
		fmt.Fprintf(buf, "\\begin{axis}[%s]\n", strings.Join(opts, ", "))
		writePlots(buf, ax)
		buf.WriteString("\\end{axis}\n")
	}

	buf.WriteString("\\end{tikzpicture}\n")
}

func axesAt(nf *validate.Figure, row, col int) *validate.Axes {
	for i := range nf.Axes {
		if nf.Axes[i].Row == row && nf.Axes[i].Col == col {
			return &nf.Axes[i]
		}
	}
	return nil
}

// writeColorDefs declares one named color per palette color used, sorted for
// stable output.
func writeColorDefs(buf *bytes.Buffer, nf *validate.Figure) {
	used := make(map[figure.Color]bool)
	for i := range nf.Axes {
		for j := range nf.Axes[i].Series {
			used[nf.Axes[i].Series[j].Style.Color] = true
		}
	}
	names := make([]string, 0, len(used))
	for c := range used {
		names = append(names, string(c))
	}
	sort.Strings(names)
	for _, name := range names {
		hex := strings.ToUpper(strings.TrimPrefix(figure.Palette[figure.Color(name)], "#"))
		fmt.Fprintf(buf, "\\definecolor{plot%s}{HTML}{%s}\n", name, hex)
	}
}

func axisOptions(ax *validate.Axes, nf *validate.Figure) []string {
	opts := []string{"grid=major", "legend pos=north east"}

	title := ax.Title
	if title == "" && !multiCell(nf) {
		title = nf.Title
	}
	if title != "" {
		opts = append(opts, "title={"+escape(title)+"}")
	}
	if ax.XLabel != "" {
		opts = append(opts, "xlabel={"+escape(ax.XLabel)+"}")
	}
	if ax.YLabel != "" {
		opts = append(opts, "ylabel={"+escape(ax.YLabel)+"}")
	}
	opts = append(opts,
		"xmin="+num(ax.XMin), "xmax="+num(ax.XMax),
		"ymin="+num(ax.YMin), "ymax="+num(ax.YMax))
	if ax.XScale == figure.ScaleLog {
		opts = append(opts, "xmode=log")
	}
	if ax.YScale == figure.ScaleLog {
		opts = append(opts, "ymode=log")
	}
	return opts
}

func writePlots(buf *bytes.Buffer, ax *validate.Axes) {
	for i := range ax.Series {
		s := &ax.Series[i]
		fmt.Fprintf(buf, "\\addplot[color=plot%s, %s, mark=%s, line width=%spt] coordinates {\n",
			s.Style.Color, lineOption(s.Style.Line), markOption(s.Style.Marker), num(s.Style.LineWidth))
		xs, ys := s.XValues(), s.YValues()
		for j := range xs {
			fmt.Fprintf(buf, "    (%s, %s)\n", num(xs[j]), num(ys[j]))
		}
		buf.WriteString("};\n")
		fmt.Fprintf(buf, "\\addlegendentry{%s}\n", escape(s.Name))
	}
}

func lineOption(style figure.LineStyle) string {
	switch style {
	case figure.LineDashed:
		return "dashed"
	case figure.LineDotted:
		return "dotted"
	case figure.LineDashDot:
		return "dash dot"
	case figure.LineNone:
		return "only marks"
	default:
		return "solid"
	}
}

func markOption(m figure.Marker) string {
	switch m {
	case figure.MarkerCircle:
		return "*"
	case figure.MarkerSquare:
		return "square*"
	case figure.MarkerTriangle:
		return "triangle*"
	case figure.MarkerDiamond:
		return "diamond*"
	case figure.MarkerPlus:
		return "+"
	case figure.MarkerCross:
		return "x"
	default:
		return "none"
	}
}

var latexEscaper = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"%", "\\%",
	"&", "\\&",
	"#", "\\#",
	"_", "\\_",
	"$", "\\$",
	"{", "\\{",
	"}", "\\}",
	"~", "\\textasciitilde{}",
	"^", "\\textasciicircum{}",
)

// escape makes arbitrary text safe inside LaTeX arguments.
func escape(s string) string { return latexEscaper.Replace(s) }

func num(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
