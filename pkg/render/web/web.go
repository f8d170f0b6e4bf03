// Package web implements the web rendering backend. It renders figures to
// inline SVG markup and wraps it in a self-contained HTML document with
// embedded CSS and JavaScript for hover interactivity. No external assets
// are referenced; the output opens directly in any browser.
//
// Importing the package registers it under the name "web":
//
//	import _ "github.com/maxplotlib/maxplot/pkg/render/web"
package web

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/render"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

// BackendName is the registry name of this backend.
const BackendName = "web"

// pxPerInch is the SVG user-unit density. SVG coordinates are resolution
// independent, so this is a fixed layout constant rather than an export DPI.
const pxPerInch = 100.0

func init() {
	render.Register(&backend{})
}

type backend struct{}

func (*backend) Name() string { return BackendName }

func (*backend) Capabilities() render.Capability {
	return render.CapRender | render.CapExportVector | render.CapExportInteractive
}

// ConcurrentSafe is true: rendering only builds strings.
func (*backend) ConcurrentSafe() bool { return true }

func (*backend) Render(nf *validate.Figure) (render.Handle, error) {
	return &handle{
		BaseHandle: render.NewBaseHandle(BackendName, (&backend{}).Capabilities()),
		svg:        buildSVG(nf, true),
		svgStatic:  buildSVG(nf, false),
		title:      nf.Title,
	}, nil
}

type handle struct {
	render.BaseHandle

	svg       string // with hover classes for the interactive document
	svgStatic string // plain markup for vector export
	title     string
}

// ExportVector writes the figure as standalone SVG. Text stays as text
// elements; this backend has no glyph outliner, so FontModePath is refused.
func (h *handle) ExportVector(w io.Writer, opts render.VectorOptions) error {
	if err := h.CheckOpen(); err != nil {
		return err
	}
	if opts.FontMode == render.FontModePath {
		return render.ErrUnsupportedExport(BackendName, "vector with font mode \"path\"")
	}
	_, err := io.WriteString(w, h.svgStatic)
	return err
}

// ExportInteractive writes a self-contained HTML document. With Static set
// the hover scripts are omitted and the document is a plain viewer page.
func (h *handle) ExportInteractive(w io.Writer, opts render.InteractiveOptions) error {
	if err := h.CheckOpen(); err != nil {
		return err
	}

	title := h.title
	if title == "" {
		title = "figure"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("<style>\n" + documentCSS + "</style>\n</head>\n<body>\n<div class=\"plot\">\n")
	if opts.Static {
		buf.WriteString(h.svgStatic)
	} else {
		buf.WriteString(h.svg)
	}
	buf.WriteString("\n</div>\n")
	if !opts.Static {
		buf.WriteString("<script>\n" + hoverJS + "</script>\n")
	}
	buf.WriteString("</body>\n</html>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

const documentCSS = `body { margin: 0; background: #f4f4f4; font-family: sans-serif; }
.plot { display: flex; justify-content: center; padding: 24px; }
.plot svg { background: #fff; box-shadow: 0 1px 4px rgba(0,0,0,0.2); }
.series-pt { opacity: 0; }
.series-pt:hover, .series-pt.active { opacity: 1; }
.series.dim { opacity: 0.25; }
`

const hoverJS = `document.querySelectorAll('.series').forEach(function (g) {
  g.addEventListener('mouseenter', function () {
    document.querySelectorAll('.series').forEach(function (o) {
      if (o !== g) o.classList.add('dim');
    });
  });
  g.addEventListener('mouseleave', function () {
    document.querySelectorAll('.series').forEach(function (o) {
      o.classList.remove('dim');
    });
  });
});
`

// Layout margins in inches, matching the raster backend's proportions.
const (
	marginLeft   = 0.65
	marginRight  = 0.15
	marginTop    = 0.35
	marginBottom = 0.50
	titleBand    = 0.30
)

func buildSVG(nf *validate.Figure, interactive bool) string {
	width := nf.Width * pxPerInch
	height := nf.Height * pxPerInch

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" font-family="Helvetica, Arial, sans-serif" font-size="11">`+"\n",
		num(width), num(height), num(width), num(height))
	fmt.Fprintf(&buf, `<rect width="%s" height="%s" fill="#ffffff"/>`+"\n", num(width), num(height))

	top := 0.0
	if nf.Title != "" {
		top = titleBand * pxPerInch
		fmt.Fprintf(&buf, `<text x="%s" y="%s" text-anchor="middle" font-size="14">%s</text>`+"\n",
			num(width/2), num(top/2+5), html.EscapeString(nf.Title))
	}

	cellW := width / float64(nf.Cols)
	cellH := (height - top) / float64(nf.Rows)

	for i := range nf.Axes {
		ax := &nf.Axes[i]
		x0 := float64(ax.Col) * cellW
		y0 := top + float64(ax.Row)*cellH
		writeAxes(&buf, ax, x0, y0, cellW, cellH, interactive)
	}

	buf.WriteString("</svg>")
	return buf.String()
}

func writeAxes(buf *bytes.Buffer, ax *validate.Axes, x0, y0, cellW, cellH float64, interactive bool) {
	px := x0 + marginLeft*pxPerInch
	py := y0 + marginTop*pxPerInch
	pw := cellW - (marginLeft+marginRight)*pxPerInch
	ph := cellH - (marginTop+marginBottom)*pxPerInch

	xmap := newAxisMap(ax.XMin, ax.XMax, ax.XScale, px, px+pw)
	ymap := newAxisMap(ax.YMin, ax.YMax, ax.YScale, py+ph, py)

	xticks := ticks(ax.XMin, ax.XMax, ax.XScale)
	yticks := ticks(ax.YMin, ax.YMax, ax.YScale)

	// Grid.
	buf.WriteString(`<g stroke="#d9d9d9" stroke-width="0.5" stroke-dasharray="1.5,3">` + "\n")
	for _, v := range xticks {
		x := xmap.pixel(v)
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(x), num(py), num(x), num(py+ph))
	}
	for _, v := range yticks {
		y := ymap.pixel(v)
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(px), num(y), num(px+pw), num(y))
	}
	buf.WriteString("</g>\n")

	// Frame and ticks.
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#000"/>`+"\n",
		num(px), num(py), num(pw), num(ph))
	for _, v := range xticks {
		x := xmap.pixel(v)
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#000"/>`+"\n",
			num(x), num(py+ph), num(x), num(py+ph-4))
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			num(x), num(py+ph+14), formatTick(v))
	}
	for _, v := range yticks {
		y := ymap.pixel(v)
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#000"/>`+"\n",
			num(px), num(y), num(px+4), num(y))
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="end">%s</text>`+"\n",
			num(px-6), num(y+4), formatTick(v))
	}

	if ax.Title != "" {
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" font-size="12">%s</text>`+"\n",
			num(px+pw/2), num(py-10), html.EscapeString(ax.Title))
	}
	if ax.XLabel != "" {
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			num(px+pw/2), num(py+ph+32), html.EscapeString(ax.XLabel))
	}
	if ax.YLabel != "" {
		cx, cy := px-42, py+ph/2
		fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="middle" transform="rotate(-90 %s %s)">%s</text>`+"\n",
			num(cx), num(cy), num(cx), num(cy), html.EscapeString(ax.YLabel))
	}

	if ax.Empty {
		return
	}

	for i := range ax.Series {
		writeSeries(buf, &ax.Series[i], xmap, ymap, interactive)
	}
	writeLegend(buf, ax, px, py, pw)
}

func writeSeries(buf *bytes.Buffer, s *validate.Series, xmap, ymap axisMap, interactive bool) {
	xs, ys := s.XValues(), s.YValues()
	color := figure.Palette[s.Style.Color]

	fmt.Fprintf(buf, `<g class="series" data-name="%s">`+"\n", html.EscapeString(s.Name))

	if s.Style.Line != figure.LineNone {
		var pts bytes.Buffer
		for i := range xs {
			if i > 0 {
				pts.WriteByte(' ')
			}
			pts.WriteString(num(xmap.pixel(xs[i])) + "," + num(ymap.pixel(ys[i])))
		}
		fmt.Fprintf(buf, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
			pts.String(), color, num(s.Style.LineWidth), dashAttr(s.Style.Line))
	}

	if s.Style.Marker != figure.MarkerNone {
		for i := range xs {
			writeMarker(buf, s.Style.Marker, xmap.pixel(xs[i]), ymap.pixel(ys[i]), 3.5, color)
		}
	}

	if interactive {
		// Invisible hover targets carrying native tooltips per data point.
		for i := range xs {
			fmt.Fprintf(buf, `<circle class="series-pt" cx="%s" cy="%s" r="5" fill="%s"><title>%s: (%s, %s)</title></circle>`+"\n",
				num(xmap.pixel(xs[i])), num(ymap.pixel(ys[i])), color,
				html.EscapeString(s.Name), formatTick(xs[i]), formatTick(ys[i]))
		}
	}

	buf.WriteString("</g>\n")
}

func dashAttr(style figure.LineStyle) string {
	switch style {
	case figure.LineDashed:
		return ` stroke-dasharray="6,4"`
	case figure.LineDotted:
		return ` stroke-dasharray="1.5,3"`
	case figure.LineDashDot:
		return ` stroke-dasharray="6,3,1.5,3"`
	default:
		return ""
	}
}

func writeMarker(buf *bytes.Buffer, m figure.Marker, x, y, r float64, color string) {
	switch m {
	case figure.MarkerCircle:
		fmt.Fprintf(buf, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n", num(x), num(y), num(r), color)
	case figure.MarkerSquare:
		fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(x-r), num(y-r), num(2*r), num(2*r), color)
	case figure.MarkerTriangle:
		fmt.Fprintf(buf, `<path d="M %s %s L %s %s L %s %s Z" fill="%s"/>`+"\n",
			num(x), num(y-r), num(x-r), num(y+r), num(x+r), num(y+r), color)
	case figure.MarkerDiamond:
		fmt.Fprintf(buf, `<path d="M %s %s L %s %s L %s %s L %s %s Z" fill="%s"/>`+"\n",
			num(x), num(y-r), num(x+r), num(y), num(x), num(y+r), num(x-r), num(y), color)
	case figure.MarkerPlus:
		fmt.Fprintf(buf, `<path d="M %s %s H %s M %s %s V %s" stroke="%s"/>`+"\n",
			num(x-r), num(y), num(x+r), num(x), num(y-r), num(y+r), color)
	case figure.MarkerCross:
		fmt.Fprintf(buf, `<path d="M %s %s L %s %s M %s %s L %s %s" stroke="%s"/>`+"\n",
			num(x-r), num(y-r), num(x+r), num(y+r), num(x-r), num(y+r), num(x+r), num(y-r), color)
	}
}

func writeLegend(buf *bytes.Buffer, ax *validate.Axes, px, py, pw float64) {
	const (
		lineLen = 18.0
		rowH    = 15.0
		pad     = 6.0
		charW   = 6.5 // approximation for the 11px sans face
	)

	maxW := 0.0
	for i := range ax.Series {
		maxW = math.Max(maxW, float64(len(ax.Series[i].Name))*charW)
	}
	boxW := lineLen + 3*pad + maxW
	boxH := rowH*float64(len(ax.Series)) + pad
	x0 := px + pw - boxW - pad
	y0 := py + pad

	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="#fff" fill-opacity="0.85" stroke="#666" stroke-width="0.8"/>`+"\n",
		num(x0), num(y0), num(boxW), num(boxH))

	for i := range ax.Series {
		s := &ax.Series[i]
		cy := y0 + pad/2 + rowH*float64(i) + rowH/2
		color := figure.Palette[s.Style.Color]
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"%s/>`+"\n",
			num(x0+pad), num(cy), num(x0+pad+lineLen), num(cy), color, num(s.Style.LineWidth), dashAttr(s.Style.Line))
		if s.Style.Marker != figure.MarkerNone {
			writeMarker(buf, s.Style.Marker, x0+pad+lineLen/2, cy, 3, color)
		}
		fmt.Fprintf(buf, `<text x="%s" y="%s">%s</text>`+"\n",
			num(x0+2*pad+lineLen), num(cy+4), html.EscapeString(s.Name))
	}
}

type axisMap struct {
	min, max float64
	log      bool
	p0, p1   float64
}

func newAxisMap(min, max float64, scale figure.Scale, p0, p1 float64) axisMap {
	m := axisMap{min: min, max: max, log: scale == figure.ScaleLog, p0: p0, p1: p1}
	if m.log {
		m.min, m.max = math.Log10(min), math.Log10(max)
	}
	return m
}

func (m axisMap) pixel(v float64) float64 {
	if m.log {
		v = math.Log10(v)
	}
	t := (v - m.min) / (m.max - m.min)
	return m.p0 + t*(m.p1-m.p0)
}

func ticks(min, max float64, scale figure.Scale) []float64 {
	if scale == figure.ScaleLog {
		var out []float64
		for e := math.Floor(math.Log10(min)); e <= math.Ceil(math.Log10(max)); e++ {
			v := math.Pow(10, e)
			if v >= min && v <= max {
				out = append(out, v)
			}
		}
		return out
	}

	span := niceNum(max-min, false)
	step := niceNum(span/4, true)
	lo := math.Ceil(min/step) * step
	var out []float64
	for v := lo; v <= max+step/2; v += step {
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		out = append(out, v)
	}
	return out
}

func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	frac := x / math.Pow(10, exp)
	var nice float64
	if round {
		switch {
		case frac < 1.5:
			nice = 1
		case frac < 3:
			nice = 2
		case frac < 7:
			nice = 5
		default:
			nice = 10
		}
	} else {
		switch {
		case frac <= 1:
			nice = 1
		case frac <= 2:
			nice = 2
		case frac <= 5:
			nice = 5
		default:
			nice = 10
		}
	}
	return nice * math.Pow(10, exp)
}

// num formats a coordinate compactly and deterministically.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
