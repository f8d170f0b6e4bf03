// Package raster implements the raster rendering backend on top of the
// fogleman/gg drawing library.
//
// The backend draws axes frames, ticks, grids, series polylines, markers,
// and legends into an in-memory RGBA image and exports it as PNG. Text is
// set in the embedded basicfont face, so output depends on no system fonts
// and identical input produces byte-identical PNG bytes.
//
// Importing the package registers it under the name "raster":
//
//	import _ "github.com/maxplotlib/maxplot/pkg/render/raster"
package raster

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/render"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

// BackendName is the registry name of this backend.
const BackendName = "raster"

func init() {
	render.Register(&backend{})
}

type backend struct{}

func (*backend) Name() string { return BackendName }

func (*backend) Capabilities() render.Capability {
	return render.CapRender | render.CapExportRaster
}

// ConcurrentSafe is true: each render owns a private gg context and the
// shared basicfont face is read-only.
func (*backend) ConcurrentSafe() bool { return true }

func (*backend) Render(nf *validate.Figure) (render.Handle, error) {
	h := &handle{
		BaseHandle: render.NewBaseHandle(BackendName, (&backend{}).Capabilities()),
		fig:        nf,
		encoded:    make(map[float64][]byte),
	}
	// Draw once at the default resolution so that structural problems
	// surface at render time, not at the first export.
	if _, err := h.encode(render.DefaultDPI); err != nil {
		return nil, err
	}
	return h, nil
}

// handle owns the rendered state: the immutable figure snapshot plus encoded
// PNG bytes per requested resolution.
type handle struct {
	render.BaseHandle

	fig *validate.Figure

	mu      sync.Mutex
	encoded map[float64][]byte
}

func (h *handle) ExportRaster(w io.Writer, opts render.RasterOptions) error {
	if err := h.CheckOpen(); err != nil {
		return err
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = render.DefaultDPI
	}
	data, err := h.encode(dpi)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// encode rasterizes the figure at the given resolution, caching the encoded
// bytes so repeated exports of the same resolution are free and identical.
func (h *handle) encode(dpi float64) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if data, ok := h.encoded[dpi]; ok {
		return data, nil
	}

	dc, err := draw(h.fig, dpi)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode PNG")
	}
	h.encoded[dpi] = buf.Bytes()
	return buf.Bytes(), nil
}

// Cell margins in inches, scaled by DPI at draw time.
const (
	marginLeft   = 0.65
	marginRight  = 0.15
	marginTop    = 0.35
	marginBottom = 0.50
	titleBand    = 0.30 // extra top band when the figure has a title
)

func draw(nf *validate.Figure, dpi float64) (*gg.Context, error) {
	widthPx := int(math.Round(nf.Width * dpi))
	heightPx := int(math.Round(nf.Height * dpi))
	if widthPx <= 0 || heightPx <= 0 {
		return nil, errors.New(errors.ErrCodeInternal,
			"degenerate raster size %dx%d px", widthPx, heightPx)
	}

	dc := gg.NewContext(widthPx, heightPx)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	top := 0.0
	if nf.Title != "" {
		top = titleBand * dpi
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(nf.Title, float64(widthPx)/2, top/2, 0.5, 0.5)
	}

	cellW := float64(widthPx) / float64(nf.Cols)
	cellH := (float64(heightPx) - top) / float64(nf.Rows)

	for i := range nf.Axes {
		ax := &nf.Axes[i]
		cell := rect{
			x: float64(ax.Col) * cellW,
			y: top + float64(ax.Row)*cellH,
			w: cellW,
			h: cellH,
		}
		drawAxes(dc, ax, cell, dpi)
	}

	return dc, nil
}

type rect struct{ x, y, w, h float64 }

// plotArea is the data region of a cell after margins.
func plotArea(cell rect, dpi float64) rect {
	return rect{
		x: cell.x + marginLeft*dpi,
		y: cell.y + marginTop*dpi,
		w: cell.w - (marginLeft+marginRight)*dpi,
		h: cell.h - (marginTop+marginBottom)*dpi,
	}
}

func drawAxes(dc *gg.Context, ax *validate.Axes, cell rect, dpi float64) {
	plot := plotArea(cell, dpi)

	xmap := newAxisMap(ax.XMin, ax.XMax, ax.XScale, plot.x, plot.x+plot.w)
	ymap := newAxisMap(ax.YMin, ax.YMax, ax.YScale, plot.y+plot.h, plot.y) // y grows downward

	xticks := ticks(ax.XMin, ax.XMax, ax.XScale)
	yticks := ticks(ax.YMin, ax.YMax, ax.YScale)

	drawGrid(dc, plot, xmap, ymap, xticks, yticks, dpi)
	drawFrame(dc, ax, plot, xmap, ymap, xticks, yticks, dpi)

	if ax.Empty {
		return
	}

	for i := range ax.Series {
		drawSeries(dc, &ax.Series[i], xmap, ymap, plot, dpi)
	}
	drawLegend(dc, ax, plot, dpi)
}

// axisMap maps data coordinates to pixel coordinates for one axis direction.
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

// ticks chooses tick positions: nice decimal steps for linear axes, powers
// of ten for logarithmic axes.
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
	return linearTicks(min, max, 5)
}

// linearTicks implements the classic nice-numbers algorithm.
func linearTicks(min, max float64, n int) []float64 {
	span := niceNum(max-min, false)
	step := niceNum(span/float64(n-1), true)
	lo := math.Ceil(min/step) * step
	hi := math.Floor(max/step) * step

	var out []float64
	for v := lo; v <= hi+step/2; v += step {
		// Snap near-zero values produced by floating-point stepping.
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

func drawGrid(dc *gg.Context, plot rect, xmap, ymap axisMap, xticks, yticks []float64, dpi float64) {
	dc.SetRGB(0.85, 0.85, 0.85)
	dc.SetLineWidth(0.5 * dpi / render.DefaultDPI)
	dc.SetDash(1.5, 3)
	for _, v := range xticks {
		px := xmap.pixel(v)
		dc.DrawLine(px, plot.y, px, plot.y+plot.h)
		dc.Stroke()
	}
	for _, v := range yticks {
		py := ymap.pixel(v)
		dc.DrawLine(plot.x, py, plot.x+plot.w, py)
		dc.Stroke()
	}
	dc.SetDash()
}

func drawFrame(dc *gg.Context, ax *validate.Axes, plot rect, xmap, ymap axisMap, xticks, yticks []float64, dpi float64) {
	scale := dpi / render.DefaultDPI
	tickLen := 4 * scale

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1 * scale)
	dc.DrawRectangle(plot.x, plot.y, plot.w, plot.h)
	dc.Stroke()

	for _, v := range xticks {
		px := xmap.pixel(v)
		dc.DrawLine(px, plot.y+plot.h, px, plot.y+plot.h-tickLen)
		dc.Stroke()
		dc.DrawStringAnchored(formatTick(v), px, plot.y+plot.h+10*scale, 0.5, 0.5)
	}
	for _, v := range yticks {
		py := ymap.pixel(v)
		dc.DrawLine(plot.x, py, plot.x+tickLen, py)
		dc.Stroke()
		dc.DrawStringAnchored(formatTick(v), plot.x-5*scale, py, 1, 0.5)
	}

	if ax.Title != "" {
		dc.DrawStringAnchored(ax.Title, plot.x+plot.w/2, plot.y-12*scale, 0.5, 0.5)
	}
	if ax.XLabel != "" {
		dc.DrawStringAnchored(ax.XLabel, plot.x+plot.w/2, plot.y+plot.h+28*scale, 0.5, 0.5)
	}
	if ax.YLabel != "" {
		cx := plot.x - 42*scale
		cy := plot.y + plot.h/2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), cx, cy)
		dc.DrawStringAnchored(ax.YLabel, cx, cy, 0.5, 0.5)
		dc.Pop()
	}
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 1e5 || av < 1e-3:
		return strconv.FormatFloat(v, 'g', 4, 64)
	default:
		s := strconv.FormatFloat(v, 'f', 4, 64)
		s = strings.TrimRight(s, "0")
		return strings.TrimSuffix(s, ".")
	}
}

func drawSeries(dc *gg.Context, s *validate.Series, xmap, ymap axisMap, plot rect, dpi float64) {
	scale := dpi / render.DefaultDPI
	xs, ys := s.XValues(), s.YValues()

	dc.SetHexColor(figure.Palette[s.Style.Color])
	dc.SetLineWidth(s.Style.LineWidth * scale)

	if s.Style.Line != figure.LineNone {
		applyDash(dc, s.Style.Line, scale)
		for i := range xs {
			px, py := xmap.pixel(xs[i]), ymap.pixel(ys[i])
			if i == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.Stroke()
		dc.SetDash()
	}

	if s.Style.Marker != figure.MarkerNone {
		r := 3.5 * scale
		for i := range xs {
			drawMarker(dc, s.Style.Marker, xmap.pixel(xs[i]), ymap.pixel(ys[i]), r)
		}
	}
}

func applyDash(dc *gg.Context, style figure.LineStyle, scale float64) {
	switch style {
	case figure.LineDashed:
		dc.SetDash(6*scale, 4*scale)
	case figure.LineDotted:
		dc.SetDash(1.5*scale, 3*scale)
	case figure.LineDashDot:
		dc.SetDash(6*scale, 3*scale, 1.5*scale, 3*scale)
	default:
		dc.SetDash()
	}
}

func drawMarker(dc *gg.Context, m figure.Marker, x, y, r float64) {
	switch m {
	case figure.MarkerCircle:
		dc.DrawCircle(x, y, r)
		dc.Fill()
	case figure.MarkerSquare:
		dc.DrawRectangle(x-r, y-r, 2*r, 2*r)
		dc.Fill()
	case figure.MarkerTriangle:
		dc.MoveTo(x, y-r)
		dc.LineTo(x-r, y+r)
		dc.LineTo(x+r, y+r)
		dc.ClosePath()
		dc.Fill()
	case figure.MarkerDiamond:
		dc.MoveTo(x, y-r)
		dc.LineTo(x+r, y)
		dc.LineTo(x, y+r)
		dc.LineTo(x-r, y)
		dc.ClosePath()
		dc.Fill()
	case figure.MarkerPlus:
		dc.DrawLine(x-r, y, x+r, y)
		dc.Stroke()
		dc.DrawLine(x, y-r, x, y+r)
		dc.Stroke()
	case figure.MarkerCross:
		dc.DrawLine(x-r, y-r, x+r, y+r)
		dc.Stroke()
		dc.DrawLine(x-r, y+r, x+r, y-r)
		dc.Stroke()
	}
}

func drawLegend(dc *gg.Context, ax *validate.Axes, plot rect, dpi float64) {
	scale := dpi / render.DefaultDPI
	lineLen := 18 * scale
	rowH := 14 * scale
	pad := 6 * scale

	maxW := 0.0
	for i := range ax.Series {
		w, _ := dc.MeasureString(ax.Series[i].Name)
		maxW = math.Max(maxW, w)
	}
	boxW := lineLen + 3*pad + maxW
	boxH := rowH*float64(len(ax.Series)) + pad

	x0 := plot.x + plot.w - boxW - pad
	y0 := plot.y + pad

	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.Fill()
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(0.8 * scale)
	dc.DrawRectangle(x0, y0, boxW, boxH)
	dc.Stroke()

	for i := range ax.Series {
		s := &ax.Series[i]
		cy := y0 + pad/2 + rowH*float64(i) + rowH/2
		dc.SetHexColor(figure.Palette[s.Style.Color])
		dc.SetLineWidth(s.Style.LineWidth * scale)
		applyDash(dc, s.Style.Line, scale)
		dc.DrawLine(x0+pad, cy, x0+pad+lineLen, cy)
		dc.Stroke()
		dc.SetDash()
		if s.Style.Marker != figure.MarkerNone {
			drawMarker(dc, s.Style.Marker, x0+pad+lineLen/2, cy, 3*scale)
		}
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(s.Name, x0+2*pad+lineLen, cy, 0, 0.5)
	}
}
