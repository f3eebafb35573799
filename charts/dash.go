package charts

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Dash and gap lengths of a dashed line, in pixels.
const (
	dashOn  = 6.0
	dashOff = 4.0
)

var legendFrame = drawing.ColorFromHex("aaaaaa")

// plotArea maps data values onto a canvas box.
type plotArea struct {
	xMin, xMax float64
	yMin, yMax float64
}

func (p plotArea) valid() bool {
	return p.xMax > p.xMin && p.yMax > p.yMin
}

// point maps (x, y) to pixels. Points far off the canvas are pulled in to
// one canvas size beyond each edge so a wild value cannot produce a huge
// path.
func (p plotArea) point(canvas chart.Box, x, y float64) [2]float64 {
	w, h := float64(canvas.Width()), float64(canvas.Height())
	px := float64(canvas.Left) + (x-p.xMin)/(p.xMax-p.xMin)*w
	py := float64(canvas.Bottom) - (y-p.yMin)/(p.yMax-p.yMin)*h
	return [2]float64{
		clamp(px, float64(canvas.Left)-w, float64(canvas.Right)+w),
		clamp(py, float64(canvas.Top)-h, float64(canvas.Bottom)+h),
	}
}

// dashedSeries draws ys against xs as a dashed polyline. The dashes are plain
// solid strokes, so the element does not depend on the renderer's dash
// support.
func dashedSeries(xs, ys []float64, area plotArea, style chart.Style) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, _ chart.Style) {
		if len(xs) < 2 || len(xs) != len(ys) || !area.valid() {
			return
		}
		r.ClearTextRotation()

		pts := make([][2]float64, len(xs))
		for i := range xs {
			pts[i] = area.point(canvas, xs[i], ys[i])
		}
		strokeDashed(r, pts, style)
	}
}

// strokeDashed strokes the polyline through pts as alternating dashes and
// gaps. The dash phase carries over from one segment to the next.
func strokeDashed(r chart.Renderer, pts [][2]float64, style chart.Style) {
	r.SetStrokeDashArray(nil)
	r.SetStrokeColor(style.StrokeColor)
	r.SetStrokeWidth(style.StrokeWidth)

	on, left := true, dashOn
	drawn := false
	for i := 1; i < len(pts); i++ {
		x0, y0 := pts[i-1][0], pts[i-1][1]
		dx, dy := pts[i][0]-x0, pts[i][1]-y0
		length := math.Hypot(dx, dy)
		if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
			continue
		}

		for pos := 0.0; ; {
			step := math.Min(left, length-pos)
			last := step >= length-pos
			if on {
				r.MoveTo(roundPx(x0+dx*pos/length), roundPx(y0+dy*pos/length))
				r.LineTo(roundPx(x0+dx*(pos+step)/length), roundPx(y0+dy*(pos+step)/length))
				drawn = true
			}
			pos += step
			left -= step
			if left <= 0 {
				on = !on
				left = dashOff
				if on {
					left = dashOn
				}
			}
			if last {
				break
			}
		}
	}
	if drawn {
		r.Stroke()
	}
}

type legendEntry struct {
	label  string
	style  chart.Style
	dashed bool
}

// legend draws a framed key in the top-left corner of the canvas.
func legend(entries ...legendEntry) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		if len(entries) == 0 {
			return
		}
		r.ClearTextRotation()

		font := defaults.Font
		if font == nil {
			font, _ = chart.GetDefaultFont()
		}
		r.SetFont(font)
		r.SetFontSize(10)
		r.SetFontColor(drawing.ColorBlack)

		const pad, sample, gap = 8, 24, 6
		textW, textH := 0, 0
		for _, e := range entries {
			tb := r.MeasureText(e.label)
			if tb.Width() > textW {
				textW = tb.Width()
			}
			if tb.Height() > textH {
				textH = tb.Height()
			}
		}
		rowH := textH + 6

		left, top := canvas.Left+pad, canvas.Top+pad
		right := left + 2*pad + sample + gap + textW
		bottom := top + 2*pad + rowH*len(entries)

		r.SetStrokeDashArray(nil)
		r.SetFillColor(drawing.ColorWhite)
		r.SetStrokeColor(legendFrame)
		r.SetStrokeWidth(1)
		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, bottom)
		r.LineTo(left, bottom)
		r.Close()
		r.FillStroke()

		for i, e := range entries {
			y := top + pad + rowH*i + rowH/2
			x := left + pad
			if e.dashed {
				strokeDashed(r, [][2]float64{{float64(x), float64(y)}, {float64(x + sample), float64(y)}}, e.style)
			} else {
				segment(r, x, y, x+sample, y, e.style.StrokeColor, e.style.StrokeWidth)
			}
			r.SetFontColor(drawing.ColorBlack)
			r.Text(e.label, x+sample+gap, y+textH/2)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func roundPx(v float64) int {
	return int(math.Round(v))
}
