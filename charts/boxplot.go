package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"covid-visualizer/models"
	"covid-visualizer/stats"
)

const NameBoxPlot = "boxplot"

// Height of the band holding the shared title above both panels.
const titleBand = 60

var (
	boxFill      = drawing.ColorFromHex("1f77b4").WithAlpha(90)
	boxStroke    = drawing.ColorFromHex("1f77b4")
	whiskerColor = drawing.ColorFromHex("333333")
	medianColor  = drawing.ColorFromHex("ff7f0e")
	meanColor    = drawing.ColorFromHex("2ca02c")
	flierColor   = drawing.ColorFromHex("333333")
)

// BoxPlot draws box-and-whisker panels for daily cases and daily deaths side
// by side under one title. Whiskers reach 1.5 IQR; points beyond are fliers.
func (r *Renderer) BoxPlot(store *models.RecordStore) (*Artifact, error) {
	if store.Empty() {
		return nil, ErrEmptyStore
	}

	title := fmt.Sprintf("Box-N-Whiskers Plot for COVID Cases and Deaths in %s", r.regionName(store.Region))
	panelW := r.opts.Width / 2
	panelH := r.opts.Height - titleBand
	if panelH < titleBand {
		panelH = titleBand
	}

	casesPanel, err := r.boxPanel("New Cases Per Day", stats.Box(store.Cases()), panelW, panelH)
	if err != nil {
		return nil, err
	}
	deathsPanel, err := r.boxPanel("New Deaths Per Day", stats.Box(store.Deaths()), panelW, panelH)
	if err != nil {
		return nil, err
	}

	img := composeSideBySide(title, titleBand, casesPanel, deathsPanel)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("charts: encode %s: %w", NameBoxPlot, err)
	}
	b := img.Bounds()
	return &Artifact{Name: NameBoxPlot, Title: title, PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *Renderer) boxPanel(name string, box models.BoxSummary, width, height int) (image.Image, error) {
	lo, hi := boxRange(box)

	ch := chart.Chart{
		Title:      name,
		TitleStyle: chart.Style{FontSize: 14},
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 24, Right: 24, Bottom: 24}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 2},
			Ticks: []chart.Tick{{Value: 0}, {Value: 1, Label: fmt.Sprintf("n=%d", box.Count)}, {Value: 2}},
		},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: plainNumber,
			GridMajorStyle: gridStyle,
		},
		YAxisSecondary: chart.YAxis{Style: chart.Style{Hidden: true}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				Style:   chart.Style{StrokeColor: whiskerColor, StrokeWidth: 1.5},
				XValues: []float64{1, 1},
				YValues: []float64{box.LowerWhisker, box.UpperWhisker},
			},
		},
	}
	ch.Elements = []chart.Renderable{boxElement(box, lo, hi)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("charts: render %s panel: %w", name, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("charts: decode %s panel: %w", name, err)
	}
	return img, nil
}

// boxRange pads [Min, Max] by 5% so fliers do not sit on the frame. A flat
// series gets a unit range.
func boxRange(b models.BoxSummary) (float64, float64) {
	span := b.Max - b.Min
	if span <= 0 || math.IsNaN(span) {
		return b.Min - 1, b.Max + 1
	}
	pad := span * 0.05
	return b.Min - pad, b.Max + pad
}

// boxElement draws the box, the whisker caps, the median and mean markers and
// the fliers over the whisker series, in canvas coordinates.
func boxElement(b models.BoxSummary, lo, hi float64) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, _ chart.Style) {
		toY := func(v float64) int {
			return canvas.Bottom - int(math.Round((v-lo)/(hi-lo)*float64(canvas.Height())))
		}
		cx := canvas.Left + canvas.Width()/2
		half := canvas.Width() / 6
		capHalf := half / 2

		r.SetFillColor(boxFill)
		r.SetStrokeColor(boxStroke)
		r.SetStrokeWidth(1.5)
		r.SetStrokeDashArray(nil)
		r.MoveTo(cx-half, toY(b.Q3))
		r.LineTo(cx+half, toY(b.Q3))
		r.LineTo(cx+half, toY(b.Q1))
		r.LineTo(cx-half, toY(b.Q1))
		r.Close()
		r.FillStroke()

		segment(r, cx-capHalf, toY(b.UpperWhisker), cx+capHalf, toY(b.UpperWhisker), whiskerColor, 1.5)
		segment(r, cx-capHalf, toY(b.LowerWhisker), cx+capHalf, toY(b.LowerWhisker), whiskerColor, 1.5)
		segment(r, cx-half, toY(b.Median), cx+half, toY(b.Median), medianColor, 2.5)

		my := toY(b.Mean)
		r.SetFillColor(meanColor)
		r.SetStrokeColor(meanColor)
		r.SetStrokeWidth(1)
		r.MoveTo(cx, my-6)
		r.LineTo(cx+5, my+4)
		r.LineTo(cx-5, my+4)
		r.Close()
		r.FillStroke()

		r.SetFillColor(drawing.ColorTransparent)
		r.SetStrokeColor(flierColor)
		r.SetStrokeWidth(1)
		for _, f := range b.Fliers {
			r.Circle(3.5, cx, toY(f))
			r.Stroke()
		}
	}
}

func segment(r chart.Renderer, x0, y0, x1, y1 int, color drawing.Color, width float64) {
	r.SetStrokeColor(color)
	r.SetStrokeWidth(width)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}
