package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyStore is returned when there is nothing to plot.
var ErrEmptyStore = errors.New("charts: record store has no observations")

const (
	// Days of padding around the observed dates on the x axis.
	padDaysBefore = 3
	padDaysAfter  = 8

	// Headroom above the largest case count on case axes.
	caseHeadroom = 1000

	tickRotationDegrees = 30
	maxDateLabels       = 12

	monthLayout = "2006-Jan"
	dayLayout   = "2006-Jan-02"
)

var (
	gridStyle = chart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1}
	tickStyle = chart.Style{
		TextRotationDegrees: tickRotationDegrees,
		TextHorizontalAlign: chart.TextHorizontalAlignRight,
	}
)

// Artifact is one rendered chart.
type Artifact struct {
	Name   string
	Title  string
	PNG    []byte
	Width  int
	Height int
}

// Options size the rendered images in pixels.
type Options struct {
	Width  int
	Height int
}

// Renderer draws the three chart kinds for a RecordStore. It never mutates
// the store and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer, filling in default sizes.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 1440
	}
	if opts.Height <= 0 {
		opts.Height = 1080
	}
	return &Renderer{opts: opts}
}

// regionName title-cases region. A Caser holds state, so each call gets its
// own.
func (r *Renderer) regionName(region string) string {
	return cases.Title(language.English).String(strings.TrimSpace(region))
}

func (r *Renderer) render(name, title string, ch *chart.Chart) (*Artifact, error) {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("charts: render %s: %w", name, err)
	}
	return &Artifact{Name: name, Title: title, PNG: buf.Bytes(), Width: ch.Width, Height: ch.Height}, nil
}

// XDomain returns the padded x-axis bounds for dates, which need not be
// sorted.
func XDomain(dates []time.Time) (time.Time, time.Time) {
	if len(dates) == 0 {
		return time.Time{}, time.Time{}
	}
	lo, hi := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	return lo.AddDate(0, 0, -padDaysBefore), hi.AddDate(0, 0, padDaysAfter)
}

// casesCeiling is the top of a case axis: the largest count plus headroom.
func casesCeiling(values []float64) float64 {
	top := maxOf(values) + caseHeadroom
	if top <= 0 {
		return 1
	}
	return top
}

// niceMax rounds v up, with a 5% margin, to its order of magnitude. It gives
// an axis starting at zero a readable top.
func niceMax(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	padded := v * 1.05
	mag := math.Pow(10, math.Floor(math.Log10(padded)))
	return math.Ceil(padded/mag) * mag
}

// dateTicks lays out at most maxDateLabels labelled ticks between lo and hi.
// Unlabelled ticks sit on lo and hi so the axis keeps the padded range.
func dateTicks(lo, hi time.Time, layout string) []chart.Tick {
	ticks := []chart.Tick{{Value: chart.TimeToFloat64(lo)}}

	spanDays := int(math.Ceil(hi.Sub(lo).Hours() / 24))
	if spanDays <= 62 {
		step := (spanDays + maxDateLabels - 1) / maxDateLabels
		if step < 1 {
			step = 1
		}
		for t := lo.AddDate(0, 0, 1); t.Before(hi); t = t.AddDate(0, 0, step) {
			ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Format(layout)})
		}
	} else {
		months := spanDays/30 + 1
		step := (months + maxDateLabels - 1) / maxDateLabels
		if step < 1 {
			step = 1
		}
		first := time.Date(lo.Year(), lo.Month(), 1, 0, 0, 0, 0, lo.Location()).AddDate(0, 1, 0)
		for t := first; t.Before(hi); t = t.AddDate(0, step, 0) {
			ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Format(layout)})
		}
	}

	return append(ticks, chart.Tick{Value: chart.TimeToFloat64(hi)})
}

func dateAxis(lo, hi time.Time, layout string) chart.XAxis {
	return chart.XAxis{
		Name:           "Dates",
		Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)},
		Ticks:          dateTicks(lo, hi, layout),
		TickStyle:      tickStyle,
		GridMajorStyle: gridStyle,
	}
}

// plainNumber formats axis values without scientific notation.
func plainNumber(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
