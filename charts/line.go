package charts

import (
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"covid-visualizer/models"
)

const (
	NameLineUnscaled = "line_unscaled"
	NameLineScaled   = "line_scaled"
)

var (
	unscaledCasesColor  = drawing.ColorFromHex("5a7d9a")
	unscaledDeathsColor = drawing.ColorFromHex("ff0000")
	scaledCasesColor    = drawing.ColorFromHex("1900ff")
	scaledDeathsColor   = drawing.ColorFromHex("444444")
	areaColor           = drawing.ColorFromHex("1f77b4")
)

func (r *Renderer) lineTitle(region string) string {
	return fmt.Sprintf("COVID Cases and Deaths per Day in %s State", r.regionName(region))
}

func (r *Renderer) lineBackground() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 60, Left: 24, Right: 24, Bottom: 24}}
}

// LineChart draws cases and deaths against one shared y axis running from
// zero to the largest case count plus headroom.
func (r *Renderer) LineChart(store *models.RecordStore) (*Artifact, error) {
	if store.Empty() {
		return nil, ErrEmptyStore
	}

	dates := store.Dates()
	caseValues := toFloats(store.Cases())
	deathValues := toFloats(store.Deaths())
	lo, hi := XDomain(dates)
	title := r.lineTitle(store.Region)

	top := casesCeiling(caseValues)
	casesStyle := chart.Style{
		StrokeColor: unscaledCasesColor,
		StrokeWidth: 1.5,
		FillColor:   areaColor.WithAlpha(128),
		DotColor:    unscaledCasesColor,
		DotWidth:    1.6,
	}
	deathsStyle := chart.Style{StrokeColor: unscaledDeathsColor, StrokeWidth: 1.5}

	ch := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 18},
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: r.lineBackground(),
		XAxis:      dateAxis(lo, hi, monthLayout),
		YAxis: chart.YAxis{
			Name:           "Cases and Deaths",
			AxisType:       chart.YAxisPrimary,
			Range:          &chart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: plainNumber,
			GridMajorStyle: gridStyle,
		},
		YAxisSecondary: chart.YAxis{Style: chart.Style{Hidden: true}},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Cases", Style: casesStyle, XValues: dates, YValues: caseValues},
		},
	}
	ch.Elements = []chart.Renderable{
		dashedSeries(timeFloats(dates), deathValues, dateArea(lo, hi, 0, top), deathsStyle),
		legend(
			legendEntry{label: "Cases", style: casesStyle},
			legendEntry{label: "Deaths", style: deathsStyle, dashed: true},
		),
	}

	return r.render(NameLineUnscaled, title, &ch)
}

// ScaledLineChart draws cases on the left axis and deaths on an independent
// right axis so the much smaller death counts stay readable. The dashed
// deaths line is drawn as an element mapped onto the right axis range.
func (r *Renderer) ScaledLineChart(store *models.RecordStore) (*Artifact, error) {
	if store.Empty() {
		return nil, ErrEmptyStore
	}

	dates := store.Dates()
	caseValues := toFloats(store.Cases())
	deathValues := toFloats(store.Deaths())
	lo, hi := XDomain(dates)
	title := r.lineTitle(store.Region)

	casesTop := casesCeiling(caseValues)
	deathsTop := niceMax(maxOf(deathValues))
	casesStyle := chart.Style{
		StrokeColor: scaledCasesColor,
		StrokeWidth: 1.5,
		FillColor:   areaColor.WithAlpha(153),
	}
	deathsStyle := chart.Style{StrokeColor: scaledDeathsColor, StrokeWidth: 1.5}

	ch := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 18},
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: r.lineBackground(),
		XAxis:      dateAxis(lo, hi, dayLayout),
		YAxisSecondary: chart.YAxis{
			Name:           "Cases",
			AxisType:       chart.YAxisSecondary,
			Range:          &chart.ContinuousRange{Min: 0, Max: casesTop},
			ValueFormatter: plainNumber,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           "Deaths",
			AxisType:       chart.YAxisPrimary,
			Range:          &chart.ContinuousRange{Min: 0, Max: deathsTop},
			ValueFormatter: plainNumber,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Cases per Day",
				YAxis:   chart.YAxisSecondary,
				Style:   casesStyle,
				XValues: dates,
				YValues: caseValues,
			},
		},
	}
	ch.Elements = []chart.Renderable{
		dashedSeries(timeFloats(dates), deathValues, dateArea(lo, hi, 0, deathsTop), deathsStyle),
		legend(
			legendEntry{label: "Cases per Day", style: casesStyle},
			legendEntry{label: "Deaths per Day", style: deathsStyle, dashed: true},
		),
	}

	return r.render(NameLineScaled, title, &ch)
}

func dateArea(lo, hi time.Time, yMin, yMax float64) plotArea {
	return plotArea{
		xMin: chart.TimeToFloat64(lo),
		xMax: chart.TimeToFloat64(hi),
		yMin: yMin,
		yMax: yMax,
	}
}

func timeFloats(dates []time.Time) []float64 {
	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i] = chart.TimeToFloat64(d)
	}
	return out
}
