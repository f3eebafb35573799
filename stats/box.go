package stats

import (
	"sort"

	"covid-visualizer/models"
)

// WhiskerReach is how far the whiskers may extend past the box, in IQRs.
const WhiskerReach = 1.5

// Interval is a closed range of values.
type Interval struct {
	Min float64
	Max float64
}

// Box computes the five-number summary, mean and fliers of values. Quartiles
// use linear interpolation between closest ranks. An empty input yields a
// zero summary.
func Box(values []int) models.BoxSummary {
	if len(values) == 0 {
		return models.BoxSummary{}
	}

	sorted := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sorted[i] = float64(v)
		sum += float64(v)
	}
	sort.Float64s(sorted)

	b := models.BoxSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     Percentile(sorted, 25),
		Median: Percentile(sorted, 50),
		Q3:     Percentile(sorted, 75),
		Mean:   sum / float64(len(sorted)),
	}

	lowLimit := b.Q1 - WhiskerReach*b.IQR()
	highLimit := b.Q3 + WhiskerReach*b.IQR()

	b.LowerWhisker = b.Q1
	b.UpperWhisker = b.Q3
	for _, v := range sorted {
		if v >= lowLimit {
			b.LowerWhisker = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highLimit {
			b.UpperWhisker = sorted[i]
			break
		}
	}

	for _, v := range sorted {
		if v < lowLimit || v > highLimit {
			b.Fliers = append(b.Fliers, v)
		}
	}
	return b
}

// Percentile returns the p-th percentile (0-100) of an ascending slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	pos := p / 100 * float64(len(sorted)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}

// OutlierIntervals groups the fliers of b into the range below the box and
// the range above it. Empty groups are left out.
func OutlierIntervals(b models.BoxSummary) []Interval {
	var below, above []float64
	for _, f := range b.Fliers {
		if f < b.Q1 {
			below = append(below, f)
		} else {
			above = append(above, f)
		}
	}

	var out []Interval
	if len(below) > 0 {
		out = append(out, Interval{Min: below[0], Max: below[len(below)-1]})
	}
	if len(above) > 0 {
		out = append(out, Interval{Min: above[0], Max: above[len(above)-1]})
	}
	return out
}
