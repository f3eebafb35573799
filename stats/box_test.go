package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 1.75},
		{50, 2.5},
		{75, 3.25},
		{100, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-9, "p=%v", tt.p)
	}
}

func TestBoxSummary(t *testing.T) {
	b := Box([]int{10, 50, 30})

	assert.Equal(t, 3, b.Count)
	assert.Equal(t, 10.0, b.Min)
	assert.Equal(t, 50.0, b.Max)
	assert.Equal(t, 20.0, b.Q1)
	assert.Equal(t, 30.0, b.Median)
	assert.Equal(t, 40.0, b.Q3)
	assert.Equal(t, 30.0, b.Mean)
	assert.Equal(t, 10.0, b.LowerWhisker)
	assert.Equal(t, 50.0, b.UpperWhisker)
	assert.Empty(t, b.Fliers)
}

func TestBoxFliersAndWhiskers(t *testing.T) {
	// Q1=2, Q3=6, IQR=4 -> limits [-4, 12]
	b := Box([]int{-10, 1, 2, 3, 4, 5, 6, 7, 40})

	assert.Equal(t, 2.0, b.Q1)
	assert.Equal(t, 6.0, b.Q3)
	assert.Equal(t, 1.0, b.LowerWhisker)
	assert.Equal(t, 7.0, b.UpperWhisker)
	assert.Equal(t, []float64{-10, 40}, b.Fliers)

	got := OutlierIntervals(b)
	assert.Equal(t, []Interval{{Min: -10, Max: -10}, {Min: 40, Max: 40}}, got)
}

func TestBoxNegativeValuesPassThrough(t *testing.T) {
	b := Box([]int{-5, -1, 0})
	assert.Equal(t, -5.0, b.Min)
	assert.InDelta(t, -2.0, b.Mean, 1e-9)
}

func TestBoxEmpty(t *testing.T) {
	b := Box(nil)
	assert.Zero(t, b.Count)
	assert.Empty(t, OutlierIntervals(b))
}
