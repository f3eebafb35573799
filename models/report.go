package models

import "time"

// Report holds the figures computed from a RecordStore. Nothing in here is
// prose; see Narrative for the human-authored commentary.
type Report struct {
	Region       string
	Observations int
	Rejected     int

	TotalCases  int
	TotalDeaths int

	PeakCases int
	PeakDate  time.Time
	MinCases  int
	MinDate   time.Time

	// DeathRate is a percentage. It is only meaningful when DeathRateDefined
	// is true, which requires a non-zero case total.
	DeathRate        float64
	DeathRateDefined bool

	CasesBox  BoxSummary
	DeathsBox BoxSummary
}

// Narrative is the static commentary printed alongside the computed figures.
type Narrative struct {
	Trend         string
	Waves         string
	Safest        string
	CaseOutliers  string
	DeathOutliers string
	ScaleNote     string
}

// BoxSummary is the five-number summary behind a box-and-whisker plot.
type BoxSummary struct {
	Count  int
	Min    float64
	Max    float64
	Q1     float64
	Median float64
	Q3     float64
	Mean   float64

	// LowerWhisker and UpperWhisker are the most extreme data points within
	// 1.5 IQR of the box.
	LowerWhisker float64
	UpperWhisker float64

	Fliers []float64
}

// IQR returns the interquartile range.
func (b BoxSummary) IQR() float64 {
	return b.Q3 - b.Q1
}
