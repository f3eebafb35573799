package services

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covid-visualizer/models"
	"covid-visualizer/utils"
)

var testNarrative = models.Narrative{
	Trend:         "Trend text.",
	Waves:         "Waves text.",
	Safest:        "Safest text.",
	CaseOutliers:  "Case outliers text.",
	DeathOutliers: "Death outliers text.",
	ScaleNote:     "Scale note.",
}

func fixtureStore() *models.RecordStore {
	return &models.RecordStore{
		Region: "washington",
		Observations: []models.Observation{
			{Date: day(1), Cases: 10, Deaths: 1},
			{Date: day(2), Cases: 50, Deaths: 5},
			{Date: day(3), Cases: 30, Deaths: 2},
		},
	}
}

func newTestReportService(out *bytes.Buffer) *ReportService {
	return NewReportService(utils.Discard(), out, testNarrative, false)
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestReportTotals(t *testing.T) {
	r := newTestReportService(&bytes.Buffer{}).Generate(fixtureStore())

	assert.Equal(t, 3, r.Observations)
	assert.Equal(t, 90, r.TotalCases)
	assert.Equal(t, 8, r.TotalDeaths)
	assert.Equal(t, 50, r.PeakCases)
	assert.Equal(t, day(2), r.PeakDate)
	assert.Equal(t, 10, r.MinCases)
	assert.Equal(t, day(1), r.MinDate)
	assert.True(t, r.DeathRateDefined)
	assert.InDelta(t, 8.0/90.0*100, r.DeathRate, 1e-9)
	assert.Equal(t, 30.0, r.CasesBox.Median)
	assert.Equal(t, 2.0, r.DeathsBox.Median)
}

func TestReportPeakTieBreaksOnFirst(t *testing.T) {
	store := &models.RecordStore{
		Region: "washington",
		Observations: []models.Observation{
			{Date: day(1), Cases: 5},
			{Date: day(2), Cases: 70},
			{Date: day(3), Cases: 70},
			{Date: day(4), Cases: 5},
		},
	}

	r := newTestReportService(&bytes.Buffer{}).Generate(store)
	assert.Equal(t, day(2), r.PeakDate)
	assert.Equal(t, day(1), r.MinDate)
}

func TestDeathRate(t *testing.T) {
	rate, ok := DeathRate(10, 100)
	assert.True(t, ok)
	assert.Equal(t, 10.0, rate)

	rate, ok = DeathRate(3, 0)
	assert.False(t, ok)
	assert.Zero(t, rate)
}

func TestReportZeroCasesPrintsNA(t *testing.T) {
	store := &models.RecordStore{
		Region:       "washington",
		Observations: []models.Observation{{Date: day(1), Cases: 0, Deaths: 0}},
	}

	var out bytes.Buffer
	r := newTestReportService(&out).Summarize(store)

	assert.False(t, r.DeathRateDefined)
	assert.Contains(t, out.String(), "COVID Death Rate in Washington: N/A")
}

func TestReportEmptyStore(t *testing.T) {
	var out bytes.Buffer
	r := newTestReportService(&out).Summarize(&models.RecordStore{Region: "washington"})

	assert.Zero(t, r.TotalCases)
	assert.False(t, r.DeathRateDefined)
	assert.Contains(t, out.String(), "No observations were recorded.")
}

func TestReportGroupsThousands(t *testing.T) {
	store := &models.RecordStore{
		Region: "washington",
		Observations: []models.Observation{
			{Date: day(1), Cases: 1436187, Deaths: 12210},
		},
	}

	var out bytes.Buffer
	newTestReportService(&out).Summarize(store)
	assert.Contains(t, out.String(), "are 1,436,187, and the total deaths due to COVID are 12,210.")
}

func TestReportColorToggle(t *testing.T) {
	var plain, colored bytes.Buffer
	NewReportService(utils.Discard(), &plain, testNarrative, false).Summarize(fixtureStore())
	NewReportService(utils.Discard(), &colored, testNarrative, true).Summarize(fixtureStore())

	assert.NotContains(t, plain.String(), "\033[")
	assert.Contains(t, colored.String(), ansiUnderline)
	assert.Contains(t, colored.String(), ansiItalic)
}

func TestReportQAGolden(t *testing.T) {
	var out bytes.Buffer
	svc := newTestReportService(&out)
	svc.Print(svc.Generate(fixtureStore()))

	newGoldie(t).Assert(t, "report_qa", out.Bytes())
}

func TestReportCaptionsGolden(t *testing.T) {
	var out bytes.Buffer
	svc := newTestReportService(&out)
	r := svc.Generate(fixtureStore())
	svc.PrintLineCaption(r)
	svc.PrintBoxCaption(r)

	newGoldie(t).Assert(t, "report_captions", out.Bytes())
}

func TestReportBoxCaptionListsOutliers(t *testing.T) {
	store := &models.RecordStore{Region: "washington"}
	for i, v := range []int{-10, 1, 2, 3, 4, 5, 6, 7, 40} {
		store.Observations = append(store.Observations, models.Observation{Date: day(i + 1), Cases: v, Deaths: 1})
	}

	var out bytes.Buffer
	svc := newTestReportService(&out)
	svc.PrintBoxCaption(svc.Generate(store))

	require.Contains(t, out.String(), "in daily new cases: (-10, -10) and (40, 40)")
	assert.Contains(t, out.String(), "in daily new deaths: none")
}

func TestReportIntroAndScaleNote(t *testing.T) {
	var out bytes.Buffer
	svc := newTestReportService(&out)
	svc.PrintIntro("new york")
	svc.PrintScaleNote()

	assert.Equal(t,
		"This program provides charts and graphs for daily new COVID-19 cases and deaths in New York state.\nScale note.\n",
		out.String())
}
