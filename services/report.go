package services

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"covid-visualizer/models"
	"covid-visualizer/stats"
	"covid-visualizer/utils"
)

// ReportDateLayout renders dates as "DD, Mon YYYY".
const ReportDateLayout = "02, Jan 2006"

const (
	ansiUnderline = "\033[4m"
	ansiItalic    = "\033[3m"
	ansiReset     = "\033[0m"
)

// ReportService computes the summary figures and prints them next to the
// static commentary.
type ReportService struct {
	logger    *utils.Logger
	out       io.Writer
	narrative models.Narrative
	color     bool
	printer   *message.Printer
	title     cases.Caser
}

// NewReportService creates a ReportService printing to out (stdout when nil).
func NewReportService(logger *utils.Logger, out io.Writer, narrative models.Narrative, color bool) *ReportService {
	if out == nil {
		out = os.Stdout
	}
	return &ReportService{
		logger:    logger,
		out:       out,
		narrative: narrative,
		color:     color,
		printer:   message.NewPrinter(language.English),
		title:     cases.Title(language.English),
	}
}

// Generate computes the report figures. Ties for the minimum or maximum case
// count resolve to the first observation in file order.
func (s *ReportService) Generate(store *models.RecordStore) *models.Report {
	r := &models.Report{
		Region:       store.Region,
		Observations: store.Len(),
		Rejected:     len(store.Rejected),
	}
	if store.Empty() {
		return r
	}

	first := store.Observations[0]
	r.PeakCases, r.PeakDate = first.Cases, first.Date
	r.MinCases, r.MinDate = first.Cases, first.Date

	for _, o := range store.Observations {
		r.TotalCases += o.Cases
		r.TotalDeaths += o.Deaths
		if o.Cases > r.PeakCases {
			r.PeakCases, r.PeakDate = o.Cases, o.Date
		}
		if o.Cases < r.MinCases {
			r.MinCases, r.MinDate = o.Cases, o.Date
		}
	}

	r.DeathRate, r.DeathRateDefined = DeathRate(r.TotalDeaths, r.TotalCases)
	if !r.DeathRateDefined {
		s.logger.Warn("[report] Total cases is zero; death rate is undefined")
	}

	r.CasesBox = stats.Box(store.Cases())
	r.DeathsBox = stats.Box(store.Deaths())
	return r
}

// DeathRate returns deaths/cases as a percentage. ok is false when cases is
// zero.
func DeathRate(deaths, cases int) (rate float64, ok bool) {
	if cases == 0 {
		return 0, false
	}
	return float64(deaths) / float64(cases) * 100, true
}

// Summarize generates the report and prints the question-and-answer block.
func (s *ReportService) Summarize(store *models.RecordStore) *models.Report {
	r := s.Generate(store)
	s.Print(r)
	return r
}

// PrintIntro prints the opening line of a run.
func (s *ReportService) PrintIntro(region string) {
	fmt.Fprintf(s.out, "This program provides charts and graphs for daily new COVID-19 cases and deaths in %s state.\n",
		s.regionName(region))
}

// PrintScaleNote explains why a second, independently scaled chart follows.
func (s *ReportService) PrintScaleNote() {
	if s.narrative.ScaleNote == "" {
		return
	}
	fmt.Fprintln(s.out, s.narrative.ScaleNote)
}

// PrintLineCaption describes the data and axes of the line charts.
func (s *ReportService) PrintLineCaption(r *models.Report) {
	region := s.regionName(r.Region)

	fmt.Fprintln(s.out, s.styled(ansiUnderline, "The data and the x and y-axis: (line chart)"))
	if r.Observations > 0 {
		fmt.Fprintf(s.out, "\t• The data represents the number of new COVID cases and deaths in %s state on a daily basis for the period %s-%s\n",
			region, r.MinDate.Format(ReportDateLayout), r.PeakDate.Format(ReportDateLayout))
	}
	fmt.Fprintln(s.out, "\t• The x-axis (horizontal) represents the time period (time series).")
	fmt.Fprintln(s.out, "\t• The y-axis on the left and the solid blue line represents the number of cases.")
	fmt.Fprintln(s.out, "\t• The y-axis on the right and the dashed grey line represents the number of deaths.")
	fmt.Fprintln(s.out, "\t• The y-axis scale (vertical): y1 is measuring cases per day, y2 is measuring deaths per day.")
	fmt.Fprintln(s.out)
}

// PrintBoxCaption prints the outlier commentary followed by the outlier
// ranges actually found in the data.
func (s *ReportService) PrintBoxCaption(r *models.Report) {
	if s.narrative.CaseOutliers != "" {
		fmt.Fprintln(s.out, s.narrative.CaseOutliers)
	}
	if s.narrative.DeathOutliers != "" {
		fmt.Fprintln(s.out, s.narrative.DeathOutliers)
	}
	fmt.Fprintf(s.out, "Computed outliers (beyond %.1f IQR) in daily new cases: %s\n",
		stats.WhiskerReach, s.intervals(r.CasesBox))
	fmt.Fprintf(s.out, "Computed outliers (beyond %.1f IQR) in daily new deaths: %s\n",
		stats.WhiskerReach, s.intervals(r.DeathsBox))
	fmt.Fprintln(s.out)
}

// Print writes the three questions and their answers, then the death rate.
func (s *ReportService) Print(r *models.Report) {
	region := s.regionName(r.Region)
	p := s.printer

	fmt.Fprintln(s.out, s.styled(ansiUnderline, fmt.Sprintf("Data visualization and statistics of COVID-19 in %s state:", region)))

	fmt.Fprintf(s.out, "\tQ1: %s\n", s.styled(ansiItalic, fmt.Sprintf("Total COVID-19 cases in %s state.", region)))
	fmt.Fprintf(s.out, "\t  A: %s\n\n", p.Sprintf("The total COVID cases in %s state are %d, and the total deaths due to COVID are %d.",
		region, r.TotalCases, r.TotalDeaths))

	fmt.Fprintf(s.out, "\tQ2: %s\n", s.styled(ansiItalic, fmt.Sprintf("The trend of COVID-19 in %s state.", region)))
	fmt.Fprintf(s.out, "\t  A: %s\n\n", s.narrative.Trend)

	fmt.Fprintf(s.out, "\tQ3: %s\n", s.styled(ansiItalic, fmt.Sprintf("The most dangerous and safest time during COVID in %s state.", region)))
	if r.Observations == 0 {
		fmt.Fprintf(s.out, "\t  A: No observations were recorded.\n")
	} else {
		fmt.Fprintf(s.out, "\t  A: %s\n", p.Sprintf("The highest new cases per day is %d on %s.",
			r.PeakCases, r.PeakDate.Format(ReportDateLayout)))
	}
	if s.narrative.Waves != "" {
		fmt.Fprintf(s.out, "\t\t  • %s\n", s.narrative.Waves)
	}
	if s.narrative.Safest != "" {
		fmt.Fprintf(s.out, "\t\t  • %s\n", s.narrative.Safest)
	}
	fmt.Fprintln(s.out)

	rate := "N/A (no cases recorded)"
	if r.DeathRateDefined {
		rate = p.Sprintf("%.3f%%", r.DeathRate)
	}
	fmt.Fprintf(s.out, "• %s\n", s.styled(ansiUnderline, fmt.Sprintf("COVID Death Rate in %s: %s", region, rate)))
}

func (s *ReportService) intervals(b models.BoxSummary) string {
	found := stats.OutlierIntervals(b)
	if len(found) == 0 {
		return "none"
	}
	parts := make([]string, len(found))
	for i, iv := range found {
		parts[i] = s.printer.Sprintf("(%.0f, %.0f)", iv.Min, iv.Max)
	}
	return strings.Join(parts, " and ")
}

func (s *ReportService) regionName(region string) string {
	return s.title.String(strings.TrimSpace(region))
}

func (s *ReportService) styled(code, text string) string {
	if !s.color {
		return text
	}
	return code + text + ansiReset
}
