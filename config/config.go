package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"covid-visualizer/models"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataPath          string
	Region            string
	DataSource        string
	StrictHeaderCheck bool

	DisplayMode    string
	ChartOutputDir string
	ChartWidth     int
	ChartHeight    int
	ChromeBin      string
	ColorOutput    bool
	Verbose        bool
	ExportPath     string

	MaxRetries    int
	RenderWorkers int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string

	Narrative models.Narrative
}

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"

	DisplayWindow = "window"
	DisplayFile   = "file"
	DisplayNone   = "none"
)

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataPath:          getEnv("DATA_PATH", "us-states-covid.csv"),
		Region:            getEnv("REGION", "washington"),
		DataSource:        strings.ToLower(getEnv("DATA_SOURCE", SourceFile)),
		StrictHeaderCheck: getEnvBool("STRICT_HEADER_CHECK", false),

		DisplayMode:    strings.ToLower(getEnv("DISPLAY_MODE", DisplayWindow)),
		ChartOutputDir: getEnv("CHART_OUTPUT_DIR", "./output/charts"),
		ChartWidth:     getEnvInt("CHART_WIDTH", 1440),
		ChartHeight:    getEnvInt("CHART_HEIGHT", 1080),
		ChromeBin:      getEnv("CHROME_BIN", ""),
		ColorOutput:    getEnvBool("COLOR_OUTPUT", true),
		Verbose:        getEnvBool("VERBOSE", false),
		ExportPath:     getEnv("EXPORT_PATH", ""),

		MaxRetries:    getEnvInt("MAX_RETRIES", 3),
		RenderWorkers: getEnvInt("RENDER_WORKERS", 3),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "covid"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "covid123"),
		PostgresDB:       getEnv("POSTGRES_DB", "covid_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "us_states_covid"),

		Narrative: models.Narrative{
			Trend:         getEnv("NARRATIVE_TREND", DefaultNarrative.Trend),
			Waves:         getEnv("NARRATIVE_WAVES", DefaultNarrative.Waves),
			Safest:        getEnv("NARRATIVE_SAFEST", DefaultNarrative.Safest),
			CaseOutliers:  getEnv("NARRATIVE_CASE_OUTLIERS", DefaultNarrative.CaseOutliers),
			DeathOutliers: getEnv("NARRATIVE_DEATH_OUTLIERS", DefaultNarrative.DeathOutliers),
			ScaleNote:     getEnv("NARRATIVE_SCALE_NOTE", DefaultNarrative.ScaleNote),
		},
	}
}

// DefaultNarrative is the commentary written against the NYT Washington series.
var DefaultNarrative = models.Narrative{
	Trend:         "From the chart, there is a downward trend after the peak (global maximum) on Dec 2021-Feb 2022.",
	Waves:         "From the line chart, there were three waves of COVID (concave up & local maximum): (1) Nov 2020-Jan 2021 (2) July 2021-Oct 2021 (3) Dec 2021-Feb 2022",
	Safest:        "The safest time during COVID is at the beginning of the pandemic (global minimum).",
	CaseOutliers:  "There are outliers located at the interval of (4855, 63640) in the boxplot of daily new cases.",
	DeathOutliers: "There are outliers located at the interval of (-73, -54) and (56, 135) in the boxplot of daily new deaths.",
	ScaleNote:     "*Deaths are small compared to new cases and hard to observe on a shared axis; a chart with an independent y-axis for deaths follows.*",
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
