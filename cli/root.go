package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"covid-visualizer/app"
	"covid-visualizer/config"
	"covid-visualizer/display"
	"covid-visualizer/utils"
)

// RootOptions holds flags shared by all commands. A flag only overrides the
// environment configuration when it is set on the command line.
type RootOptions struct {
	Input        string
	Region       string
	Source       string
	StrictHeader bool
	Verbose      bool

	Logger     *utils.Logger
	LoadConfig func() *config.Config
}

// NewRootCommand creates the root command. Without a subcommand it runs the
// full visualisation session.
func NewRootCommand(logger *utils.Logger) *cobra.Command {
	return newRootCommand(&RootOptions{Logger: logger, LoadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	var (
		displayMode string
		outDir      string
		exportPath  string
		noColor     bool
	)

	cmd := &cobra.Command{
		Use:   "covidviz",
		Short: "Charts and statistics for daily COVID-19 cases and deaths in one US state",
		Long: `Reads the per-state daily COVID-19 dataset, keeps one state's rows and
shows three charts (cases and deaths on a shared axis, on independent
axes, and as box plots) followed by a short statistical report.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config(cmd)
			flags := cmd.Flags()
			if flags.Changed("display") {
				cfg.DisplayMode = displayMode
			}
			if flags.Changed("out-dir") {
				cfg.ChartOutputDir = outDir
			}
			if flags.Changed("export") {
				cfg.ExportPath = exportPath
			}
			if noColor {
				cfg.ColorOutput = false
			}
			return runVisualize(cmd, opts.Logger, cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.Input, "input", "i", "", "dataset path, .csv or .xlsx (env DATA_PATH)")
	pf.StringVarP(&opts.Region, "region", "r", "", "state to keep, case-insensitive (env REGION)")
	pf.StringVar(&opts.Source, "source", "", "row source: file|postgres (env DATA_SOURCE)")
	pf.BoolVar(&opts.StrictHeader, "strict-header", false, "warn when any of date, cases or deaths is missing from the header")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.Flags().StringVarP(&displayMode, "display", "d", "", "chart display: window|file|none (env DISPLAY_MODE)")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory for chart images (env CHART_OUTPUT_DIR)")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write the state's rows to this CSV file (env EXPORT_PATH)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI styling in the report")

	cmd.AddCommand(NewImportCommand(opts))

	return cmd
}

// config loads the environment configuration and applies the persistent
// flags the user set.
func (o *RootOptions) config(cmd *cobra.Command) *config.Config {
	cfg := o.LoadConfig()
	flags := cmd.Flags()

	if flags.Changed("input") {
		cfg.DataPath = o.Input
	}
	if flags.Changed("region") {
		cfg.Region = o.Region
	}
	if flags.Changed("source") {
		cfg.DataSource = strings.ToLower(strings.TrimSpace(o.Source))
	}
	if flags.Changed("strict-header") {
		cfg.StrictHeaderCheck = o.StrictHeader
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.Verbose
	}

	o.Logger.SetDebug(cfg.Verbose)
	return cfg
}

func runVisualize(cmd *cobra.Command, logger *utils.Logger, cfg *config.Config) error {
	logger.Debug("[app] Config: input=%s region=%s source=%s display=%s",
		cfg.DataPath, cfg.Region, cfg.DataSource, cfg.DisplayMode)

	d, err := display.New(cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := app.New(cfg, logger, cmd.OutOrStdout(), d).Run(cmd.Context()); err != nil {
		return fmt.Errorf("covidviz: %w", err)
	}
	return nil
}
