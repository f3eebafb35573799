package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"covid-visualizer/charts"
	"covid-visualizer/config"
	"covid-visualizer/display"
	"covid-visualizer/models"
	"covid-visualizer/services"
	"covid-visualizer/storage"
	"covid-visualizer/utils"
)

// App runs one visualisation session: ingest, three charts with their
// captions, then the question-and-answer report.
type App struct {
	cfg     *config.Config
	logger  *utils.Logger
	out     io.Writer
	display display.Displayer
}

// New creates an App. Report text goes to out (stdout when nil); charts go
// to d.
func New(cfg *config.Config, logger *utils.Logger, out io.Writer, d display.Displayer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{cfg: cfg, logger: logger, out: out, display: d}
}

type chartSet struct {
	unscaled *charts.Artifact
	scaled   *charts.Artifact
	box      *charts.Artifact
}

// Run executes the session. Each chart is shown, and dismissed, before the
// text that follows it is printed.
func (a *App) Run(ctx context.Context) error {
	start := time.Now()
	report := services.NewReportService(a.logger, a.out, a.cfg.Narrative, a.cfg.ColorOutput)

	report.PrintIntro(a.cfg.Region)

	store, err := a.Ingest(ctx)
	if err != nil {
		return err
	}
	if store.Empty() {
		return fmt.Errorf("app: %q: %w", a.cfg.Region, services.ErrNoObservations)
	}
	a.logger.Info("[app] Loaded %d observations for %s (%d rows skipped)",
		store.Len(), store.Region, len(store.Rejected))

	if a.cfg.ExportPath != "" {
		if err := a.export(store); err != nil {
			a.logger.Error("[app] Export failed: %v", err)
		}
	}

	set, err := a.render(store)
	if err != nil {
		return err
	}
	summary := report.Generate(store)

	if err := a.show(ctx, set.unscaled); err != nil {
		return err
	}
	report.PrintScaleNote()

	if err := a.show(ctx, set.scaled); err != nil {
		return err
	}
	report.PrintLineCaption(summary)

	if err := a.show(ctx, set.box); err != nil {
		return err
	}
	report.PrintBoxCaption(summary)

	report.Print(summary)

	a.logger.Debug("[app] Session finished in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// Ingest builds the RecordStore from the configured source.
func (a *App) Ingest(ctx context.Context) (*models.RecordStore, error) {
	in := services.NewIngestor(a.logger, services.IngestOptions{
		Region:       a.cfg.Region,
		StrictHeader: a.cfg.StrictHeaderCheck,
	})

	switch a.cfg.DataSource {
	case config.SourceFile, "":
		return in.IngestFile(ctx, a.cfg.DataPath)
	case config.SourcePostgres:
		src, err := storage.NewPostgresSource(ctx, a.cfg.DSN(), a.cfg.PostgresTable, a.retry())
		if err != nil {
			return nil, err
		}
		defer src.Close()

		if loaded, err := src.LoadedAt(ctx); err == nil && !loaded.IsZero() {
			a.logger.Info("[app] Reading table %s (last import %s)", a.cfg.PostgresTable, loaded.Format(time.RFC3339))
		}
		return in.Ingest(ctx, src)
	default:
		return nil, fmt.Errorf("app: unknown data source %q (want %s or %s)",
			a.cfg.DataSource, config.SourceFile, config.SourcePostgres)
	}
}

func (a *App) retry() *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      a.logger,
	}
}

// render draws the three charts concurrently; they are still shown in order.
func (a *App) render(store *models.RecordStore) (*chartSet, error) {
	r := charts.NewRenderer(charts.Options{Width: a.cfg.ChartWidth, Height: a.cfg.ChartHeight})
	set := &chartSet{}

	pool := utils.NewWorkerPool(a.cfg.RenderWorkers)
	pool.Submit(func() (err error) {
		set.unscaled, err = r.LineChart(store)
		return err
	})
	pool.Submit(func() (err error) {
		set.scaled, err = r.ScaledLineChart(store)
		return err
	})
	pool.Submit(func() (err error) {
		set.box, err = r.BoxPlot(store)
		return err
	})
	if err := pool.Wait(); err != nil {
		return nil, fmt.Errorf("app: render charts: %w", err)
	}

	a.logger.Debug("[charts] Rendered %s, %s and %s", set.unscaled.Name, set.scaled.Name, set.box.Name)
	return set, nil
}

func (a *App) show(ctx context.Context, art *charts.Artifact) error {
	if err := a.display.Show(ctx, art); err != nil {
		return fmt.Errorf("app: show %s: %w", art.Name, err)
	}
	return nil
}

func (a *App) export(store *models.RecordStore) error {
	w, err := storage.NewCSVWriter(a.cfg.ExportPath)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.WriteStore(store); err != nil {
		return err
	}
	a.logger.Info("[app] Exported %d observations to %s", store.Len(), w.Path())
	return nil
}
