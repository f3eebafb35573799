package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"covid-visualizer/services"
	"covid-visualizer/storage"
	"covid-visualizer/utils"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load the dataset file into the PostgreSQL staging table",
		Long: `Copy every row of --input (all states) into the staging table named by
POSTGRES_TABLE, replacing what was there. Afterwards run with --source postgres
to read from the database instead of the file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts)
		},
	}

	return cmd
}

func runImport(cmd *cobra.Command, opts *RootOptions) error {
	cfg := opts.config(cmd)
	logger := opts.Logger
	ctx := cmd.Context()

	if strings.TrimSpace(cfg.DataPath) == "" {
		return fmt.Errorf("import: %w: --input is empty", services.ErrInvalidArgument)
	}

	src, err := storage.OpenFile(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer src.Close()

	table, err := src.ReadTable(ctx)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	pg, err := storage.NewPostgresSource(ctx, cfg.DSN(), cfg.PostgresTable, &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("[import] Check the POSTGRES_* settings and that the server is reachable")
		return fmt.Errorf("import: %w", err)
	}
	defer pg.Close()

	n, err := pg.Import(ctx, table)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.Info("[import] Staged %d rows from %s into table %s", n, cfg.DataPath, cfg.PostgresTable)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows into %s\n", n, cfg.PostgresTable)
	return nil
}
