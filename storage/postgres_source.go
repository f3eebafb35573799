package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"covid-visualizer/models"
	"covid-visualizer/utils"
)

// stagingColumns are stored as text so the ingestor sees the same raw values
// it would read from the CSV export.
var stagingColumns = []string{"date", "state", "cases", "deaths"}

// PostgresSource keeps a raw copy of the dataset in a staging table and reads
// it back in insertion order.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// NewPostgresSource opens a connection to PostgreSQL, waits for it to answer,
// runs schema migrations and returns a ready-to-use PostgresSource.
func NewPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresSource{db: db, table: table}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresSource) ident() string {
	return pq.QuoteIdentifier(ps.table)
}

func (ps *PostgresSource) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id     SERIAL PRIMARY KEY,
			date   TEXT NOT NULL DEFAULT '',
			state  TEXT NOT NULL DEFAULT '',
			cases  TEXT NOT NULL DEFAULT '',
			deaths TEXT NOT NULL DEFAULT '',
			loaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, ps.ident()))
	return err
}

// Clear deletes all staged rows.
func (ps *PostgresSource) Clear(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, "DELETE FROM "+ps.ident())
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Import replaces the staged rows with the given table. Columns are matched
// by header name; a column the table lacks is stored as an empty string.
func (ps *PostgresSource) Import(ctx context.Context, t *models.RawTable) (int, error) {
	if t == nil || len(t.Rows) == 0 {
		return 0, nil
	}

	if err := ps.Clear(ctx); err != nil {
		return 0, err
	}

	positions := stagingPositions(t.Header)

	const batchSize = 200
	for i := 0; i < len(t.Rows); i += batchSize {
		end := i + batchSize
		if end > len(t.Rows) {
			end = len(t.Rows)
		}
		if err := ps.insertBatch(ctx, t.Rows[i:end], positions); err != nil {
			return i, fmt.Errorf("postgres: insert rows %d-%d: %w", i, end, err)
		}
	}
	return len(t.Rows), nil
}

func (ps *PostgresSource) insertBatch(ctx context.Context, batch []models.RawRow, positions []int) error {
	width := len(stagingColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*width)

	for idx, row := range batch {
		base := idx * width
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		for _, pos := range positions {
			valueArgs = append(valueArgs, fieldAt(row.Fields, pos))
		}
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s`,
		ps.ident(), strings.Join(stagingColumns, ", "), strings.Join(valueStrings, ","))

	_, err := ps.db.ExecContext(ctx, query, valueArgs...)
	return err
}

// ReadTable returns the staged rows in insertion order. Line numbers count
// from 2 so diagnostics read the same as for a CSV file.
func (ps *PostgresSource) ReadTable(ctx context.Context) (*models.RawTable, error) {
	rows, err := ps.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY id", strings.Join(stagingColumns, ", "), ps.ident()))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch rows: %w", err)
	}
	defer rows.Close()

	table := &models.RawTable{Header: append([]string(nil), stagingColumns...)}
	line := 1
	for rows.Next() {
		var date, state, cases, deaths string
		if err := rows.Scan(&date, &state, &cases, &deaths); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		line++
		table.Rows = append(table.Rows, models.RawRow{
			Line:   line,
			Fields: []string{date, state, cases, deaths},
		})
	}
	return table, rows.Err()
}

// LoadedAt returns when the newest staged row was written, or the zero time
// for an empty table.
func (ps *PostgresSource) LoadedAt(ctx context.Context) (time.Time, error) {
	var ts sql.NullTime
	err := ps.db.QueryRowContext(ctx, "SELECT MAX(loaded_at) FROM "+ps.ident()).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("postgres: loaded_at: %w", err)
	}
	return ts.Time, nil
}

func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}

// stagingPositions maps each staging column to its index in header, or -1.
func stagingPositions(header []string) []int {
	positions := make([]int, len(stagingColumns))
	for i, col := range stagingColumns {
		positions[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				positions[i] = j
				break
			}
		}
	}
	return positions
}

func fieldAt(fields []string, pos int) string {
	if pos < 0 || pos >= len(fields) {
		return ""
	}
	return fields[pos]
}
