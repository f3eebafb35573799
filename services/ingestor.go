package services

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"covid-visualizer/models"
	"covid-visualizer/storage"
	"covid-visualizer/utils"
)

// DateLayout is the accepted date format: year, month and day separated by
// dashes. Month and day may omit the leading zero.
const DateLayout = "2006-1-2"

// DefaultRegion is the state the dataset is filtered to when none is configured.
const DefaultRegion = "washington"

const (
	colDate   = "date"
	colState  = "state"
	colCases  = "cases"
	colDeaths = "deaths"
)

// IngestOptions control how rows are filtered and how strict the header
// check is.
type IngestOptions struct {
	Region string

	// StrictHeader warns when any of date, cases or deaths is missing from the
	// header. Without it the warning only fires when all three are missing.
	StrictHeader bool
}

// Ingestor turns raw tabular rows into a RecordStore for one region.
type Ingestor struct {
	logger *utils.Logger
	opts   IngestOptions
	fold   cases.Caser
}

// NewIngestor creates an Ingestor with the given logger and options.
func NewIngestor(logger *utils.Logger, opts IngestOptions) *Ingestor {
	if strings.TrimSpace(opts.Region) == "" {
		opts.Region = DefaultRegion
	}
	return &Ingestor{logger: logger, opts: opts, fold: cases.Fold()}
}

// IngestFile reads the file at path (CSV, or XLSX by extension) and builds
// the RecordStore.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (*models.RecordStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: ingestion needs a file path (absolute or relative)", ErrInvalidArgument)
	}

	src, err := storage.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	in.logger.Info("[ingest] Reading %s", path)
	return in.Ingest(ctx, src)
}

// Ingest reads every row from src and builds the RecordStore.
func (in *Ingestor) Ingest(ctx context.Context, src storage.RowSource) (*models.RecordStore, error) {
	table, err := src.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	return in.Build(table)
}

// Build filters table to the configured region and parses each matching row
// into an Observation. A row with a bad date is dropped and recorded in
// RecordStore.Rejected, and a warning with the current stack trace is logged
// for it. A bad case or death count aborts the build.
func (in *Ingestor) Build(table *models.RawTable) (*models.RecordStore, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidArgument)
	}

	index := in.headerIndex(table.Header)
	in.checkHeader(index)

	region := in.fold.String(strings.TrimSpace(in.opts.Region))
	store := &models.RecordStore{Region: in.opts.Region}
	otherRegions := 0

	for _, row := range table.Rows {
		state, err := lookup(index, row, colState)
		if err != nil {
			return nil, err
		}
		if in.fold.String(strings.TrimSpace(state)) != region {
			otherRegions++
			continue
		}

		obs, rejection, err := in.parseRow(index, row)
		if err != nil {
			return nil, err
		}
		if rejection != nil {
			store.Rejected = append(store.Rejected, *rejection)
			continue
		}
		store.Observations = append(store.Observations, obs)
	}

	in.logger.Info("[ingest] Region %q: %d observations kept, %d rejected, %d rows for other regions",
		in.opts.Region, store.Len(), len(store.Rejected), otherRegions)
	return store, nil
}

// parseRow parses all three fields before deciding the row's fate, so a bad
// count is reported even on a row whose date is also bad.
func (in *Ingestor) parseRow(index map[string]int, row models.RawRow) (models.Observation, *models.RowRejection, error) {
	rawDate, err := lookup(index, row, colDate)
	if err != nil {
		return models.Observation{}, nil, err
	}

	var dateErr *DateFormatError
	date, err := time.Parse(DateLayout, strings.TrimSpace(rawDate))
	if err != nil {
		dateErr = &DateFormatError{Line: row.Line, Value: rawDate, Err: err}
	}

	caseCount, err := in.parseCount(index, row, colCases)
	if err != nil {
		return models.Observation{}, nil, err
	}
	deathCount, err := in.parseCount(index, row, colDeaths)
	if err != nil {
		return models.Observation{}, nil, err
	}

	if dateErr != nil {
		in.logger.Warn("[ingest] %v (row skipped)", dateErr)
		in.logger.Warn("[ingest] stack for line %d:\n%s", row.Line, debug.Stack())
		return models.Observation{}, &models.RowRejection{Line: row.Line, Reason: dateErr.Error()}, nil
	}

	return models.Observation{Date: date, Cases: caseCount, Deaths: deathCount}, nil, nil
}

func (in *Ingestor) parseCount(index map[string]int, row models.RawRow, column string) (int, error) {
	raw, err := lookup(index, row, column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &NumericFormatError{Line: row.Line, Column: column, Value: raw, Err: err}
	}
	return n, nil
}

// headerIndex maps case-folded header names to their first position.
func (in *Ingestor) headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := in.fold.String(strings.TrimSpace(h))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

// checkHeader is advisory only. By default it warns when none of the three
// value columns is present; StrictHeader warns when any one is missing.
func (in *Ingestor) checkHeader(index map[string]int) {
	var missing []string
	for _, col := range []string{colDate, colCases, colDeaths} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}

	warn := len(missing) == 3
	if in.opts.StrictHeader {
		warn = len(missing) > 0
	}
	if warn {
		in.logger.Warn("[ingest] Dataset header is missing %s; the outcome might not be as expected",
			quoteList(missing))
	}
}

func lookup(index map[string]int, row models.RawRow, column string) (string, error) {
	pos, ok := index[column]
	if !ok || pos >= len(row.Fields) {
		return "", &MissingColumnError{Line: row.Line, Column: column}
	}
	return row.Fields[pos], nil
}

func quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = strconv.Quote(c)
	}
	return strings.Join(quoted, ", ")
}
